package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/bluetooth"
)

var (
	activityInterval time.Duration
	activityOnce     bool
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Track live Bluetooth connection and signal activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bluetooth.NewScanner()
		tracker := bluetooth.NewTracker()

		runOnce := func() error {
			devices, err := scanner.ScanDetailed(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan bluetooth: %w", err)
			}
			for _, event := range tracker.Observe(devices) {
				printEvent(event)
			}
			printActivity(tracker, devices)
			return nil
		}

		if activityOnce {
			return runOnce()
		}

		fmt.Printf("Tracking activity every %s, Ctrl+C to stop.\n", activityInterval)
		ticker := time.NewTicker(activityInterval)
		defer ticker.Stop()
		for {
			if err := runOnce(); err != nil {
				return err
			}
			select {
			case <-cmd.Context().Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func printEvent(event bluetooth.Event) {
	switch event.Type {
	case bluetooth.EventConnection:
		fmt.Printf("CONNECTED    %s (%s)\n", event.Name, event.Address)
	case bluetooth.EventDisconnection:
		fmt.Printf("DISCONNECTED %s\n", event.Address)
	}
}

func printActivity(tracker *bluetooth.Tracker, devices []bluetooth.DeviceDetail) {
	fmt.Printf("\nBluetooth activity at %s\n", time.Now().Format("15:04:05"))
	fmt.Printf("Active devices: %d\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%2d. %s\n", i+1, d.Name)
		line := fmt.Sprintf("    %s | %s", d.Address, d.MinorType)
		if d.Connected {
			line += " | connected"
		}
		if d.HasRSSI {
			line += fmt.Sprintf(" | RSSI %d dBm", d.RSSI)
		}
		fmt.Println(line)
	}

	stats := tracker.Stats()
	fmt.Println("Session statistics:")
	fmt.Printf("  Scans:          %d\n", stats.Scans)
	fmt.Printf("  Connections:    %d\n", stats.Connections)
	fmt.Printf("  Disconnections: %d\n", stats.Disconnections)
	fmt.Printf("  Devices seen:   %d\n", stats.DevicesTracked)

	for _, d := range devices {
		history := tracker.RSSIHistory(d.Address)
		if len(history) < 2 {
			continue
		}
		sum := 0
		for _, v := range history {
			sum += v
		}
		fmt.Printf("  Signal %s: avg %.1f dBm over %d readings\n",
			d.Name, float64(sum)/float64(len(history)), len(history))
	}
}

func init() {
	activityCmd.Flags().DurationVar(&activityInterval, "interval", 5*time.Second, "Delay between activity scans")
	activityCmd.Flags().BoolVar(&activityOnce, "once", false, "Run a single scan and exit")
	rootCmd.AddCommand(activityCmd)
}

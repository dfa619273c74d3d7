package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/bluetooth"
)

var (
	scanContinuous bool
	scanInterval   time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Bluetooth devices via system_profiler",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bluetooth.NewScanner()

		runOnce := func() error {
			devices, err := scanner.Scan(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan bluetooth: %w", err)
			}
			printDevices(devices)
			return nil
		}

		if !scanContinuous {
			return runOnce()
		}

		fmt.Printf("Scanning every %s, Ctrl+C to stop.\n", scanInterval)
		ticker := time.NewTicker(scanInterval)
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

func printDevices(devices []bluetooth.Device) {
	fmt.Printf("Bluetooth scan at %s\n", time.Now().Format("15:04:05"))
	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return
	}
	fmt.Printf("Devices found: %d\n", len(devices))
	for i, d := range devices {
		name := d.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Printf("%2d. %s\n", i+1, name)
		fmt.Printf("    Address: %s", d.Address)
		if d.MinorType != "" {
			fmt.Printf("  Type: %s", d.MinorType)
		}
		if d.State != "" {
			fmt.Printf("  State: %s", d.State)
		}
		fmt.Println()
	}
}

func init() {
	scanCmd.Flags().BoolVar(&scanContinuous, "continuous", false, "Keep scanning until interrupted")
	scanCmd.Flags().DurationVar(&scanInterval, "interval", 10*time.Second, "Delay between continuous scans")
	rootCmd.AddCommand(scanCmd)
}

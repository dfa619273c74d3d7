package bluetooth

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an OS command and returns its stdout. Swapped out in
// tests for canned output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

// Scanner reads the system Bluetooth report via system_profiler.
type Scanner struct {
	run Runner
}

func NewScanner() *Scanner {
	return &Scanner{run: execRunner}
}

// NewScannerWithRunner builds a Scanner with a custom command runner.
func NewScannerWithRunner(run Runner) *Scanner {
	return &Scanner{run: run}
}

// Status returns the raw plain-text Bluetooth report.
func (s *Scanner) Status(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "system_profiler", "SPBluetoothDataType")
	if err != nil {
		return "", fmt.Errorf("bluetooth status: %w", err)
	}
	return string(out), nil
}

// Scan runs a single scan and parses the report into device records.
func (s *Scanner) Scan(ctx context.Context) ([]Device, error) {
	text, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	return ParseDevices(text), nil
}

// ScanDetailed runs the JSON report, which includes connection state
// and RSSI per device.
func (s *Scanner) ScanDetailed(ctx context.Context) ([]DeviceDetail, error) {
	out, err := s.run(ctx, "system_profiler", "SPBluetoothDataType", "-json")
	if err != nil {
		return nil, fmt.Errorf("bluetooth detailed scan: %w", err)
	}
	return ParseDevicesJSON(out)
}

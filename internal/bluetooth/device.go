// Package bluetooth wraps the macOS system_profiler Bluetooth report.
// It shells out and parses; it never talks to the radio itself.
package bluetooth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Device is one entry parsed from the plain-text system_profiler report.
type Device struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	State     string `json:"state,omitempty"`
	MinorType string `json:"minor_type,omitempty"`
	Firmware  string `json:"firmware_version,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	VendorID  string `json:"vendor_id,omitempty"`
}

// DeviceDetail is one entry parsed from the -json report, which carries
// connection state and signal strength the text report lacks.
type DeviceDetail struct {
	Name      string
	Address   string
	MinorType string
	Connected bool
	RSSI      int
	HasRSSI   bool
}

// sectionHeaders are indented lines ending in ':' that group devices
// rather than naming one.
var sectionHeaders = map[string]bool{
	"Bluetooth":            true,
	"Bluetooth Controller": true,
	"Connected":            true,
	"Not Connected":        true,
	"Devices (Paired, Configured, etc.)": true,
}

// ParseDevices extracts device records from plain-text system_profiler
// SPBluetoothDataType output. A "Name:" style trailing-colon line names
// the device opened by the following Address line.
func ParseDevices(text string) []Device {
	var devices []Device
	var current *Device
	var pendingName string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line[:len(line)-1], ":") {
			name := strings.TrimSpace(strings.TrimSuffix(line, ":"))
			if !sectionHeaders[name] {
				pendingName = name
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Address":
			if current != nil {
				devices = append(devices, *current)
			}
			current = &Device{Address: value, Name: pendingName}
			if current.Name == "" {
				current.Name = "Unknown"
			}
			pendingName = ""
		case "State":
			if current != nil {
				current.State = value
			}
		case "Firmware Version":
			if current != nil {
				current.Firmware = value
			}
		case "Minor Type":
			if current != nil {
				current.MinorType = value
			}
		case "Product ID":
			if current != nil {
				current.ProductID = value
			}
		case "Vendor ID":
			if current != nil {
				current.VendorID = value
			}
		}
	}

	if current != nil {
		devices = append(devices, *current)
	}
	return devices
}

// ParseDevicesJSON extracts device records from system_profiler
// SPBluetoothDataType -json output. The report nests devices as
// single-key objects under device_connected / device_not_connected
// arrays; any object carrying device_address counts.
func ParseDevicesJSON(data []byte) ([]DeviceDetail, error) {
	var report struct {
		SPBluetoothDataType []map[string]json.RawMessage `json:"SPBluetoothDataType"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse bluetooth report: %w", err)
	}

	var devices []DeviceDetail
	for _, item := range report.SPBluetoothDataType {
		for key, raw := range item {
			// Direct device object
			if d, ok := parseDeviceObject(key, raw); ok {
				devices = append(devices, d)
				continue
			}

			// Array of single-key device objects
			var list []map[string]json.RawMessage
			if err := json.Unmarshal(raw, &list); err != nil {
				continue
			}
			for _, entry := range list {
				for name, deviceRaw := range entry {
					if d, ok := parseDeviceObject(name, deviceRaw); ok {
						devices = append(devices, d)
					}
				}
			}
		}
	}
	return devices, nil
}

func parseDeviceObject(name string, raw json.RawMessage) (DeviceDetail, bool) {
	var props struct {
		Address   string          `json:"device_address"`
		Connected string          `json:"device_isConnected"`
		MinorType string          `json:"device_minorType"`
		RSSI      json.RawMessage `json:"device_rssi"`
	}
	if err := json.Unmarshal(raw, &props); err != nil || props.Address == "" {
		return DeviceDetail{}, false
	}

	d := DeviceDetail{
		Name:      name,
		Address:   props.Address,
		MinorType: props.MinorType,
		Connected: props.Connected == "Yes",
	}
	if len(props.RSSI) > 0 {
		// RSSI arrives as a number or a quoted string depending on OS version
		var n int
		if err := json.Unmarshal(props.RSSI, &n); err == nil {
			d.RSSI, d.HasRSSI = n, true
		} else {
			var s string
			if err := json.Unmarshal(props.RSSI, &s); err == nil {
				if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
					d.RSSI, d.HasRSSI = n, true
				}
			}
		}
	}
	return d, true
}

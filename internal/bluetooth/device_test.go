package bluetooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `Bluetooth:

      Bluetooth Controller:
          Address: F4:D4:88:8A:23:8C
          State: On
          Chipset: BCM_4387
          Firmware Version: v281
          Product ID: 0x0001
          Vendor ID: 0x004C

      Not Connected:
          Magic Keyboard:
              Address: D6:C7:DD:A2:0F:17
              Minor Type: Keyboard
          JBL Flip:
              Address: 78:4F:43:D0:C2:C2
              Minor Type: Speaker
`

func TestParseDevices(t *testing.T) {
	t.Run("parses controller and paired devices", func(t *testing.T) {
		devices := ParseDevices(sampleReport)
		require.Len(t, devices, 3)

		assert.Equal(t, "F4:D4:88:8A:23:8C", devices[0].Address)
		assert.Equal(t, "On", devices[0].State)
		assert.Equal(t, "v281", devices[0].Firmware)
		assert.Equal(t, "0x0001", devices[0].ProductID)

		assert.Equal(t, "Magic Keyboard", devices[1].Name)
		assert.Equal(t, "D6:C7:DD:A2:0F:17", devices[1].Address)
		assert.Equal(t, "Keyboard", devices[1].MinorType)

		assert.Equal(t, "JBL Flip", devices[2].Name)
		assert.Equal(t, "Speaker", devices[2].MinorType)
	})

	t.Run("device without name line is Unknown", func(t *testing.T) {
		devices := ParseDevices("          Address: AA:BB:CC:DD:EE:FF\n          State: On\n")
		require.Len(t, devices, 1)
		assert.Equal(t, "Unknown", devices[0].Name)
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		assert.Empty(t, ParseDevices(""))
	})
}

const sampleJSONReport = `{
  "SPBluetoothDataType": [
    {
      "controller_properties": {
        "controller_address": "F4:D4:88:8A:23:8C",
        "controller_state": "attrib_on"
      },
      "device_connected": [
        {
          "AirPods Pro": {
            "device_address": "38:C4:3A:29:62:8C",
            "device_isConnected": "Yes",
            "device_minorType": "Headphones",
            "device_rssi": -52
          }
        }
      ],
      "device_not_connected": [
        {
          "Magic Keyboard": {
            "device_address": "D6:C7:DD:A2:0F:17",
            "device_isConnected": "No",
            "device_minorType": "Keyboard"
          }
        }
      ]
    }
  ]
}`

func TestParseDevicesJSON(t *testing.T) {
	t.Run("parses connected and disconnected devices", func(t *testing.T) {
		devices, err := ParseDevicesJSON([]byte(sampleJSONReport))
		require.NoError(t, err)
		require.Len(t, devices, 2)

		byAddr := map[string]DeviceDetail{}
		for _, d := range devices {
			byAddr[d.Address] = d
		}

		pods := byAddr["38:C4:3A:29:62:8C"]
		assert.Equal(t, "AirPods Pro", pods.Name)
		assert.True(t, pods.Connected)
		require.True(t, pods.HasRSSI)
		assert.Equal(t, -52, pods.RSSI)

		kbd := byAddr["D6:C7:DD:A2:0F:17"]
		assert.False(t, kbd.Connected)
		assert.False(t, kbd.HasRSSI)
	})

	t.Run("rssi as string", func(t *testing.T) {
		data := `{"SPBluetoothDataType":[{"dev":{"device_address":"AA:BB","device_rssi":"-61"}}]}`
		devices, err := ParseDevicesJSON([]byte(data))
		require.NoError(t, err)
		require.Len(t, devices, 1)
		require.True(t, devices[0].HasRSSI)
		assert.Equal(t, -61, devices[0].RSSI)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseDevicesJSON([]byte(`{broken`))
		assert.Error(t, err)
	})

	t.Run("empty report", func(t *testing.T) {
		devices, err := ParseDevicesJSON([]byte(`{"SPBluetoothDataType":[]}`))
		require.NoError(t, err)
		assert.Empty(t, devices)
	})
}

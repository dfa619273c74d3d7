package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const protocolSpecText = `
# Bitchat Binary Protocol Specification

## Header Format (13 bytes)
- Version: 1 byte
- Type: 1 byte
- TTL: 1 byte
- Timestamp: 8 bytes (UInt64)
- Flags: 1 byte (bit 0: hasRecipient, bit 1: hasSignature)
- PayloadLength: 2 bytes (UInt16)

## Message Types
- 0x01: ANNOUNCE
- 0x02: KEY_EXCHANGE
- 0x03: LEAVE
- 0x04: MESSAGE
- 0x05: FRAGMENT_START
- 0x06: FRAGMENT_CONTINUE
- 0x07: FRAGMENT_END
`

const encryptionDetailsText = `
# Bitchat Encryption Details

## Key Exchange
- Algorithm: X25519 ECDH
- Key derivation: HKDF-SHA256
- Forward secrecy: New keys per session

## Message Encryption
- Algorithm: AES-256-GCM
- Authentication: Built-in AEAD
- Nonce: Random 96-bit

## Digital Signatures
- Algorithm: Ed25519
- Used for: Message authenticity
- Key generation: Fresh per session
`

// RegisterResources adds the mesh, protocol, and bluetooth resources.
func RegisterResources(s *Server) {
	s.AddResource(mcp.NewResource("mesh://network/topology", "Mesh Network Topology",
		mcp.WithResourceDescription("Current mesh network topology and connections"),
		mcp.WithMIMEType("application/json"),
	), readNetworkTopology)

	s.AddResource(mcp.NewResource("mesh://network/peers", "Network Peers",
		mcp.WithResourceDescription("List of discovered mesh network peers"),
		mcp.WithMIMEType("application/json"),
	), readNetworkPeers)

	s.AddResource(mcp.NewResource("mesh://network/activity", "Network Activity",
		mcp.WithResourceDescription("Real-time network activity log"),
		mcp.WithMIMEType("application/json"),
	), readNetworkActivity)

	s.AddResource(mcp.NewResource("protocol://binary/spec", "Binary Protocol Specification",
		mcp.WithResourceDescription("Bitchat binary protocol specification"),
		mcp.WithMIMEType("text/markdown"),
	), readProtocolSpec)

	s.AddResource(mcp.NewResource("protocol://encryption/details", "Encryption Details",
		mcp.WithResourceDescription("Cryptographic implementation details"),
		mcp.WithMIMEType("text/markdown"),
	), readEncryptionDetails)

	s.AddResource(mcp.NewResource("bluetooth://devices/discovered", "Discovered Bluetooth Devices",
		mcp.WithResourceDescription("Recently discovered Bluetooth devices"),
		mcp.WithMIMEType("application/json"),
	), readDiscoveredDevices)
}

func readNetworkTopology(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	topology := map[string]any{
		"nodes": []map[string]any{
			{"id": "node1", "type": "central", "connections": []string{"node2", "node3"}},
			{"id": "node2", "type": "peripheral", "connections": []string{"node1"}},
			{"id": "node3", "type": "peripheral", "connections": []string{"node1"}},
		},
		"edges": []map[string]any{
			{"from": "node1", "to": "node2", "strength": -45},
			{"from": "node1", "to": "node3", "strength": -52},
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}
	return textResource(uri, "application/json", prettyJSON(topology)), nil
}

func readNetworkPeers(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	peers := map[string]any{
		"active_peers": []map[string]string{
			{"id": "peer1", "nickname": "alice", "last_seen": "2024-01-01T12:00:00Z"},
			{"id": "peer2", "nickname": "bob", "last_seen": "2024-01-01T12:01:00Z"},
		},
		"peer_count": 2,
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	return textResource(uri, "application/json", prettyJSON(peers)), nil
}

func readNetworkActivity(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	activity := map[string]any{
		"recent_messages": []map[string]string{
			{"timestamp": "2024-01-01T12:00:00Z", "type": "message", "from": "alice", "to": "bob"},
			{"timestamp": "2024-01-01T12:01:00Z", "type": "key_exchange", "from": "bob", "to": "alice"},
		},
		"activity_count": 2,
		"timestamp":      time.Now().Format(time.RFC3339),
	}
	return textResource(uri, "application/json", prettyJSON(activity)), nil
}

func readProtocolSpec(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return textResource(uri, "text/markdown", protocolSpecText), nil
}

func readEncryptionDetails(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return textResource(uri, "text/markdown", encryptionDetailsText), nil
}

func readDiscoveredDevices(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	devices := map[string]any{
		"discovered_devices": []map[string]string{
			{"name": "Unknown", "address": "F4:D4:88:8A:23:8C", "type": "Computer"},
			{"name": "Unknown", "address": "78:4F:43:D0:C2:C2", "type": "Speaker"},
		},
		"scan_timestamp": time.Now().Format(time.RFC3339),
	}
	return textResource(uri, "application/json", prettyJSON(devices)), nil
}

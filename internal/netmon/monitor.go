// Package netmon collects network-side diagnostics for mesh debugging:
// interface counters via netstat, process scans via ps, and a local UDP
// socket standing in for a mesh node.
package netmon

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Runner executes an OS command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

// Interface is one row of the netstat -i table.
type Interface struct {
	Name       string `json:"name"`
	MTU        int    `json:"mtu"`
	Network    string `json:"network"`
	Address    string `json:"address"`
	PacketsIn  int64  `json:"packets_in"`
	PacketsOut int64  `json:"packets_out"`
}

// DefaultKeywords select processes worth showing in a mesh debug session.
var DefaultKeywords = []string{"bitchat", "bluetooth"}

// Monitor shells out for interface and process snapshots and keeps an
// in-memory count of completed scans.
type Monitor struct {
	run      Runner
	keywords []string

	mu    sync.Mutex
	scans int
}

func New() *Monitor {
	return &Monitor{run: execRunner, keywords: DefaultKeywords}
}

// NewWithRunner builds a Monitor with a custom command runner and
// process keywords.
func NewWithRunner(run Runner, keywords ...string) *Monitor {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &Monitor{run: run, keywords: keywords}
}

// Interfaces returns the current netstat -i interface table.
func (m *Monitor) Interfaces(ctx context.Context) ([]Interface, error) {
	out, err := m.run(ctx, "netstat", "-i")
	if err != nil {
		return nil, fmt.Errorf("network activity: %w", err)
	}
	return ParseInterfaces(string(out)), nil
}

// MatchingProcesses returns ps aux lines mentioning any monitor keyword.
func (m *Monitor) MatchingProcesses(ctx context.Context) ([]string, error) {
	out, err := m.run(ctx, "ps", "aux")
	if err != nil {
		return nil, fmt.Errorf("process scan: %w", err)
	}
	return FilterProcesses(string(out), m.keywords), nil
}

// RecordScan bumps the scan counter and returns the new total.
func (m *Monitor) RecordScan() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans++
	return m.scans
}

func (m *Monitor) Scans() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scans
}

// ParseInterfaces parses netstat -i output. Rows with fewer columns
// than the header promises are skipped.
func ParseInterfaces(text string) []Interface {
	var interfaces []Interface
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		mtu, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		iface := Interface{
			Name:    fields[0],
			MTU:     mtu,
			Network: fields[2],
			Address: fields[3],
		}
		if n, err := strconv.ParseInt(fields[4], 10, 64); err == nil {
			iface.PacketsIn = n
		}
		// Opkts column position varies with the error columns present
		if len(fields) >= 7 {
			if n, err := strconv.ParseInt(fields[6], 10, 64); err == nil {
				iface.PacketsOut = n
			}
		}
		interfaces = append(interfaces, iface)
	}
	return interfaces
}

// FilterProcesses returns lines containing any keyword, case-insensitively.
func FilterProcesses(text string, keywords []string) []string {
	var matches []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matches = append(matches, strings.TrimSpace(line))
				break
			}
		}
	}
	return matches
}

// NodeSim is a bound local UDP socket standing in for a mesh node.
type NodeSim struct {
	conn *net.UDPConn
}

// SimulateNode binds a UDP socket on an ephemeral localhost port.
func SimulateNode() (*NodeSim, error) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("simulate mesh node: %w", err)
	}
	return &NodeSim{conn: conn}, nil
}

// Port returns the bound local port.
func (n *NodeSim) Port() int {
	return n.conn.LocalAddr().(*net.UDPAddr).Port
}

func (n *NodeSim) Close() error {
	return n.conn.Close()
}

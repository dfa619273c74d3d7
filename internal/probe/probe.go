package probe

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// DefaultStepTimeout bounds each handshake step. Servers answer from
// canned data, so anything slower than this is stuck.
const DefaultStepTimeout = 10 * time.Second

type Step struct {
	Name   string
	OK     bool
	Detail string
}

type Report struct {
	Steps []Step
}

func (r *Report) Passed() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return len(r.Steps) > 0
}

// Summary renders one line per step in doctor output style.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, s := range r.Steps {
		status := "OK"
		if !s.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%-22s %s", s.Name+":", status)
		if s.Detail != "" {
			fmt.Fprintf(&b, " (%s)", s.Detail)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	ServerInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []struct {
		Name string `json:"name"`
	} `json:"tools"`
}

type callToolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type resourcesListResult struct {
	Resources []struct {
		URI string `json:"uri"`
	} `json:"resources"`
}

// Check drives the standard handshake sequence against an already
// connected client. It never aborts early; later steps run even after
// a failure so the report shows everything at once.
func Check(ctx context.Context, c *Client, stepTimeout time.Duration) *Report {
	report := &Report{}
	record := func(name string, detail string, err error) {
		step := Step{Name: name, OK: err == nil, Detail: detail}
		if err != nil {
			step.Detail = err.Error()
		}
		report.Steps = append(report.Steps, step)
	}

	call := func(method string, params any, v any) error {
		stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
		defer cancel()
		msg, err := c.Call(stepCtx, method, params)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		return decodeResult(msg, v)
	}

	var init initializeResult
	err := call("initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "bitchat-mcp-probe", "version": "1.0.0"},
	}, &init)
	detail := ""
	if err == nil {
		detail = fmt.Sprintf("%s %s", init.ServerInfo.Name, init.ServerInfo.Version)
		err = c.Notify("notifications/initialized")
	}
	record("initialize", detail, err)

	var tools toolsListResult
	err = call("tools/list", nil, &tools)
	if err == nil && len(tools.Tools) == 0 {
		err = fmt.Errorf("server advertises no tools")
	}
	record("tools/list", fmt.Sprintf("%d tools", len(tools.Tools)), err)

	var hello callToolResult
	err = call("tools/call", map[string]any{
		"name":      "hello",
		"arguments": map[string]any{"name": "probe"},
	}, &hello)
	if err == nil {
		if len(hello.Content) == 0 || hello.Content[0].Text == "" {
			err = fmt.Errorf("empty tool result")
		} else if strings.HasPrefix(hello.Content[0].Text, "Unknown tool:") {
			err = fmt.Errorf("hello tool not registered")
		}
	}
	record("tools/call hello", "greeting returned", err)

	var resources resourcesListResult
	err = call("resources/list", nil, &resources)
	record("resources/list", fmt.Sprintf("%d resources", len(resources.Resources)), err)

	return report
}

// RunCommand spawns the server command, wires its stdio, runs the
// handshake, and tears the process down.
func RunCommand(ctx context.Context, stepTimeout time.Duration, name string, args ...string) (*Report, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start server %s: %w", name, err)
	}

	report := Check(ctx, NewClient(stdout, stdin), stepTimeout)

	stdin.Close()
	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cmd.Process.Kill()
		<-done
	}
	return report, nil
}

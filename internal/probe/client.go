// Package probe drives a live MCP handshake against a server over
// newline-delimited JSON-RPC, reporting each step's outcome. It backs
// the probe and doctor commands.
package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/skerns321/bitchat-mcp/internal/protocol"
)

const maxLineSize = 10 * 1024 * 1024

// Client speaks client-side JSON-RPC over a reader/writer pair. A single
// reader goroutine owns the incoming stream; Call matches responses by
// id, so a late reply to an abandoned request cannot be mistaken for the
// answer to a later one.
type Client struct {
	w         io.Writer
	nextID    atomic.Int64
	responses chan *protocol.Message
	readErr   error // set before responses is closed
}

func NewClient(r io.Reader, w io.Writer) *Client {
	c := &Client{w: w, responses: make(chan *protocol.Message, 16)}
	go c.readLoop(r)
	return c
}

func (c *Client) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := protocol.ParseMessage(line)
		if err != nil || !msg.IsResponse() {
			continue
		}
		c.responses <- msg
	}
	c.readErr = scanner.Err()
	close(c.responses)
}

func (c *Client) send(msg *protocol.Message) error {
	data, err := msg.Serialize()
	if err != nil {
		return fmt.Errorf("serialize message: %w", err)
	}
	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Notify sends a notification and does not wait for a reply.
func (c *Client) Notify(method string) error {
	return c.send(protocol.NewNotification(method))
}

// Call sends a request and blocks until the response carrying its id
// arrives, honoring ctx cancellation while waiting. Responses to other
// ids (replies to requests a caller gave up on) are discarded.
func (c *Client) Call(ctx context.Context, method string, params any) (*protocol.Message, error) {
	id := c.nextID.Add(1)
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}
	if err := c.send(req); err != nil {
		return nil, err
	}

	want := strconv.FormatInt(id, 10)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-c.responses:
			if !ok {
				err := c.readErr
				if err == nil {
					err = io.EOF
				}
				return nil, fmt.Errorf("read response for %s: %w", method, err)
			}
			if string(msg.ID) != want {
				continue
			}
			if msg.Error != nil {
				return nil, fmt.Errorf("call %s: %w", method, msg.Error)
			}
			return msg, nil
		}
	}
}

func decodeResult(msg *protocol.Message, v any) error {
	if err := json.Unmarshal(msg.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

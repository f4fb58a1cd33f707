// Package apdutest provides a scripted in-memory device channel for tests.
package apdutest

import (
	"context"
	"sync"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
)

// Reply is one scripted device response, or a transport failure.
type Reply struct {
	Data []byte
	SW   uint16
	Err  error
}

// OK builds a success reply carrying data.
func OK(data ...byte) Reply {
	return Reply{Data: data, SW: apdu.SwOK}
}

// Status builds a reply with the given status word and no data.
func Status(sw uint16) Reply {
	return Reply{SW: sw}
}

// Fail builds a transport-level failure.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// Channel replays a fixed script of replies in order and records every
// command it receives. Once the script runs out, it answers with empty
// success replies.
type Channel struct {
	mu       sync.Mutex
	replies  []Reply
	Commands []apdu.Command
}

func New(replies ...Reply) *Channel {
	return &Channel{replies: replies}
}

func (c *Channel) Exchange(_ context.Context, cmd apdu.Command) (apdu.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Commands = append(c.Commands, cmd)
	if len(c.replies) == 0 {
		return apdu.Response{SW: apdu.SwOK}, nil
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	if r.Err != nil {
		return apdu.Response{}, r.Err
	}
	return apdu.Response{Data: r.Data, SW: r.SW}, nil
}

// Count returns how many recorded commands match instruction and P1.
func (c *Channel) Count(ins apdu.Instruction, p1 byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, cmd := range c.Commands {
		if cmd.Ins == ins && cmd.P1 == p1 {
			n++
		}
	}
	return n
}

// ByP1 returns the recorded commands matching instruction and P1, in order.
func (c *Channel) ByP1(ins apdu.Instruction, p1 byte) []apdu.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []apdu.Command
	for _, cmd := range c.Commands {
		if cmd.Ins == ins && cmd.P1 == p1 {
			out = append(out, cmd)
		}
	}
	return out
}

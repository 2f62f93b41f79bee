// Package channel provides the simulated interconnect that carries encoded
// messages between models.
package channel

import (
	"errors"
	"sync"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cosim/msgs"
)

// HookPosSend marks when a message enters a channel.
var HookPosSend = &sim.HookPos{Name: "Channel Send"}

// HookPosRecv marks when a message leaves a channel.
var HookPosRecv = &sim.HookPos{Name: "Channel Recv"}

// ErrChannelFull is returned by Send when the channel is at capacity.
var ErrChannelFull = errors.New("channel full")

// ErrNilMessage is returned by Send when given no message.
var ErrNilMessage = errors.New("nil message")

// Envelope is a message in flight, tagged with a unique ID.
type Envelope struct {
	ID  string
	Msg msgs.Message
}

// Stats holds channel traffic counters.
type Stats struct {
	Sent     uint64
	Received uint64
	Rejected uint64
}

// Channel is a bounded FIFO of messages. Hooks see every Send and Recv with
// the Envelope as the item.
type Channel struct {
	sim.HookableBase

	lock  sync.Mutex
	name  string
	buf   sim.Buffer
	stats Stats
}

// New creates a channel. The name must be a valid akita name, for example
// "Core.ToAccel".
func New(name string, capacity int) *Channel {
	return &Channel{
		name: name,
		buf:  sim.NewBuffer(name+".Buf", capacity),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// CanSend reports whether Send would succeed.
func (c *Channel) CanSend() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.buf.CanPush()
}

// Send enqueues msg and returns the ID assigned to it.
func (c *Channel) Send(msg msgs.Message) (string, error) {
	if msg == nil {
		return "", ErrNilMessage
	}

	c.lock.Lock()

	if !c.buf.CanPush() {
		c.stats.Rejected++
		c.lock.Unlock()
		return "", ErrChannelFull
	}

	env := Envelope{
		ID:  sim.GetIDGenerator().Generate(),
		Msg: msg,
	}
	c.buf.Push(env)
	c.stats.Sent++
	c.lock.Unlock()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosSend,
		Item:   env,
	})

	return env.ID, nil
}

// Recv dequeues the oldest message. It returns false if the channel is empty.
func (c *Channel) Recv() (Envelope, bool) {
	c.lock.Lock()

	item := c.buf.Pop()
	if item == nil {
		c.lock.Unlock()
		return Envelope{}, false
	}

	env := item.(Envelope)
	c.stats.Received++
	c.lock.Unlock()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRecv,
		Item:   env,
	})

	return env, true
}

// Peek returns the oldest message without removing it.
func (c *Channel) Peek() (Envelope, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	item := c.buf.Peek()
	if item == nil {
		return Envelope{}, false
	}

	return item.(Envelope), true
}

// Len returns the number of queued messages.
func (c *Channel) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.buf.Size()
}

// Capacity returns the maximum number of queued messages.
func (c *Channel) Capacity() int {
	return c.buf.Capacity()
}

// Stats returns traffic counters.
func (c *Channel) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.stats
}

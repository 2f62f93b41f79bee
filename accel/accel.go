package accel

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cosim/channel"
	"github.com/sarchlab/cosim/msgs"
)

// Command types carried in the RoccCmd type field.
const (
	CmdWrite uint8 = 0 // xreg <- data; responds 0
	CmdRead  uint8 = 1 // responds xreg
	CmdAccum uint8 = 2 // xreg <- xreg + data; responds the new value
	CmdLoad  uint8 = 3 // xreg <- mem[data]; responds the loaded value
	CmdStore uint8 = 4 // mem[data] <- xreg; responds 0
)

var (
	// ErrUnknownCommand is returned for command types the model does not
	// implement.
	ErrUnknownCommand = errors.New("unknown accelerator command")

	// ErrNoMemory is returned for load and store commands when no memory
	// port is attached.
	ErrNoMemory = errors.New("no memory port attached")

	// ErrTagMismatch is returned when a memory response does not carry the
	// opaque tag of the request it answers.
	ErrTagMismatch = errors.New("memory response tag mismatch")
)

// MemPort performs memory requests synchronously.
type MemPort interface {
	Access(req msgs.MemReq) (msgs.MemResp, error)
}

// Stats holds executed command counters.
type Stats struct {
	Commands  uint64
	MemAccess uint64
}

// Accelerator executes commands against its register file and an optional
// memory port.
type Accelerator struct {
	regs RegFile

	codec      *msgs.MemCodec
	mem        MemPort
	opaqueMask uint64
	nextOpaque uint64

	stats Stats
}

// Option is a functional option for configuring the Accelerator.
type Option func(*Accelerator)

// WithMemory attaches a memory port speaking codec's layout. A port built for
// another width configuration rejects the requests, and responses laid out
// under another configuration fail with msgs.ErrWidthMismatch.
func WithMemory(codec *msgs.MemCodec, port MemPort) Option {
	return func(a *Accelerator) {
		a.codec = codec
		a.mem = port

		opaqueBits := codec.Config().OpaqueBits
		if opaqueBits >= 64 {
			a.opaqueMask = ^uint64(0)
		} else {
			a.opaqueMask = (uint64(1) << opaqueBits) - 1
		}
	}
}

// New creates an accelerator.
func New(opts ...Option) *Accelerator {
	a := &Accelerator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RegFile returns the register file.
func (a *Accelerator) RegFile() *RegFile {
	return &a.regs
}

// Stats returns command counters.
func (a *Accelerator) Stats() Stats {
	return a.stats
}

// Execute runs one command.
func (a *Accelerator) Execute(cmd msgs.RoccCmd) (msgs.RoccResp, error) {
	xreg := cmd.Xreg()
	var result uint64

	switch cmd.Type() {
	case CmdWrite:
		a.regs.WriteReg(xreg, cmd.Data())
	case CmdRead:
		result = a.regs.ReadReg(xreg)
	case CmdAccum:
		result = a.regs.ReadReg(xreg) + cmd.Data()
		a.regs.WriteReg(xreg, result)
	case CmdLoad:
		resp, err := a.access(msgs.MemReqTypeRead, cmd.Data(), 0)
		if err != nil {
			return msgs.RoccResp{}, err
		}
		result = resp.Data()
		a.regs.WriteReg(xreg, result)
	case CmdStore:
		if _, err := a.access(msgs.MemReqTypeWrite, cmd.Data(), a.regs.ReadReg(xreg)); err != nil {
			return msgs.RoccResp{}, err
		}
	default:
		return msgs.RoccResp{}, fmt.Errorf("%w: 0x%02x", ErrUnknownCommand, cmd.Type())
	}

	a.stats.Commands++

	return msgs.EncodeRoccResp(result), nil
}

// access issues one tagged memory request and checks the response tag.
func (a *Accelerator) access(typ uint8, addr, data uint64) (msgs.MemResp, error) {
	if a.mem == nil {
		return msgs.MemResp{}, ErrNoMemory
	}

	tag := a.nextOpaque & a.opaqueMask
	a.nextOpaque++

	req, err := a.codec.EncodeMemReq(typ, tag, addr, data)
	if err != nil {
		return msgs.MemResp{}, fmt.Errorf("failed to build memory request: %w", err)
	}

	resp, err := a.mem.Access(req)
	if err != nil {
		return msgs.MemResp{}, err
	}

	if err := a.codec.CheckMemResp(resp); err != nil {
		return msgs.MemResp{}, err
	}

	if resp.Opaque() != tag {
		return msgs.MemResp{}, fmt.Errorf("%w: sent 0x%x, got 0x%x", ErrTagMismatch, tag, resp.Opaque())
	}

	a.stats.MemAccess++

	return resp, nil
}

// Serve drains commands from in and pushes responses to out while out has
// room. It returns the number of commands served.
func (a *Accelerator) Serve(in, out *channel.Channel) (int, error) {
	served := 0

	for out.CanSend() {
		env, ok := in.Recv()
		if !ok {
			break
		}

		cmd, ok := env.Msg.(msgs.RoccCmd)
		if !ok {
			return served, fmt.Errorf("accelerator got %s on %s", env.Msg.Kind(), in.Name())
		}

		resp, err := a.Execute(cmd)
		if err != nil {
			return served, err
		}

		if _, err := out.Send(resp); err != nil {
			return served, err
		}
		served++
	}

	return served, nil
}

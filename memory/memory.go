// Package memory provides a functional memory model that serves MemReq
// messages with MemResp messages.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"

	"github.com/sarchlab/cosim/channel"
	"github.com/sarchlab/cosim/msgs"
)

// ErrOutOfBounds is returned for accesses beyond the memory capacity.
var ErrOutOfBounds = errors.New("memory access out of bounds")

// ErrUnknownType is returned for request types other than read and write.
var ErrUnknownType = errors.New("unknown memory request type")

// Statistics holds access counters.
type Statistics struct {
	Reads  uint64
	Writes uint64
}

// Memory is a byte-addressed store behind the memory message protocol.
// Multi-byte payloads are little-endian.
type Memory struct {
	codec    *msgs.MemCodec
	storage  *mem.Storage
	capacity uint64
	stats    Statistics
}

// New creates a memory of capacity bytes speaking the given codec's layout.
func New(codec *msgs.MemCodec, capacity uint64) *Memory {
	return &Memory{
		codec:    codec,
		storage:  mem.NewStorage(capacity),
		capacity: capacity,
	}
}

// Codec returns the codec requests must be built with.
func (m *Memory) Codec() *msgs.MemCodec {
	return m.codec
}

// Stats returns access counters.
func (m *Memory) Stats() Statistics {
	return m.stats
}

// accessSize returns the number of bytes a request touches. A len of 0 means
// the whole data width.
func (m *Memory) accessSize(req msgs.MemReq) uint64 {
	size := req.Len()
	if size == 0 {
		size = uint64(m.codec.Config().DataBytes())
	}
	return size
}

// Access performs one request and returns the response. The response echoes
// the request type and opaque tag; reads carry the loaded data and writes
// carry 0. Requests laid out under a different width configuration fail with
// msgs.ErrWidthMismatch.
func (m *Memory) Access(req msgs.MemReq) (msgs.MemResp, error) {
	if err := m.codec.CheckMemReq(req); err != nil {
		return msgs.MemResp{}, err
	}

	size := m.accessSize(req)
	addr := req.Addr()

	if err := m.boundsMustHold(addr, size); err != nil {
		return msgs.MemResp{}, err
	}

	var data uint64
	switch req.Type() {
	case msgs.MemReqTypeRead:
		raw, err := m.storage.Read(addr, size)
		if err != nil {
			return msgs.MemResp{}, fmt.Errorf("failed to read 0x%x: %w", addr, err)
		}
		var word [8]byte
		copy(word[:], raw)
		data = binary.LittleEndian.Uint64(word[:])
		m.stats.Reads++
	case msgs.MemReqTypeWrite:
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], req.Data())
		if err := m.storage.Write(addr, word[:size]); err != nil {
			return msgs.MemResp{}, fmt.Errorf("failed to write 0x%x: %w", addr, err)
		}
		m.stats.Writes++
	default:
		return msgs.MemResp{}, fmt.Errorf("%w: %d", ErrUnknownType, req.Type())
	}

	return m.codec.EncodeMemResp(req.Type(), req.Opaque(), data)
}

// Serve drains requests from in and pushes responses to out while out has
// room. It returns the number of requests served.
func (m *Memory) Serve(in, out *channel.Channel) (int, error) {
	served := 0

	for out.CanSend() {
		env, ok := in.Recv()
		if !ok {
			break
		}

		req, ok := env.Msg.(msgs.MemReq)
		if !ok {
			return served, fmt.Errorf("memory got %s on %s", env.Msg.Kind(), in.Name())
		}

		resp, err := m.Access(req)
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

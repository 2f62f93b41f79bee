package channel

import (
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/akita/v4/sim"
)

// LineTracer is a hook that writes one line per message event:
//
//	send Core.ToAccel 3 RoccCmd 00:01:000000000000002a
type LineTracer struct {
	lock sync.Mutex
	w    io.Writer
}

// NewLineTracer creates a tracer writing to w.
func NewLineTracer(w io.Writer) *LineTracer {
	return &LineTracer{w: w}
}

// Func implements sim.Hook.
func (t *LineTracer) Func(ctx sim.HookCtx) {
	env, ok := ctx.Item.(Envelope)
	if !ok || env.Msg == nil {
		return
	}

	var pos string
	switch ctx.Pos {
	case HookPosSend:
		pos = "send"
	case HookPosRecv:
		pos = "recv"
	default:
		return
	}

	name := "?"
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	fmt.Fprintf(t.w, "%s %s %s %s %s\n", pos, name, env.ID, env.Msg.Kind(), env.Msg)
}

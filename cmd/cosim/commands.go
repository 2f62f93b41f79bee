package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cosim/accel"
	"github.com/sarchlab/cosim/channel"
	"github.com/sarchlab/cosim/memory"
	"github.com/sarchlab/cosim/msgs"
)

// layoutFor returns the field table of a message kind.
func layoutFor(codec *msgs.MemCodec, kind string) (*msgs.Layout, error) {
	switch strings.ToLower(kind) {
	case "rocccmd":
		return msgs.RoccCmdLayout(), nil
	case "roccresp":
		return msgs.RoccRespLayout(), nil
	case "memreq":
		return codec.ReqLayout(), nil
	case "memresp":
		return codec.RespLayout(), nil
	default:
		return nil, fmt.Errorf("unknown message kind %q", kind)
	}
}

// parseAssignments parses field=value pairs. Values accept 0x, 0o and 0b
// prefixes.
func parseAssignments(args []string) (map[string]uint64, error) {
	values := make(map[string]uint64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}

		v, err := strconv.ParseUint(strings.ReplaceAll(raw, "_", ""), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		values[strings.ToLower(name)] = v
	}
	return values, nil
}

// narrowType range checks the type field of layout before narrowing it for
// the typed encoders.
func narrowType(layout *msgs.Layout, v uint64) (uint8, error) {
	width := layout.Fields()[0].Width
	if v>>width != 0 {
		return 0, &msgs.FieldOutOfRangeError{Message: layout.Name(), Field: "type", Value: v, Width: width}
	}
	return uint8(v), nil
}

// encodeMessage builds a message of the given kind. Fields not named default
// to 0; derived fields cannot be set.
func encodeMessage(codec *msgs.MemCodec, kind string, values map[string]uint64) (msgs.Message, error) {
	layout, err := layoutFor(codec, kind)
	if err != nil {
		return nil, err
	}

	settable := map[string]bool{}
	for _, f := range layout.Fields() {
		settable[f.Name] = f.Name != "len" && f.Name != "test"
	}
	for name := range values {
		if !settable[name] {
			return nil, fmt.Errorf("%s has no settable field %q", layout.Name(), name)
		}
	}

	switch layout.Name() {
	case "RoccCmd":
		// Range check on the full values before narrowing to uint8.
		b, err := layout.Pack(values["type"], values["xreg"], values["data"])
		if err != nil {
			return nil, err
		}
		return msgs.DecodeRoccCmd(b)
	case "RoccResp":
		return msgs.EncodeRoccResp(values["data"]), nil
	case "MemReq":
		typ, err := narrowType(layout, values["type"])
		if err != nil {
			return nil, err
		}
		return codec.EncodeMemReq(typ, values["opaque"], values["addr"], values["data"])
	default:
		typ, err := narrowType(layout, values["type"])
		if err != nil {
			return nil, err
		}
		return codec.EncodeMemResp(typ, values["opaque"], values["data"])
	}
}

func runEncode(codec *msgs.MemCodec, args []string, stdout io.Writer, verbose bool) error {
	if len(args) < 1 {
		return fmt.Errorf("encode needs a message kind")
	}

	values, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	msg, err := encodeMessage(codec, args[0], values)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, msg.Bits().Hex(msg.Width()))
	if verbose {
		fmt.Fprintf(stdout, "%s (%d bits): %s\n", msg.Kind(), msg.Width(), msg)
	}

	return nil
}

func runDecode(codec *msgs.MemCodec, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("decode needs a message kind and a hex vector")
	}

	layout, err := layoutFor(codec, args[0])
	if err != nil {
		return err
	}

	b, err := msgs.ParseBits(args[1])
	if err != nil {
		return err
	}

	if !layout.Fits(b) {
		return fmt.Errorf("%w: %s is %d bits, vector needs %d",
			msgs.ErrWidthMismatch, layout.Name(), layout.Width(), b.BitLen())
	}

	for i, f := range layout.Fields() {
		if f.Width == 0 {
			fmt.Fprintf(stdout, "%-6s [   -   ] 0x0\n", f.Name)
			continue
		}
		fmt.Fprintf(stdout, "%-6s [%3d:%3d] 0x%x\n",
			f.Name, layout.Offset(i)+f.Width-1, layout.Offset(i), layout.Unpack(b, i))
	}

	return nil
}

// traceCmd is one line of a command trace: type xreg data.
type traceCmd struct {
	line int
	cmd  msgs.RoccCmd
}

// parseTrace reads a command trace. Blank lines and lines starting with '#'
// are skipped.
func parseTrace(r io.Reader) ([]traceCmd, error) {
	var cmds []traceCmd

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 'type xreg data', got %q", lineNo, line)
		}

		var v [3]uint64
		for i, s := range fields {
			n, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			v[i] = n
		}

		b, err := msgs.RoccCmdLayout().Pack(v[0], v[1], v[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cmd, err := msgs.DecodeRoccCmd(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		cmds = append(cmds, traceCmd{line: lineNo, cmd: cmd})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return cmds, nil
}

func runTrace(codec *msgs.MemCodec, args []string, memSize uint64, stdout io.Writer, verbose bool) error {
	if len(args) != 1 {
		return fmt.Errorf("run needs a trace file")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	cmds, err := parseTrace(f)
	if err != nil {
		return err
	}

	mem := memory.New(codec, memSize)
	acc := accel.New(accel.WithMemory(codec, mem))

	toAccel := channel.New("Core.ToAccel", 1)
	toCore := channel.New("Accel.ToCore", 1)
	if verbose {
		tracer := channel.NewLineTracer(stdout)
		toAccel.AcceptHook(tracer)
		toCore.AcceptHook(tracer)
	}

	for _, tc := range cmds {
		if _, err := toAccel.Send(tc.cmd); err != nil {
			return fmt.Errorf("line %d: %w", tc.line, err)
		}

		if _, err := acc.Serve(toAccel, toCore); err != nil {
			return fmt.Errorf("line %d: %w", tc.line, err)
		}

		env, ok := toCore.Recv()
		if !ok {
			return fmt.Errorf("line %d: no response", tc.line)
		}

		fmt.Fprintf(stdout, "%s -> %s\n", tc.cmd, env.Msg)
	}

	if verbose {
		stats := acc.Stats()
		memStats := mem.Stats()
		fmt.Fprintf(stdout, "\nCommands: %d\n", stats.Commands)
		fmt.Fprintf(stdout, "Memory accesses: %d (reads %d, writes %d)\n",
			stats.MemAccess, memStats.Reads, memStats.Writes)
	}

	return nil
}

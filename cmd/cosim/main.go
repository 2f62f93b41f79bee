// Package main provides the cosim command line tool.
// It encodes and decodes co-simulation messages and runs accelerator command
// traces through the channel, accelerator and memory models.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cosim/msgs"
)

const usage = `Usage: cosim [options] <command> [args]

Commands:
  encode <kind> field=value...   Pack fields into a hex bit vector
  decode <kind> <hex>            Unpack a hex bit vector into fields
  run <trace>                    Run an accelerator command trace

Kinds: rocccmd, roccresp, memreq, memresp

Options:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args and dispatches to a command. It returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cosim", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Path to memory width configuration JSON file")
	memSize := flags.Uint64("mem-size", 1<<20, "Memory capacity in bytes (run)")
	verbose := flags.Bool("v", false, "Verbose output")

	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() < 1 {
		flags.Usage()
		return 2
	}

	// Set up width configuration
	var config *msgs.MemConfig
	if *configPath != "" {
		var err error
		config, err = msgs.LoadMemConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading width config: %v\n", err)
			return 1
		}
	} else {
		config = msgs.DefaultMemConfig()
	}

	codec, err := msgs.NewMemCodec(config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Fprintf(stdout, "MemReq: %d bits, MemResp: %d bits\n",
			codec.ReqLayout().Width(), codec.RespLayout().Width())
	}

	cmdArgs := flags.Args()[1:]
	switch flags.Arg(0) {
	case "encode":
		err = runEncode(codec, cmdArgs, stdout, *verbose)
	case "decode":
		err = runDecode(codec, cmdArgs, stdout)
	case "run":
		err = runTrace(codec, cmdArgs, *memSize, stdout, *verbose)
	default:
		err = fmt.Errorf("unknown command %q", flags.Arg(0))
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

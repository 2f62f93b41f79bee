// Package main provides the entry point for cosim.
// cosim is the message codec and model harness for core/accelerator
// co-simulation.
//
// For the full CLI, use: go run ./cmd/cosim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cosim - co-simulation message codec")
	fmt.Println("")
	fmt.Println("Usage: cosim [options] <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  encode <kind> field=value...")
	fmt.Println("  decode <kind> <hex>")
	fmt.Println("  run <trace>")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cosim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cosim' instead.")
	}
}

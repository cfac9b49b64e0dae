// Package main provides the entry point for MU-MIPS.
// MU-MIPS is a five-stage pipelined MIPS simulator.
//
// For the full CLI, use: go run ./cmd/mumips
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("MU-MIPS - Five-Stage Pipelined MIPS Simulator")
	fmt.Println("")
	fmt.Println("Usage: mumips [options] <input program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to machine configuration JSON file")
	fmt.Println("  -run       Run to completion, dump registers and exit")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mumips' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/mumips' instead.")
	}
}

// Package main provides the entry point for MU-MIPS.
// MU-MIPS is a five-stage pipelined MIPS simulator driven from an
// interactive shell.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/mumips/config"
	"github.com/sarchlab/mumips/loader"
	"github.com/sarchlab/mumips/shell"
	"github.com/sarchlab/mumips/timing/core"
	"github.com/sarchlab/mumips/timing/pipeline"
)

// defaultBatchCycles bounds -run when neither the config nor -max-cycles
// sets a limit.
const defaultBatchCycles = 10_000_000

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, loads the program and either runs it to completion or
// hands control to the shell. It returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("mumips", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to machine configuration JSON file")
	verbose := flags.Bool("v", false, "Verbose output")
	runToEnd := flags.Bool("run", false,
		fmt.Sprintf("Run to completion, dump registers and exit (at most %d cycles unless limited otherwise)",
			defaultBatchCycles))
	maxCycles := flags.Uint64("max-cycles", 0, "Cycle limit for run to completion, overrides the config (0 = config value)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	fmt.Fprintf(stdout, "\n**************************\n")
	fmt.Fprintf(stdout, "Welcome to MU-MIPS SIM...\n")
	fmt.Fprintf(stdout, "**************************\n\n")

	if flags.NArg() < 1 {
		fmt.Fprintf(stderr, "Usage: mumips [options] <input program>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
		return 1
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	if *maxCycles > 0 {
		cfg.MaxCycles = *maxCycles
	}
	if *runToEnd && cfg.MaxCycles == 0 {
		cfg.MaxCycles = defaultBatchCycles
	}

	programPath := flags.Arg(0)
	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: Can't load program file %s: %v\n", programPath, err)
		return 1
	}

	c, err := core.New(cfg, prog,
		pipeline.WithLogger(logger),
		pipeline.WithSyscallOutput(stdout),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.WithFields(logrus.Fields{
		"path":  programPath,
		"words": prog.Size(),
		"base":  fmt.Sprintf("0x%08x", c.TextBase()),
	}).Debug("program loaded")
	fmt.Fprintf(stdout, "Program loaded into memory.\n%d words written into memory.\n\n", prog.Size())

	sh := shell.New(c, stdin, stdout)
	if *runToEnd {
		sh.RunAll()
		sh.Rdump()
		return 0
	}

	sh.Help()
	if err := sh.Run(); err != nil {
		fmt.Fprintf(stderr, "Error reading command: %v\n", err)
		return 1
	}

	return 0
}

// Package shell implements the interactive MU-MIPS command loop and the
// register, memory and pipeline dumps it prints.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/mumips/insts"
	"github.com/sarchlab/mumips/timing/core"
)

// Prompt is printed before every command.
const Prompt = "MU-MIPS SIM:> "

const (
	ruleLong  = "------------------------------------------------------------------"
	ruleMid   = "-------------------------------------------------------------"
	ruleShort = "-------------------------------------"
	ruleStars = "**************************"
)

// Shell reads whitespace-separated commands and drives a core.
type Shell struct {
	core    *core.Core
	in      *bufio.Scanner
	out     io.Writer
	decoder *insts.Decoder
}

// New creates a shell reading commands from in and writing to out.
func New(c *core.Core, in io.Reader, out io.Writer) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	return &Shell{
		core:    c,
		in:      scanner,
		out:     out,
		decoder: insts.NewDecoder(),
	}
}

// Run prompts for and executes commands until quit or end of input.
func (s *Shell) Run() error {
	for {
		fmt.Fprint(s.out, Prompt)

		cmd, ok := s.next()
		if !ok {
			return s.in.Err()
		}

		if quit := s.handle(cmd); quit {
			return nil
		}
	}
}

func (s *Shell) next() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// handle dispatches on the first letter of the command, and on the second
// where two commands share it. Commands with missing or malformed
// arguments are ignored.
func (s *Shell) handle(cmd string) (quit bool) {
	lower := strings.ToLower(cmd)
	second := byte(0)
	if len(lower) > 1 {
		second = lower[1]
	}

	switch lower[0] {
	case 's':
		switch second {
		case 'h':
			s.ShowPipeline()
		case 't':
			s.Stats()
		default:
			s.RunAll()
		}
	case 'm':
		start, ok1 := s.nextHex()
		stop, ok2 := s.nextHex()
		if ok1 && ok2 {
			s.Mdump(start, stop)
		}
	case '?':
		s.Help()
	case 'q':
		fmt.Fprintln(s.out, ruleStars)
		fmt.Fprintln(s.out, "Exiting MU-MIPS! Good Bye...")
		fmt.Fprintln(s.out, ruleStars)
		return true
	case 'r':
		switch second {
		case 'd':
			s.Rdump()
		case 'e':
			s.core.Reset()
		default:
			if n, ok := s.nextUint(); ok {
				s.RunCycles(n)
			}
		}
	case 'i':
		reg, ok1 := s.nextUint()
		value, ok2 := s.nextInt()
		if ok1 && ok2 && reg < 32 {
			s.core.SetRegister(uint8(reg), value)
		}
	case 'h':
		if value, ok := s.nextInt(); ok {
			s.core.SetHI(value)
		}
	case 'l':
		if value, ok := s.nextInt(); ok {
			s.core.SetLO(value)
		}
	case 'p':
		s.PrintProgram()
	default:
		fmt.Fprintln(s.out, "Invalid Command.")
	}

	return false
}

func (s *Shell) nextHex() (uint32, bool) {
	tok, ok := s.next()
	if !ok {
		return 0, false
	}
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func (s *Shell) nextUint() (uint64, bool) {
	tok, ok := s.next()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

// nextInt accepts decimal, 0x hex and 0 octal, and wraps negative values
// to their 32-bit two's complement.
func (s *Shell) nextInt() (uint32, bool) {
	tok, ok := s.next()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Help prints the command menu.
func (s *Shell) Help() {
	w := s.out
	fmt.Fprintf(w, "%s\n\n", ruleLong)
	fmt.Fprintf(w, "\t**********MU-MIPS Help MENU**********\n\n")
	fmt.Fprintf(w, "sim\t-- simulate program to completion \n")
	fmt.Fprintf(w, "run <n>\t-- simulate program for <n> instructions\n")
	fmt.Fprintf(w, "rdump\t-- dump register values\n")
	fmt.Fprintf(w, "reset\t-- clears all registers/memory and re-loads the program\n")
	fmt.Fprintf(w, "input <reg> <val>\t-- set GPR <reg> to <val>\n")
	fmt.Fprintf(w, "mdump <start> <stop>\t-- dump memory from <start> to <stop> address\n")
	fmt.Fprintf(w, "high <val>\t-- set the HI register to <val>\n")
	fmt.Fprintf(w, "low <val>\t-- set the LO register to <val>\n")
	fmt.Fprintf(w, "print\t-- print the program loaded into memory\n")
	fmt.Fprintf(w, "show\t-- print the current content of the pipeline registers\n")
	fmt.Fprintf(w, "stats\t-- print cycle, instruction and cache statistics\n")
	fmt.Fprintf(w, "?\t-- display help menu\n")
	fmt.Fprintf(w, "quit\t-- exit the simulator\n\n")
	fmt.Fprintf(w, "%s\n\n", ruleLong)
}

// RunAll simulates until the run flag clears.
func (s *Shell) RunAll() {
	if !s.core.Running() {
		fmt.Fprint(s.out, "Simulation Stopped.\n\n")
		return
	}

	fmt.Fprint(s.out, "Simulation Started...\n\n")
	s.core.Run()
	fmt.Fprint(s.out, "Simulation Finished.\n\n")
}

// RunCycles simulates up to n cycles.
func (s *Shell) RunCycles(n uint64) {
	if !s.core.Running() {
		fmt.Fprint(s.out, "Simulation Stopped\n\n")
		return
	}

	fmt.Fprintf(s.out, "Running simulator for %d cycles...\n\n", n)
	if ran := s.core.RunCycles(n); ran < n {
		fmt.Fprint(s.out, "Simulation Stopped.\n\n")
	}
}

// Package loader reads MU-MIPS program images: text files of hexadecimal
// 32-bit words, one instruction per word, loaded at consecutive word
// addresses.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/mumips/emu"
)

// ErrEmptyProgram is returned when an image holds no words.
var ErrEmptyProgram = errors.New("program image contains no words")

// Program is a parsed program image.
type Program struct {
	// Path is the file the program was loaded from, if any.
	Path string
	// Words holds the instruction words in load order.
	Words []uint32
}

// Load opens and parses a program image file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Parse reads whitespace-separated hexadecimal words. A "0x" prefix is
// optional, and "#" or ";" start a comment that runs to the end of the
// line.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexAny(text, "#;"); i >= 0 {
			text = text[:i]
		}

		for _, tok := range strings.Fields(text) {
			word, err := parseWord(tok)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			prog.Words = append(prog.Words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	if len(prog.Words) == 0 {
		return nil, ErrEmptyProgram
	}

	return prog, nil
}

func parseWord(tok string) (uint32, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid word %q: %w", tok, err)
	}
	return uint32(v), nil
}

// Size returns the number of words in the program.
func (p *Program) Size() int {
	return len(p.Words)
}

// LoadInto writes the words to memory starting at base.
func (p *Program) LoadInto(memory *emu.Memory, base uint32) {
	memory.LoadWords(base, p.Words)
}

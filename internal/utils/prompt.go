package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompt prompts the user and reads a single-line response from stdin.
func Prompt(msg string) string {
	return PromptReader(msg, os.Stdin)
}

// PromptReader prompts the user using the provided reader (useful for tests).
func PromptReader(msg string, r io.Reader) string {
	return NewPrompter(os.Stdout, r).Ask(msg)
}

// Prompter asks several questions over one reader without losing buffered
// input between them.
type Prompter struct {
	w  io.Writer
	br *bufio.Reader
}

// NewPrompter returns a Prompter writing questions to w.
func NewPrompter(w io.Writer, r io.Reader) *Prompter {
	return &Prompter{w: w, br: bufio.NewReader(r)}
}

// Ask writes msg and returns the trimmed reply. EOF yields "".
func (p *Prompter) Ask(msg string) string {
	line, _ := p.Read(msg)
	return line
}

// Read is Ask that returns io.EOF once the input is exhausted.
func (p *Prompter) Read(msg string) (string, error) {
	_, _ = fmt.Fprintf(p.w, "%s: ", msg)
	line, err := p.br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	password func() (string, error)
}

func newPrompter() *prompter {
	p := prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.password = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)

			return string(b), err
		}
	}

	return &p
}

// required keeps asking until a non-blank value is entered.
func (p *prompter) required(label string) (string, error) {
	return p.ask(label, p.line, strings.TrimSpace)
}

// secret is required() without echoing the value. Only the line terminator is
// removed from the entered value.
func (p *prompter) secret(label string) (string, error) {
	unterminated := func(v string) string {
		return strings.TrimRight(v, "\r\n")
	}

	if p.password == nil {
		return p.ask(label, p.line, unterminated)
	}

	return p.ask(label, p.password, unterminated)
}

func (p *prompter) ask(label string, read func() (string, error), value func(string) string) (string, error) {
	for {
		fmt.Fprint(p.out, label)

		v, err := read()
		if strings.TrimSpace(v) != "" {
			return value(v), nil
		}

		if err != nil {
			return "", fmt.Errorf("no value entered for '%v' (%w)", strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":")), err)
		}

		fmt.Fprintln(p.out, "This field is required. Please try again.")
	}
}

func (p *prompter) line() (string, error) {
	return p.in.ReadString('\n')
}

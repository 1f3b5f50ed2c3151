package commands

import (
	"bufio"
	"strings"
	"testing"
)

func TestPromptRequired(t *testing.T) {
	var out strings.Builder

	p := prompter{
		in:  bufio.NewReader(strings.NewReader("\n   \n  admin  \n")),
		out: &out,
	}

	v, err := p.required("Enter API username: ")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if v != "admin" {
		t.Errorf("Incorrect value - expected:%v, got:%v", "admin", v)
	}

	if n := strings.Count(out.String(), "This field is required. Please try again."); n != 2 {
		t.Errorf("Expected 2 retries, got %v\n%v", n, out.String())
	}
}

func TestPromptRequiredWithoutNewline(t *testing.T) {
	p := prompter{
		in:  bufio.NewReader(strings.NewReader("admin")),
		out: &strings.Builder{},
	}

	if v, err := p.required("Enter API username: "); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	} else if v != "admin" {
		t.Errorf("Incorrect value - expected:%v, got:%v", "admin", v)
	}
}

func TestPromptRequiredAtEOF(t *testing.T) {
	p := prompter{
		in:  bufio.NewReader(strings.NewReader("\n")),
		out: &strings.Builder{},
	}

	_, err := p.required("Enter API username: ")
	if err == nil {
		t.Fatalf("Expected error at end of input")
	}

	if !strings.Contains(err.Error(), "Enter API username") {
		t.Errorf("Expected field name in error, got '%v'", err)
	}
}

func TestPromptSecret(t *testing.T) {
	calls := 0
	p := prompter{
		in:  bufio.NewReader(strings.NewReader("visible\n")),
		out: &strings.Builder{},
		password: func() (string, error) {
			calls++
			if calls == 1 {
				return "", nil
			}

			return "s3cr3t", nil
		},
	}

	v, err := p.secret("Enter API password: ")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if v != "s3cr3t" || calls != 2 {
		t.Errorf("Incorrect password - expected:%v after 2 reads, got:%v after %v", "s3cr3t", v, calls)
	}
}

func TestPromptSecretKeepsSpaces(t *testing.T) {
	p := prompter{
		in:  bufio.NewReader(strings.NewReader("  s3cr3t \r\n")),
		out: &strings.Builder{},
	}

	v, err := p.secret("Enter API password: ")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if v != "  s3cr3t " {
		t.Errorf("Incorrect password - expected:%q, got:%q", "  s3cr3t ", v)
	}
}

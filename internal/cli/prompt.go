package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user whether to proceed.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

type lineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConfirmer creates a y/n prompt that reads answers line by line from in.
func NewConfirmer(in io.Reader, out io.Writer) Confirmer {
	return &lineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm re-asks until it reads y/yes or n/no. End of input counts as no.
func (c *lineConfirmer) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(c.out, "%s (y/n): ", question); err != nil {
			return false, fmt.Errorf("write prompt: %w", err)
		}

		line, err := c.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(c.out)
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("read answer: %w", err)
		}
		if _, err := fmt.Fprintln(c.out, "Please answer y or n."); err != nil {
			return false, fmt.Errorf("write prompt: %w", err)
		}
	}
}

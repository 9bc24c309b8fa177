// Line-oriented input sources for the interactive builder
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrExhausted is returned by a Scripted provider with no answers left and no fallback
var ErrExhausted = errors.New("scripted input exhausted")

// Provider reads one line of operator input after showing a prompt
type Provider interface {
	ReadLine(prompt string) (string, error)
}

// Interactive reads answers from a live stream such as stdin
type Interactive struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadLine returns the line without its terminator. A final line without a
// newline is returned as-is; io.EOF is only reported when nothing was read.
func (i *Interactive) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(i.out, prompt); err != nil {
		return "", errors.Wrap(err, "unable to write prompt")
	}

	line, err := i.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimEOL(line), nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "unable to read input")
	}
	return trimEOL(line), nil
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// Scripted replays predetermined answers, then hands over to a fallback
type Scripted struct {
	answers  []string
	out      io.Writer
	fallback Provider
}

// NewScripted builds a replaying provider. out may be nil to skip echoing;
// fallback may be nil, in which case ErrExhausted is returned once the
// answers run out.
func NewScripted(answers []string, out io.Writer, fallback Provider) *Scripted {
	queued := make([]string, len(answers))
	copy(queued, answers)
	return &Scripted{
		answers:  queued,
		out:      out,
		fallback: fallback,
	}
}

func (s *Scripted) ReadLine(prompt string) (string, error) {
	if len(s.answers) == 0 {
		if s.fallback == nil {
			return "", ErrExhausted
		}
		return s.fallback.ReadLine(prompt)
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]

	if s.out != nil {
		if _, err := fmt.Fprintln(s.out, prompt+answer); err != nil {
			return "", errors.Wrap(err, "unable to echo scripted answer")
		}
	}
	return answer, nil
}

// Remaining reports how many scripted answers are still queued
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

// ReadScript loads answers from a file, one per line. Empty lines are
// answers too: they accept a default.
func ReadScript(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read answers file %s", path)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

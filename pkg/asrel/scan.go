package asrel

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/asgraph/pkg/errors"
)

// maxLineSize bounds a single input line. Cone lines of tier-1 networks
// list tens of thousands of ASNs, far beyond bufio's 64 KiB default.
const maxLineSize = 32 << 20

// line is one non-blank input line with its 1-based number.
type line struct {
	num     int
	text    string // trimmed
	comment bool   // starts with '#'
}

// body returns the comment payload with the leading '#' characters and
// surrounding space removed.
func (l line) body() string {
	return strings.TrimSpace(strings.TrimLeft(l.text, "#"))
}

// scanLines calls fn for every non-blank line of r. Reading stops at the
// first error returned by fn.
func scanLines(r io.Reader, source string, fn func(line) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	num := 0
	for sc.Scan() {
		num++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := fn(line{num: num, text: text, comment: strings.HasPrefix(text, "#")}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", source)
	}
	return nil
}

func parseErr(source string, l line, reason string) *errors.ParseError {
	return &errors.ParseError{Source: source, Line: l.num, Content: l.text, Reason: reason}
}

package serialmon

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
)

const DefaultMaxLineBytes = 64 << 10

// LineReader reads newline-terminated lines from a timeout-driven reader.
//
// A read that times out (0, nil) ends the current line early: ReadLine
// returns whatever arrived so far, which is empty on an idle timeout.
type LineReader struct {
	r       io.Reader
	buf     []byte
	pending []byte
	max     int
	err     error
}

func NewLineReader(r io.Reader, maxLine int) *LineReader {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	return &LineReader{
		r:   r,
		buf: make([]byte, 4096),
		max: maxLine,
	}
}

// ReadLine returns the next line including its terminator. io.EOF is
// returned only once buffered data is exhausted; other read errors are
// returned as soon as no complete line is buffered.
func (lr *LineReader) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(lr.pending, '\n'); i >= 0 {
			return lr.take(i + 1), nil
		}
		if lr.err != nil {
			if errors.Is(lr.err, io.EOF) && len(lr.pending) > 0 {
				return lr.take(len(lr.pending)), nil
			}
			return nil, lr.err
		}
		if len(lr.pending) >= lr.max {
			return lr.take(lr.max), nil
		}

		n, err := lr.r.Read(lr.buf)
		lr.pending = append(lr.pending, lr.buf[:n]...)
		if err != nil {
			lr.err = err
			continue
		}
		if n == 0 {
			return lr.take(len(lr.pending)), nil
		}
	}
}

func (lr *LineReader) take(n int) []byte {
	line := make([]byte, n)
	copy(line, lr.pending[:n])
	lr.pending = lr.pending[n:]
	if len(lr.pending) == 0 {
		lr.pending = nil
	}
	return line
}

// DecodeLine decodes raw as UTF-8, substituting U+FFFD for every invalid
// byte, and trims trailing whitespace.
func DecodeLine(raw []byte) (string, error) {
	text, err := xunicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &DecodeError{Raw: raw, Err: err}
	}
	return strings.TrimRightFunc(string(text), unicode.IsSpace), nil
}

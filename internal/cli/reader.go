package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a prompt is abandoned because its context ended.
var ErrInputCancelled = errors.New("input canceled")

type scannedLine struct {
	err  error
	text string
}

// LineReader reads trimmed answers from a terminal. One goroutine pulls lines
// from the source, so an answer typed after a prompt was abandoned is handed
// to the next prompt instead of being lost.
type LineReader struct {
	scanner *bufio.Scanner
	lines   chan scannedLine
	start   sync.Once
}

// NewLineReader creates a reader over r. Nothing is read until the first ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		scanner: bufio.NewScanner(r),
		lines:   make(chan scannedLine),
	}
}

func (r *LineReader) pump() {
	defer close(r.lines)
	for r.scanner.Scan() {
		r.lines <- scannedLine{text: r.scanner.Text()}
	}
	if err := r.scanner.Err(); err != nil {
		r.lines <- scannedLine{err: err}
	}
}

// ReadLine returns the next line without surrounding whitespace. It returns
// io.EOF once the input is exhausted and ErrInputCancelled when ctx ends first.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

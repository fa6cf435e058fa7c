package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// lineReader reads lines from an input in the background so that reads
// can be abandoned when the context ends.
type lineReader struct {
	lines  chan string
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines:  make(chan string),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(lr.exited)
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-lr.done:
				return
			}
		}
	}()
	return lr
}

// next returns the next trimmed line. ok is false at end of input, after
// stop, or when ctx is done.
func (lr *lineReader) next(ctx context.Context) (line string, ok bool) {
	select {
	case <-ctx.Done():
		return "", false
	case <-lr.done:
		return "", false
	case l, open := <-lr.lines:
		return strings.TrimSpace(l), open
	}
}

// stop releases the reading goroutine once it is waiting to hand over a
// line. A goroutine blocked reading the input exits when the input does.
func (lr *lineReader) stop() {
	lr.once.Do(func() { close(lr.done) })
}

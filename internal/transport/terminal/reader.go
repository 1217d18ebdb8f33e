package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ErrReaderClosed is returned by ReadLine after Close.
var ErrReaderClosed = errors.New("line reader closed")

type lineResult struct {
	line   string
	err    error
	ticket uint64
}

// LineReader turns a blocking io.Reader into cancellable line reads.
//
// A single pump goroutine owns the underlying reader and only reads while a ReadLine call is
// pending. Every call takes a ticket; a line is stamped with the ticket of the call pending when
// the line arrives. A line that arrives while no call is pending was typed after its caller gave
// up, so it is dropped, and a call never accepts a line stamped for another ticket. The pump cannot
// interrupt a blocked read; a read started for an abandoned call is handed to the next call.
type LineReader struct {
	src *bufio.Reader

	mu     sync.Mutex
	ticket uint64
	active bool

	wake      chan struct{}
	lines     chan lineResult
	done      chan struct{}
	closeOnce sync.Once
}

func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		src:   bufio.NewReader(r),
		wake:  make(chan struct{}, 1),
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
	go lr.pump()
	return lr
}

// ReadLine returns the next line without its trailing newline. At end of input it returns
// io.EOF, and it returns ctx.Err() as soon as ctx is done.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-r.done:
		return "", ErrReaderClosed
	default:
	}

	r.mu.Lock()
	r.ticket++
	mine := r.ticket
	r.active = true
	r.mu.Unlock()
	defer r.release(mine)

	select {
	case r.wake <- struct{}{}:
	default:
	}

	for {
		select {
		case res := <-r.lines:
			if res.ticket != mine {
				slog.Debug("dropping line meant for an earlier prompt")
				continue
			}
			return res.line, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		case <-r.done:
			return "", ErrReaderClosed
		}
	}
}

// Close stops the pump once it is idle. A read already blocked on the source is not interrupted.
func (r *LineReader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

// release marks the call as no longer waiting unless a newer call has taken over.
func (r *LineReader) release(ticket uint64) {
	r.mu.Lock()
	if r.ticket == ticket {
		r.active = false
	}
	r.mu.Unlock()
}

// claim hands the current pending call's ticket to a line, or reports that nobody is waiting.
func (r *LineReader) claim() (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return 0, false
	}
	r.active = false
	return r.ticket, true
}

func (r *LineReader) waiting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *LineReader) pump() {
	var sticky error
	for {
		select {
		case <-r.wake:
		case <-r.done:
			return
		}
		if !r.waiting() {
			continue
		}

		res := lineResult{err: sticky}
		if sticky == nil {
			line, err := r.src.ReadString('\n')
			if err != nil {
				sticky = err
				// A final line without a newline is still a line.
				if line != "" {
					err = nil
				}
			}
			res = lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}

		ticket, ok := r.claim()
		if !ok {
			if res.err == nil {
				slog.Debug("dropping line typed after its deadline")
			}
			continue
		}
		res.ticket = ticket
		select {
		case r.lines <- res:
		case <-r.done:
			return
		}
	}
}

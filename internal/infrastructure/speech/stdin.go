// Package speech provides SpeechSource adapters. The pipeline itself never
// does audio processing; a source only has to deliver transcript strings
// with a final/interim flag.
package speech

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// StdinSource reads utterances line by line from a reader, emitting each
// line as a finalized transcript. A line ending in "..." is emitted as an
// interim result, which lets the debounce path be exercised from a
// terminal.
type StdinSource struct {
	Reader io.Reader

	mu      sync.Mutex
	stopped bool
}

// Start implements ports.SpeechSource. It returns after launching the read
// loop; results are delivered on the callback until EOF, Stop or context
// cancellation.
func (s *StdinSource) Start(ctx context.Context, onResult func(text string, final bool), onError func(error)) error {
	scanner := bufio.NewScanner(s.Reader)
	go func() {
		for scanner.Scan() {
			if ctx.Err() != nil || s.isStopped() {
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if interim, ok := strings.CutSuffix(line, "..."); ok {
				onResult(strings.TrimSpace(interim), false)
				continue
			}
			onResult(line, true)
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			onError(err)
			return
		}
		if ctx.Err() == nil && !s.isStopped() {
			onError(io.EOF)
		}
	}()
	return nil
}

// Stop implements ports.SpeechSource.
func (s *StdinSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *StdinSource) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

package sse

import (
	"log/slog"
	"sync"
	"time"
)

// KeepAliveWriter abstracts the keep-alive write so the ticker can be tested
// without an HTTP connection
type KeepAliveWriter interface {
	WriteKeepAlive() error
}

// TickerKeepAlive sends keep-alives at a fixed interval until stopped or a
// write fails
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewTickerKeepAlive creates a ticker-based keep-alive
func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the ticker in a goroutine. The returned channel closes when it
// terminates. mu serializes keep-alives with the caller's own writes.
func (k *TickerKeepAlive) Start(writer KeepAliveWriter, mu *sync.Mutex, logger *slog.Logger) <-chan struct{} {
	stopped := make(chan struct{})
	ticker := time.NewTicker(k.interval)

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				err := writer.WriteKeepAlive()
				mu.Unlock()
				if err != nil {
					logger.Debug("keep-alive write failed, stopping", "error", err)
					return
				}
			case <-k.done:
				return
			}
		}
	}()

	return stopped
}

// Stop terminates the keep-alive. Safe to call multiple times.
func (k *TickerKeepAlive) Stop() {
	k.stopOnce.Do(func() { close(k.done) })
}

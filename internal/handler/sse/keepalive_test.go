package sse

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	calls  atomic.Int32
	failAt int32
}

func (w *countingWriter) WriteKeepAlive() error {
	n := w.calls.Add(1)
	if w.failAt > 0 && n >= w.failAt {
		return errors.New("broken pipe")
	}
	return nil
}

func TestTickerKeepAlive_StopsOnWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := &countingWriter{failAt: 2}
	var mu sync.Mutex

	k := NewTickerKeepAlive(5 * time.Millisecond)
	stopped := k.Start(writer, &mu, logger)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive did not stop after write error")
	}
	assert.Equal(t, int32(2), writer.calls.Load())
	k.Stop()
}

func TestTickerKeepAlive_Stop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := &countingWriter{}
	var mu sync.Mutex

	k := NewTickerKeepAlive(time.Hour)
	stopped := k.Start(writer, &mu, logger)
	k.Stop()
	k.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive did not stop")
	}
	require.Zero(t, writer.calls.Load())
}

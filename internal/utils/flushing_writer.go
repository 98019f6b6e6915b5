package utils

import (
	"errors"
	"io"
	"sync"
	"syscall"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter serializes writes to an underlying writer and makes them visible immediately.
// It implements zapcore.WriteSyncer, so diagnostics can share a terminal with command output.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. Wrapping a FlushingWriter returns it unchanged.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if existing, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existing
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when it buffers output.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return len(data), nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedWriter, buffers := flushingWriter.writer.(flusher); buffers {
		return bytesWritten, bufferedWriter.Flush()
	}
	return bytesWritten, nil
}

// Sync commits the underlying writer when it supports syncing.
func (flushingWriter *FlushingWriter) Sync() error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if syncingWriter, syncs := flushingWriter.writer.(syncer); syncs {
		return IgnoreUnsupportedSync(syncingWriter.Sync())
	}
	return nil
}

// IgnoreUnsupportedSync drops the errors terminals and pipes return from fsync.
func IgnoreUnsupportedSync(syncError error) error {
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

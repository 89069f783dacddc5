package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes to a sink and flushes buffered sinks after every write,
// so progress lines reach the terminal before the summary request blocks.
type FlushingWriter struct {
	sink  io.Writer
	mutex sync.Mutex
}

// NewFlushingWriter wraps sink. Nil sinks stay nil and already wrapped sinks are returned unchanged.
func NewFlushingWriter(sink io.Writer) io.Writer {
	switch sink.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return sink
	}
	return &FlushingWriter{sink: sink}
}

// Write forwards data to the sink and flushes it when the sink buffers output.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.sink == nil {
		return 0, nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	written, writeError := writer.sink.Write(data)
	if writeError != nil {
		return written, writeError
	}
	if bufferedSink, buffered := writer.sink.(flusher); buffered {
		return written, bufferedSink.Flush()
	}
	return written, nil
}

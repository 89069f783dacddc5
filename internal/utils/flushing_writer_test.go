package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdigest/internal/utils"
)

func TestFlushingWriterFlushesBufferedSinks(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedSink := bufio.NewWriterSize(&destination, 4096)

	writer := utils.NewFlushingWriter(bufferedSink)
	written, writeError := writer.Write([]byte("Found 2 git repositories\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 25, written)
	require.Equal(testInstance, "Found 2 git repositories\n", destination.String())
}

func TestNewFlushingWriterEdgeCases(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))

	var destination bytes.Buffer
	wrapped := utils.NewFlushingWriter(&destination)
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))

	var zeroWriter *utils.FlushingWriter
	written, writeError := zeroWriter.Write([]byte("ignored"))
	require.NoError(testInstance, writeError)
	require.Zero(testInstance, written)
}

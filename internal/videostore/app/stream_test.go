package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"video_storage_service/internal/videostore/domain"

	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, payload []byte) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.bin")
	assert.NoError(t, os.WriteFile(path, payload, 0644))
	file, err := os.Open(path)
	assert.NoError(t, err)
	return file
}

// streamReader 必須從 start 開始、恰好吐出 length 位元組後 EOF
func TestStreamReaderBounds(t *testing.T) {
	payload := make([]byte, 3*domain.StreamChunkSize)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	t.Run("中段區間恰好讀滿", func(t *testing.T) {
		file := writeTempFile(t, payload)
		start, length := int64(100), int64(domain.StreamChunkSize+57)

		reader, err := newStreamReader(file, start, length)
		assert.NoError(t, err)
		defer reader.Close()

		got, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, payload[start:start+length], got)

		// 讀滿後任何再讀取都是 EOF
		n, err := reader.Read(make([]byte, 1))
		assert.Equal(t, 0, n)
		assert.Equal(t, io.EOF, err)
	})

	t.Run("單次讀取不超過區塊大小", func(t *testing.T) {
		file := writeTempFile(t, payload)

		reader, err := newStreamReader(file, 0, int64(len(payload)))
		assert.NoError(t, err)
		defer reader.Close()

		// 給一個遠大於區塊的 buffer，單次仍只能讀到一個區塊
		big := make([]byte, 4*domain.StreamChunkSize)
		n, err := reader.Read(big)
		assert.NoError(t, err)
		assert.Equal(t, domain.StreamChunkSize, n)
	})

	t.Run("零長度立即EOF", func(t *testing.T) {
		file := writeTempFile(t, payload)

		reader, err := newStreamReader(file, 0, 0)
		assert.NoError(t, err)
		defer reader.Close()

		got, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

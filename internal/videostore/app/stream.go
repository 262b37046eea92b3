package app

import (
	"io"
	"os"

	"video_storage_service/internal/videostore/domain"
)

// streamReader 有界的順向檔案串流：
// 從 start 開始，單次讀取不超過 StreamChunkSize，
// 讀滿 length 位元組後回傳 EOF，即使檔案後面還有資料。
// Close 釋放檔案 handle（fasthttp 在回應結束或客戶端斷線時會呼叫）。
type streamReader struct {
	file   *os.File
	remain int64
}

func newStreamReader(file *os.File, start, length int64) (*streamReader, error) {
	if start > 0 {
		if _, err := file.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return &streamReader{file: file, remain: length}, nil
}

func (s *streamReader) Read(p []byte) (int, error) {
	if s.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > s.remain {
		p = p[:s.remain]
	}
	if len(p) > domain.StreamChunkSize {
		p = p[:domain.StreamChunkSize]
	}
	n, err := s.file.Read(p)
	s.remain -= int64(n)
	return n, err
}

func (s *streamReader) Close() error {
	return s.file.Close()
}

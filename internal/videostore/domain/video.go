package domain

import (
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	// DefaultContentType 上傳未帶 Content-Type 時的預設 MIME type
	DefaultContentType = "video/mp4"

	// UploadChunkSize 上傳串流寫入磁碟的固定區塊大小
	UploadChunkSize = 8 * 1024

	// StreamChunkSize 回應串流單次讀取上限
	StreamChunkSize = 8 * 1024
)

var (
	// ErrVideoNotFound 影片 id 不存在，或記錄存在但檔案已遺失
	ErrVideoNotFound = errors.New("video not found")

	// ErrDuplicateID 影片 id 重複（id 產生策略下不應發生）
	ErrDuplicateID = errors.New("duplicate video id")
)

// RangeNotSatisfiableError Range 標頭無法滿足，對應 HTTP 416
type RangeNotSatisfiableError struct {
	Size int64 // 檔案實際大小，用於 Content-Range: bytes */<size>
}

func (e *RangeNotSatisfiableError) Error() string {
	return fmt.Sprintf("requested range not satisfiable (size %d)", e.Size)
}

// VideoRecord 定義影片模型
type VideoRecord struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	OriginalName string    `json:"filename"`    // 客戶端宣告的檔名，僅供顯示，不作為路徑
	StoredName   string    `json:"stored_name"` // id + 副檔名，磁碟上唯一的定位名稱
	SizeBytes    int64     `json:"size"`        // 以實際寫入磁碟的大小為準
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// UploadVideoReq usecase upload video request
type UploadVideoReq struct {
	FileName    string
	ContentType string
	File        io.Reader
}

// UploadVideoRes usecase upload video response
type UploadVideoRes struct {
	VideoID  string
	FileName string
	Size     int64
}

// StreamVideoRes usecase stream video response
type StreamVideoRes struct {
	Status      int   // 200 或 206
	Start       int64 // 本次回應的起始位元組
	End         int64 // 本次回應的結束位元組（含）
	Size        int64 // 檔案總大小
	ContentType string
	Body        io.ReadCloser // 有界串流，讀滿 End-Start+1 位元組後 EOF
}

// StorageStats usecase storage stats response
type StorageStats struct {
	TotalVideos    int   // 檔案仍存在的影片數
	TotalSizeBytes int64 // 上述影片的總大小
	StaleRecords   int   // 記錄存在但檔案遺失的筆數（待清理）
}

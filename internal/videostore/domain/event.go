package domain

const (
	// QueueName definition queue name
	QueueName = "video_ingested"
)

// VideoIngestedEvent 定義影片入庫事件訊息
type VideoIngestedEvent struct {
	VideoID     string `json:"video_id"`
	FileName    string `json:"file_name"` // 磁碟上的 stored name
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"video_storage_service/internal/videostore/app"
	"video_storage_service/internal/videostore/domain"
	"video_storage_service/pkg"
	"video_storage_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// VideoHandler definition video handler
// VideoHandler 定義影片儲存服務的 HTTP 處理器
type VideoHandler struct {
	Usecase app.StorageUseCase
}

// NewVideoHandler create video handler
func NewVideoHandler(usecase app.StorageUseCase) *VideoHandler {
	return &VideoHandler{Usecase: usecase}
}

// Root 服務存活訊息
func (h *VideoHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Video Storage API is running!"})
}

// UploadVideo 接收上傳請求，寫入磁碟並建立影片記錄
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	// 1. 取得上傳檔案
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "未檢測到檔案"})
	}

	// 2. 開啟 multipart 串流，逐塊寫入，不整檔進記憶體
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "讀取上傳檔案失敗"})
	}
	defer file.Close()

	// 3. 調用 usecase 層進行上傳處理
	res, err := h.Usecase.UploadVideo(domain.UploadVideoReq{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"message":  "影片上傳成功",
		"id":       res.VideoID,
		"filename": res.FileName,
		"size":     res.Size,
	})
}

// ListVideos 列出全部影片記錄
func (h *VideoHandler) ListVideos(c *fiber.Ctx) error {
	videos, err := h.Usecase.ListVideos()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "列出影片失敗"})
	}
	return c.JSON(fiber.Map{
		"videos": videos,
		"count":  len(videos),
	})
}

// StreamVideo 串流影片內容，支援單一 Range 區間（200 全檔 / 206 部分 / 416 無法滿足）
func (h *VideoHandler) StreamVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	res, err := h.Usecase.StreamVideo(videoID, c.Get(fiber.HeaderRange))
	if err != nil {
		var rangeErr *domain.RangeNotSatisfiableError
		switch {
		case errors.Is(err, domain.ErrVideoNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "找不到影片"})
		case errors.As(err, &rangeErr):
			// 416 無 body，只帶整體大小
			// 不走 SendStatus：它會在空 body 時填入狀態文字
			c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes */%d", rangeErr.Size))
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return nil
		default:
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "讀取影片失敗"})
		}
	}

	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	if res.Status == http.StatusPartialContent {
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", res.Start, res.End, res.Size))
	}

	length := res.End - res.Start + 1
	if length < 0 {
		length = 0 // 空檔案的完整回應
	}
	c.Status(res.Status)
	// SendStream 會設定 Content-Length；res.Body 實作 io.Closer，
	// 回應結束或客戶端斷線時由 fasthttp 關閉，釋放檔案 handle
	if size := int(length); int64(size) == length {
		return c.SendStream(res.Body, size)
	}
	// 32 位元平台上超過 int 上限的長度改用不定長度串流
	return c.SendStream(res.Body)
}

// DeleteVideo 一併刪除影片內容檔與記錄
func (h *VideoHandler) DeleteVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	if err := h.Usecase.DeleteVideo(videoID); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "找不到影片"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "刪除影片失敗"})
	}

	logger.Log.Info(fmt.Sprintf("videoID[%s] 影片已刪除", videoID))
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "影片刪除成功",
	})
}

// Health 回報儲存狀態：影片數、已用空間與 stale 記錄數
func (h *VideoHandler) Health(c *fiber.Ctx) error {
	stats, err := h.Usecase.StorageStats()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "讀取儲存狀態失敗"})
	}
	return c.JSON(fiber.Map{
		"status":        "healthy",
		"total_videos":  stats.TotalVideos,
		"storage_used":  pkg.FormatBytes(stats.TotalSizeBytes),
		"stale_records": stats.StaleRecords,
	})
}

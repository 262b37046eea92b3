package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"video_storage_service/internal/videostore/domain"
	"video_storage_service/internal/videostore/repository"
	"video_storage_service/pkg/database"
	errprocess "video_storage_service/pkg/err"
	"video_storage_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// StorageUseCase 這裡封裝了對外提供的應用服務
type StorageUseCase interface {
	UploadVideo(up domain.UploadVideoReq) (*domain.UploadVideoRes, error)
	ListVideos() ([]domain.VideoRecord, error)
	StreamVideo(videoID, rangeHeader string) (*domain.StreamVideoRes, error)
	DeleteVideo(videoID string) error
	StorageStats() (*domain.StorageStats, error)
}

type storageUseCase struct {
	MetaRepo    repository.MetadataRepo
	ContentRepo repository.ContentRepo
	Archive     database.MinIOClientRepo // 選配：入庫後鏡像到 MinIO，nil 表示停用
	Events      database.RabbitRepo      // 選配：入庫事件發布，nil 表示停用
}

// NewStorageUseCase 建立一個新的 StorageUseCase
func NewStorageUseCase(meta repository.MetadataRepo,
	content repository.ContentRepo,
	archive database.MinIOClientRepo,
	events database.RabbitRepo,
) StorageUseCase {
	return &storageUseCase{
		MetaRepo:    meta,
		ContentRepo: content,
		Archive:     archive,
		Events:      events,
	}
}

// 讓 usecase test mock 使用的包裝函數
var (
	newVideoID = func() string {
		// uuid 前 8 碼（十六進位），碰撞機率可忽略，且檔案層仍有 O_EXCL 防護
		return uuid.NewString()[:8]
	}

	timeNow = time.Now
)

// UploadVideo 接收上傳串流，寫入磁碟並建立影片記錄
//
// 流程：產生 id → 以 O_EXCL 開檔 → 固定區塊複製串流（不整檔進記憶體）→
// 以實際寫入的檔案大小建立記錄（不信任客戶端宣告的長度）。
// 複製或寫記錄途中失敗時移除半成品檔案，呼叫端永遠不會看到失敗上傳的記錄。
func (s *storageUseCase) UploadVideo(up domain.UploadVideoReq) (*domain.UploadVideoRes, error) {
	videoID := newVideoID()

	// 客戶端檔名僅取副檔名，不參與任何路徑組合
	ext := filepath.Ext(filepath.Base(up.FileName))
	storedName := videoID + ext

	dst, err := s.ContentRepo.Create(storedName)
	if err != nil {
		if os.IsExist(err) {
			errMsg := fmt.Sprintf("videoID[%s] 影片 id 碰撞: %v", videoID, err)
			return nil, errprocess.Wrap(domain.ErrDuplicateID, errMsg)
		}
		errMsg := fmt.Sprintf("videoID[%s] 建立內容檔失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	buf := make([]byte, domain.UploadChunkSize)
	if _, err := io.CopyBuffer(dst, up.File, buf); err != nil {
		dst.Close()
		s.removePartial(storedName)
		errMsg := fmt.Sprintf("videoID[%s] 寫入內容檔失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}
	if err := dst.Close(); err != nil {
		s.removePartial(storedName)
		errMsg := fmt.Sprintf("videoID[%s] 關閉內容檔失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	// 大小一律以寫入磁碟後的檔案為準
	fi, err := s.ContentRepo.Stat(storedName)
	if err != nil {
		s.removePartial(storedName)
		errMsg := fmt.Sprintf("videoID[%s] 讀取內容檔資訊失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = domain.DefaultContentType
	}

	record := &domain.VideoRecord{
		ID:           videoID,
		OriginalName: filepath.Base(up.FileName),
		StoredName:   storedName,
		SizeBytes:    fi.Size(),
		ContentType:  contentType,
		UploadedAt:   timeNow(),
	}
	if err := s.MetaRepo.Create(record); err != nil {
		s.removePartial(storedName)
		errMsg := fmt.Sprintf("videoID[%s] 建立影片記錄失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	// 記錄落地後的選配動作，失敗只記 warning，不影響上傳結果
	s.publishIngested(record)
	s.archiveVideo(record)

	return &domain.UploadVideoRes{
		VideoID:  record.ID,
		FileName: record.OriginalName,
		Size:     record.SizeBytes,
	}, nil
}

// ListVideos 回傳全部影片記錄
func (s *storageUseCase) ListVideos() ([]domain.VideoRecord, error) {
	records, err := s.MetaRepo.List()
	if err != nil {
		errMsg := fmt.Sprintf("列出影片記錄失敗: %v", err)
		return nil, errprocess.Set(errMsg)
	}
	return records, nil
}

// StreamVideo 依 videoID 與 Range 標頭取得有界的內容串流
//
// 記錄存在但檔案遺失（stale metadata）以 ErrVideoNotFound 回報，
// 留給 StorageStats 的清理流程處理，不在讀取路徑上自動修復。
func (s *storageUseCase) StreamVideo(videoID, rangeHeader string) (*domain.StreamVideoRes, error) {
	record, err := s.MetaRepo.GetByID(videoID)
	if err != nil {
		return nil, err
	}

	fi, err := s.ContentRepo.Stat(record.StoredName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrVideoNotFound
		}
		errMsg := fmt.Sprintf("videoID[%s] 讀取內容檔資訊失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}
	size := fi.Size()

	start, end, partial, err := ResolveRange(rangeHeader, size)
	if err != nil {
		return nil, err
	}

	file, err := s.ContentRepo.Open(record.StoredName)
	if err != nil {
		errMsg := fmt.Sprintf("videoID[%s] 開啟內容檔失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	body, err := newStreamReader(file, start, end-start+1)
	if err != nil {
		file.Close()
		errMsg := fmt.Sprintf("videoID[%s] seek 內容檔失敗: %v", videoID, err)
		return nil, errprocess.Set(errMsg)
	}

	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
	}
	return &domain.StreamVideoRes{
		Status:      status,
		Start:       start,
		End:         end,
		Size:        size,
		ContentType: record.ContentType,
		Body:        body,
	}, nil
}

// DeleteVideo 一併刪除內容檔與影片記錄
//
// 先刪檔案、後刪記錄：兩步之間當機只會留下指向缺檔的記錄
//（StorageStats 可偵測並清理），不會留下無記錄的孤兒檔案。
// 刪除不等待進行中的讀取，讀取端可能以傳輸錯誤中止（取簡單性、捨嚴格隔離）。
func (s *storageUseCase) DeleteVideo(videoID string) error {
	record, err := s.MetaRepo.GetByID(videoID)
	if err != nil {
		return err
	}

	// 檔案已不存在視為成功，結束狀態相同
	if err := s.ContentRepo.Remove(record.StoredName); err != nil {
		errMsg := fmt.Sprintf("videoID[%s] 刪除內容檔失敗: %v", videoID, err)
		return errprocess.Set(errMsg)
	}

	if _, err := s.MetaRepo.Delete(videoID); err != nil {
		errMsg := fmt.Sprintf("videoID[%s] 刪除影片記錄失敗: %v", videoID, err)
		return errprocess.Set(errMsg)
	}

	// 鏡像同步移除，失敗只記 warning
	if s.Archive != nil {
		objectName := archiveObjectName(record)
		if err := s.Archive.RemoveFile(context.Background(), objectName); err != nil {
			logger.Log.Warn(fmt.Sprintf("videoID[%s] 移除鏡像物件失敗: %v", videoID, err))
		}
	}
	return nil
}

// StorageStats 彙總儲存狀態：檔案仍在的影片數與總大小，
// 以及記錄在、檔案不在的 stale 筆數（清理工具的偵測入口）
func (s *storageUseCase) StorageStats() (*domain.StorageStats, error) {
	records, err := s.MetaRepo.List()
	if err != nil {
		errMsg := fmt.Sprintf("列出影片記錄失敗: %v", err)
		return nil, errprocess.Set(errMsg)
	}

	stats := &domain.StorageStats{}
	for _, record := range records {
		fi, err := s.ContentRepo.Stat(record.StoredName)
		if err != nil {
			stats.StaleRecords++
			continue
		}
		stats.TotalVideos++
		stats.TotalSizeBytes += fi.Size()
	}
	return stats, nil
}

// removePartial 清理失敗上傳的半成品檔案
func (s *storageUseCase) removePartial(storedName string) {
	if err := s.ContentRepo.Remove(storedName); err != nil {
		logger.Log.Warn(fmt.Sprintf("清理半成品檔案[%s]失敗: %v", storedName, err))
	}
}

// publishIngested 發布入庫事件到消息佇列 (Producer 動作)
func (s *storageUseCase) publishIngested(record *domain.VideoRecord) {
	if s.Events == nil {
		return
	}

	event := domain.VideoIngestedEvent{
		VideoID:     record.ID,
		FileName:    record.StoredName,
		Size:        record.SizeBytes,
		ContentType: record.ContentType,
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Warn(fmt.Sprintf("videoID[%s] 入庫事件序列化失敗: %v", record.ID, err))
		return
	}
	err = s.Events.Publish(
		"",               // 預設 exchange
		domain.QueueName, // queue 名稱
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
	if err != nil {
		logger.Log.Warn(fmt.Sprintf("videoID[%s] 發送入庫事件失敗: %v", record.ID, err))
	}
}

// archiveVideo 將內容檔鏡像到 MinIO（冷備份），失敗不影響上傳結果
func (s *storageUseCase) archiveVideo(record *domain.VideoRecord) {
	if s.Archive == nil {
		return
	}

	objectName := archiveObjectName(record)
	filePath := s.ContentRepo.Path(record.StoredName)
	if err := s.Archive.UploadFile(context.Background(), objectName, filePath, record.ContentType); err != nil {
		logger.Log.Warn(fmt.Sprintf("videoID[%s] 鏡像上傳 MinIO 失敗: %v", record.ID, err))
	}
}

// archiveObjectName 鏡像儲存路徑，例如 "videos/{videoID}/{storedName}"
func archiveObjectName(record *domain.VideoRecord) string {
	return fmt.Sprintf("videos/%s/%s", record.ID, record.StoredName)
}

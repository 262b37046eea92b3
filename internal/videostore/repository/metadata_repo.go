package repository

import (
	"errors"

	"video_storage_service/internal/videostore/domain"

	"gorm.io/gorm"
)

// MetadataRepo definition video metadata store
type MetadataRepo interface {
	AutoMigrate() error
	Create(record *domain.VideoRecord) error
	GetByID(id string) (*domain.VideoRecord, error)
	List() ([]domain.VideoRecord, error)
	Delete(id string) (bool, error)
}

type metadataRepo struct {
	db *gorm.DB
}

// NewMetadataRepo create MetadataRepo
func NewMetadataRepo(db *gorm.DB) MetadataRepo {
	return &metadataRepo{db: db}
}

// AutoMigrate 依 VideoRecord 模型建立／更新資料表結構
func (r *metadataRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.VideoRecord{})
}

// Create 新增影片記錄，id 重複時回傳 domain.ErrDuplicateID
// 正常情況不會發生（id 由亂數產生，且檔案層已有 O_EXCL 防護），但仍需檢查
func (r *metadataRepo) Create(record *domain.VideoRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateID
		}
		return err
	}
	return nil
}

// GetByID get VideoRecord by id
func (r *metadataRepo) GetByID(id string) (*domain.VideoRecord, error) {
	var v domain.VideoRecord
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List 回傳全部影片記錄，順序不保證，呼叫端自行排序
func (r *metadataRepo) List() ([]domain.VideoRecord, error) {
	var records []domain.VideoRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete 刪除影片記錄，不存在時回傳 false（冪等）
func (r *metadataRepo) Delete(id string) (bool, error) {
	res := r.db.Delete(&domain.VideoRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

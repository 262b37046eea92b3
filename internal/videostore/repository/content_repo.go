package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// ContentRepo definition video content files on local disk
// 檔案一旦寫入完成即視為不可變，讀取不需要加鎖
type ContentRepo interface {
	Create(storedName string) (*os.File, error)
	Open(storedName string) (*os.File, error)
	Stat(storedName string) (os.FileInfo, error)
	Remove(storedName string) error
	Path(storedName string) string
}

type fsContentRepo struct {
	root string
}

// NewFSContentRepo create ContentRepo，root 目錄不存在時建立
func NewFSContentRepo(root string) (ContentRepo, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("建立儲存目錄失敗: %v", err)
	}
	return &fsContentRepo{root: root}, nil
}

// Create 以 O_EXCL 建立新檔，檔案已存在（id 碰撞）時回傳 os.IsExist 錯誤
func (r *fsContentRepo) Create(storedName string) (*os.File, error) {
	path, err := r.resolve(storedName)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
}

// Open 開啟既有內容檔供讀取
func (r *fsContentRepo) Open(storedName string) (*os.File, error) {
	path, err := r.resolve(storedName)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Stat 取得內容檔資訊
func (r *fsContentRepo) Stat(storedName string) (os.FileInfo, error) {
	path, err := r.resolve(storedName)
	if err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// Remove 刪除內容檔，檔案不存在視為成功（結果相同）
func (r *fsContentRepo) Remove(storedName string) error {
	path, err := r.resolve(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path 回傳內容檔的完整路徑（供鏡像上傳使用）
func (r *fsContentRepo) Path(storedName string) string {
	return filepath.Join(r.root, storedName)
}

// resolve 拒絕含路徑分隔符的名稱，stored name 只能是單一檔名
func (r *fsContentRepo) resolve(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return "", fmt.Errorf("不合法的 stored name: %q", storedName)
	}
	return filepath.Join(r.root, storedName), nil
}

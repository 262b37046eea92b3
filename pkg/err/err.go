package errprocess

import (
	"errors"
	"fmt"

	"video_storage_service/pkg/logger"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap 記錄錯誤並保留原始錯誤（供 errors.Is / errors.As 判斷）
func Wrap(err error, errMsg string) error {
	logger.Log.Error(errMsg)
	return fmt.Errorf("%s: %w", errMsg, err)
}

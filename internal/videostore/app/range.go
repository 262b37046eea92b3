package app

import (
	"strconv"
	"strings"

	"video_storage_service/internal/videostore/domain"
)

// ResolveRange 將 HTTP Range 標頭解析為具體的位元組區間（純函式，不做任何 I/O）
//
// 規則（單一區間子集）：
//   - 無標頭或非 bytes= 開頭 → 完整回應 [0, size-1]，partial 為 false
//   - bytes=start-end → [start, end]
//   - bytes=start-    → [start, size-1]
//   - bytes=-suffix   → 最後 suffix 位元組 [max(0, size-suffix), size-1]
//   - 多重區間（含逗號）一律視為無法滿足
//
// 任何解析出的區間必須滿足 0 <= start <= end < size 且 size > 0，
// 違反時回傳 *domain.RangeNotSatisfiableError（對應 416）。
// 邊界檢查必須在任何檔案 I/O 之前完成，避免 seek 越界或產生負的區塊長度。
func ResolveRange(header string, size int64) (start, end int64, partial bool, err error) {
	if header == "" || !strings.HasPrefix(header, "bytes=") {
		return 0, size - 1, false, nil
	}

	unsatisfiable := func() (int64, int64, bool, error) {
		return 0, 0, false, &domain.RangeNotSatisfiableError{Size: size}
	}

	value := strings.TrimSpace(strings.TrimPrefix(header, "bytes="))
	if strings.Contains(value, ",") {
		// 多重區間不在支援範圍
		return unsatisfiable()
	}

	dash := strings.Index(value, "-")
	if dash < 0 {
		return unsatisfiable()
	}
	startStr := strings.TrimSpace(value[:dash])
	endStr := strings.TrimSpace(value[dash+1:])

	if startStr == "" {
		// bytes=-suffix：取檔案最後 suffix 位元組
		suffix, perr := strconv.ParseInt(endStr, 10, 64)
		if perr != nil || suffix <= 0 {
			return unsatisfiable()
		}
		start = size - suffix
		if start < 0 {
			start = 0
		}
		end = size - 1
	} else {
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return unsatisfiable()
		}
		if endStr == "" {
			end = size - 1
		} else {
			end, err = strconv.ParseInt(endStr, 10, 64)
			if err != nil {
				return unsatisfiable()
			}
		}
	}

	if size <= 0 || start > end || end >= size {
		return unsatisfiable()
	}
	return start, end, true, nil
}

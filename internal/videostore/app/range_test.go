package app

import (
	"errors"
	"testing"

	"video_storage_service/internal/videostore/domain"

	"github.com/stretchr/testify/assert"
)

// 測試 ResolveRange 各種 Range 標頭形式
func TestResolveRange(t *testing.T) {
	const size = int64(10000)

	type want struct {
		start   int64
		end     int64
		partial bool
	}

	tests := []struct {
		name   string
		header string
		want   want
	}{
		{"無 Range 標頭", "", want{0, size - 1, false}},
		{"非 bytes 單位視為完整回應", "items=0-5", want{0, size - 1, false}},
		{"一般區間", "bytes=0-999", want{0, 999, true}},
		{"中段區間", "bytes=500-1499", want{500, 1499, true}},
		{"單一位元組", "bytes=42-42", want{42, 42, true}},
		{"最後一個位元組", "bytes=9999-9999", want{9999, 9999, true}},
		{"開放結尾", "bytes=9000-", want{9000, size - 1, true}},
		{"從頭開放結尾", "bytes=0-", want{0, size - 1, true}},
		{"後綴區間", "bytes=-500", want{size - 500, size - 1, true}},
		{"後綴大於檔案時取整個檔案", "bytes=-20000", want{0, size - 1, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, partial, err := ResolveRange(tt.header, size)
			assert.NoError(t, err)
			assert.Equal(t, tt.want.start, start)
			assert.Equal(t, tt.want.end, end)
			assert.Equal(t, tt.want.partial, partial)
		})
	}
}

// 測試無法滿足的 Range（對應 416），必須在任何檔案 I/O 之前被攔下
func TestResolveRangeUnsatisfiable(t *testing.T) {
	const size = int64(10000)

	headers := []struct {
		name   string
		header string
	}{
		{"起點等於檔案大小", "bytes=10000-10005"},
		{"起點超過檔案大小", "bytes=20000-"},
		{"終點超過檔案大小", "bytes=0-10000"},
		{"起點大於終點", "bytes=500-100"},
		{"負的起點", "bytes=-5-10"},
		{"非數字", "bytes=abc-def"},
		{"空區間", "bytes=-"},
		{"後綴為零", "bytes=-0"},
		{"多重區間", "bytes=0-10,20-30"},
	}

	for _, tt := range headers {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ResolveRange(tt.header, size)

			var rangeErr *domain.RangeNotSatisfiableError
			assert.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, size, rangeErr.Size)
		})
	}
}

// 空檔案：無標頭仍是完整回應，任何 bytes= 區間皆無法滿足
func TestResolveRangeEmptyFile(t *testing.T) {
	start, end, partial, err := ResolveRange("", 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(-1), end)
	assert.False(t, partial)

	_, _, _, err = ResolveRange("bytes=0-0", 0)
	var rangeErr *domain.RangeNotSatisfiableError
	assert.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, int64(0), rangeErr.Size)
}

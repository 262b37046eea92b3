package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSContentRepo(t *testing.T) {
	content, err := NewFSContentRepo(t.TempDir())
	assert.NoError(t, err)

	t.Run("O_EXCL阻擋同名建立", func(t *testing.T) {
		first, err := content.Create("aaaa0001.mp4")
		assert.NoError(t, err)
		assert.NoError(t, first.Close())

		second, err := content.Create("aaaa0001.mp4")
		assert.Nil(t, second)
		assert.True(t, os.IsExist(err))
	})

	t.Run("寫入後可讀回", func(t *testing.T) {
		dst, err := content.Create("aaaa0002.mp4")
		assert.NoError(t, err)
		_, err = dst.Write([]byte("dummy video content"))
		assert.NoError(t, err)
		assert.NoError(t, dst.Close())

		fi, err := content.Stat("aaaa0002.mp4")
		assert.NoError(t, err)
		assert.Equal(t, int64(len("dummy video content")), fi.Size())
	})

	t.Run("Remove冪等", func(t *testing.T) {
		dst, err := content.Create("aaaa0003.mp4")
		assert.NoError(t, err)
		assert.NoError(t, dst.Close())

		assert.NoError(t, content.Remove("aaaa0003.mp4"))
		// 再刪一次，檔案不存在仍視為成功
		assert.NoError(t, content.Remove("aaaa0003.mp4"))

		_, err = content.Stat("aaaa0003.mp4")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("拒絕含路徑的名稱", func(t *testing.T) {
		for _, name := range []string{"", "../escape.mp4", "sub/dir.mp4", "/etc/passwd"} {
			_, err := content.Create(name)
			assert.Error(t, err, "name=%q", name)
			_, err = content.Open(name)
			assert.Error(t, err, "name=%q", name)
			assert.Error(t, content.Remove(name), "name=%q", name)
		}
	})
}

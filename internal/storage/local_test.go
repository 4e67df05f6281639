package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	body := "not really a png"
	key, err := store.Save(context.Background(), "lab report.png", strings.NewReader(body), int64(len(body)), "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, "-lab_report.png"))
	data, err := os.ReadFile(filepath.Join(store.baseDir, key))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestLocalStoreRequiresDir(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}

func TestAllowedContentType(t *testing.T) {
	assert.True(t, AllowedContentType("image/png"))
	assert.True(t, AllowedContentType("IMAGE/JPEG"))
	assert.False(t, AllowedContentType("application/pdf"))
	assert.False(t, AllowedContentType(""))
}

func TestObjectKeySanitizes(t *testing.T) {
	key := objectKey("../../etc/passwd")
	assert.NotContains(t, key, "/")

	assert.True(t, strings.HasSuffix(objectKey(""), "-attachment"))
}

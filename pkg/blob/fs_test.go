package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	info, err := s.Put(ctx, "photos/p1.jpg", strings.NewReader("jpegbytes"), PutOptions{
		ContentType: "image/jpeg",
		Metadata:    map[string]string{"deviceId": "VNT-001"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/jpeg", info.ContentType)

	got, body, err := s.Get(ctx, "photos/p1.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.Equal(t, "VNT-001", got.Metadata["deviceId"])

	deleted, err := s.Delete(ctx, "photos/p1.jpg")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, "photos/p1.jpg")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, _, err = s.Get(ctx, "photos/p1.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(ctx, "a.png", strings.NewReader("one"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	info, err := s.Put(ctx, "a.png", strings.NewReader("three"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "   ", "../etc/passwd", "/abs/path"} {
		_, err := s.Put(context.Background(), key, strings.NewReader("x"), PutOptions{})
		assert.Error(t, err, key)
	}
}

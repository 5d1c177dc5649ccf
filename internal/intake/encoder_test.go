package intake

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/model"
)

func filenames(pages []model.EncodedPage) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Filename
	}
	return out
}

func TestEncodePages(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		got, err := EncodePages(nil)
		assert.ErrorIs(t, err, ErrEmptyBatch)
		assert.Nil(t, got)
	})

	t.Run("sorts by filename and assigns indexes", func(t *testing.T) {
		pages := []model.UploadedPage{
			{Filename: "page-03.jpg", ContentType: "image/jpeg", Data: []byte("three")},
			{Filename: "page-01.jpg", ContentType: "image/jpeg", Data: []byte("one")},
			{Filename: "page-02.jpg", ContentType: "image/jpeg", Data: []byte("two")},
		}

		got, err := EncodePages(pages)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, []string{"page-01.jpg", "page-02.jpg", "page-03.jpg"}, filenames(got))
		for i, p := range got {
			assert.Equal(t, i, p.Index)
		}
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("one")), got[0].Payload)
		assert.Equal(t, "image/jpeg", got[0].MIMEType)
		// input is left untouched
		assert.Equal(t, "page-03.jpg", pages[0].Filename)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := EncodePages([]model.UploadedPage{
			{Filename: "Scan-B.png"},
			{Filename: "scan-a.png"},
			{Filename: "SCAN-C.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"scan-a.png", "Scan-B.png", "SCAN-C.png"}, filenames(got))
	})

	t.Run("unpadded numbers sort lexicographically", func(t *testing.T) {
		got, err := EncodePages([]model.UploadedPage{
			{Filename: "page-2.jpg"},
			{Filename: "page-10.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"page-10.jpg", "page-2.jpg"}, filenames(got))
	})

	t.Run("mime type falls back to extension", func(t *testing.T) {
		got, err := EncodePages([]model.UploadedPage{
			{Filename: "a.png", ContentType: "application/octet-stream"},
			{Filename: "b.unknownext"},
			{Filename: "c.jpg", ContentType: "image/webp"},
		})
		require.NoError(t, err)
		assert.Equal(t, "image/png", got[0].MIMEType)
		assert.Equal(t, "application/octet-stream", got[1].MIMEType)
		assert.Equal(t, "image/webp", got[2].MIMEType)
	})
}

package intake

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"docintake/internal/model"
)

const defaultMIMEType = "application/octet-stream"

// EncodePages orders pages by filename and base64-encodes their content.
//
// Filenames are the only ordering signal: they are compared case-insensitively with an English
// collator, so zero-padded names ("page-01", "page-02") sort as expected while unpadded ones
// ("page-10" before "page-2") do not. Ties keep upload order.
func EncodePages(pages []model.UploadedPage) ([]model.EncodedPage, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyBatch
	}

	sorted := make([]model.UploadedPage, len(pages))
	copy(sorted, pages)
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(sorted[i].Filename, sorted[j].Filename) < 0
	})

	out := make([]model.EncodedPage, len(sorted))
	for i, p := range sorted {
		out[i] = model.EncodedPage{
			Index:    i,
			Filename: p.Filename,
			MIMEType: mimeType(p),
			Payload:  base64.StdEncoding.EncodeToString(p.Data),
		}
	}
	return out, nil
}

func mimeType(p model.UploadedPage) string {
	ct := strings.TrimSpace(p.ContentType)
	if ct != "" && ct != defaultMIMEType {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(p.Filename))); byExt != "" {
		return byExt
	}
	return defaultMIMEType
}

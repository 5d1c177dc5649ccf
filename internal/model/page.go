package model

// UploadedPage is one scanned page as received from the client.
// The filename is only an ordering key; pages are never persisted as-is.
type UploadedPage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EncodedPage is an uploaded page after sorting and base64 encoding.
type EncodedPage struct {
	Index    int
	Filename string
	MIMEType string
	Payload  string
}

// PageExtraction is the structured data pulled from a single page.
// Nil scalars mean the page did not show that field. Authors is never nil.
type PageExtraction struct {
	PageIndex  int      `json:"-"`
	Title      *string  `json:"title"`
	Authors    []string `json:"authors"`
	Department *string  `json:"department"`
	Data       *string  `json:"data"`
}

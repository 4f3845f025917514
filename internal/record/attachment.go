package record

// Attachment media kinds.
const (
	MediaImage = "image"
	MediaPDF   = "pdf"
	MediaFile  = "file"
)

// Attachment is a labeled link to an external media file.
// Attachments are identified by URL; two attachments with the same URL
// are the same attachment regardless of label.
type Attachment struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}

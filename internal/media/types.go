package media

// Defaults substituted during row mapping when an index attribute is absent
// or malformed.
const (
	// UnknownName replaces a missing display name.
	UnknownName = "Unknown"
	// DefaultVideoMime replaces a missing video MIME type.
	DefaultVideoMime = "video/*"
	// DefaultAudioMime replaces a missing audio MIME type.
	DefaultAudioMime = "audio/*"
)

// VideoRecord is one enumerated video. All fields except ThumbnailData are
// fixed at construction; ThumbnailData is attached lazily and overwritten
// on each regeneration.
type VideoRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	Path          string `json:"path"`
	URI           string `json:"uri"`
	DateAdded     int64  `json:"dateAdded"`
	MimeType      string `json:"mimeType"`
	DurationMs    int64  `json:"duration"`
	FolderPath    string `json:"folderPath"`
	ThumbnailData []byte `json:"thumbnailData,omitempty"`
}

// SetThumbnail attaches thumbnail bytes to the record, replacing any
// previously attached data.
func (v *VideoRecord) SetThumbnail(data []byte) {
	v.ThumbnailData = data
}

// AudioRecord is one enumerated music entry. Artist and album pass through
// from the index and may be empty.
type AudioRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Path       string `json:"path"`
	URI        string `json:"uri"`
	DateAdded  int64  `json:"dateAdded"`
	MimeType   string `json:"mimeType"`
	DurationMs int64  `json:"duration"`
	FolderPath string `json:"folderPath"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
}

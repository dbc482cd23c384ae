package mediatypes

import "strings"

// MediaType represents the broad class of a media file.
type MediaType string

const (
	// MediaTypeVideo represents a video file.
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio represents an audio file.
	MediaTypeAudio MediaType = "audio"
	// MediaTypeOther represents an unknown or unsupported file type.
	MediaTypeOther MediaType = "other"
)

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
	".wav":  true,
	".aac":  true,
	".wma":  true,
	".aiff": true,
	".amr":  true,
	".awb":  true,
	".3ga":  true,
}

// SpeechExtensions marks audio formats that are voice recordings rather than
// music. Rows indexed from these are excluded from the audio listing, which
// only returns music.
var SpeechExtensions = map[string]bool{
	".amr": true,
	".awb": true,
	".3ga": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Audio
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".wma":  "audio/x-ms-wma",
	".aiff": "audio/aiff",
	".amr":  "audio/amr",
	".awb":  "audio/amr-wb",
	".3ga":  "audio/3gpp",
}

// GetMediaType returns the MediaType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp4").
// Returns MediaTypeOther if the extension is not recognized.
func GetMediaType(ext string) MediaType {
	if VideoExtensions[ext] {
		return MediaTypeVideo
	}
	if AudioExtensions[ext] {
		return MediaTypeAudio
	}
	return MediaTypeOther
}

// GetMimeType returns the MIME type for a given file extension.
// Returns an empty string if the extension is not recognized; callers
// substitute the wildcard default for the record's media type.
func GetMimeType(ext string) string {
	return MimeTypes[ext]
}

// IsMusic reports whether an audio extension counts as music. Voice-recording
// formats are audio but not music.
func IsMusic(ext string) bool {
	return AudioExtensions[ext] && !SpeechExtensions[ext]
}

// MatchesFilter reports whether a MIME type matches an allow-list. Entries
// ending in "/*" match any MIME type sharing the prefix before the asterisk;
// other entries require an exact match. An empty filter matches everything.
func MatchesFilter(mimeType string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, entry := range filter {
		if prefix, ok := strings.CutSuffix(entry, "*"); ok {
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
			continue
		}
		if mimeType == entry {
			return true
		}
	}
	return false
}

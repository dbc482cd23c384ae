package media

import (
	"errors"
	"fmt"

	"media-store/internal/logging"

	"github.com/google/uuid"
)

// Default thumbnail dimensions when the caller passes none.
const (
	DefaultThumbnailWidth  = 128
	DefaultThumbnailHeight = 128
)

// Operation names carried on a Request, used to replay a call after a
// permission grant.
const (
	OpListVideos            = "listVideos"
	OpListAudios            = "listAudios"
	OpGetThumbnail          = "getThumbnail"
	OpGetVideoWithThumbnail = "getVideoWithThumbnail"
	OpPopulateThumbnails    = "populateThumbnails"
	OpFolderCounts          = "folderCounts"
)

// Request captures one store call in full: operation name and every
// parameter. It is handed to the Authorizer before the call runs, and a
// caller holding a denied Request can replay it via Dispatch once access is
// granted, with nothing (including the MIME filter) lost in between.
type Request struct {
	ID         string         `json:"id"`
	Op         string         `json:"op"`
	VideoID    string         `json:"videoId,omitempty"`
	MimeFilter []string       `json:"mimeFilter,omitempty"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Records    []*VideoRecord `json:"-"`
}

func newRequest(op string) Request {
	return Request{ID: uuid.NewString(), Op: op}
}

// Authorizer gates access to the media index. The authorization flow itself
// (prompting, granting) lives outside the store; the store only asks.
type Authorizer interface {
	Authorize(req Request) error
}

// GrantAll authorizes every request. Used when the host platform has already
// granted media access before the store is constructed.
type GrantAll struct{}

// Authorize implements Authorizer.
func (GrantAll) Authorize(Request) error { return nil }

// Thumbnailer produces thumbnail bytes for a video id. ThumbnailGenerator
// implements this.
type Thumbnailer interface {
	Thumbnail(videoID string, width, height int) ([]byte, error)
}

// Store is the transport-independent method surface of the media facade.
type Store struct {
	library *Library
	thumbs  Thumbnailer
	auth    Authorizer
}

// NewStore assembles the facade from its collaborators.
func NewStore(library *Library, thumbs Thumbnailer, auth Authorizer) *Store {
	return &Store{library: library, thumbs: thumbs, auth: auth}
}

func (s *Store) authorize(req Request) error {
	err := s.auth.Authorize(req)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotAuthorized) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNotAuthorized, err)
}

// ListVideos enumerates video records, optionally restricted to a MIME
// allow-list, most recently added first.
func (s *Store) ListVideos(mimeFilter []string) ([]*VideoRecord, error) {
	req := newRequest(OpListVideos)
	req.MimeFilter = mimeFilter
	if err := s.authorize(req); err != nil {
		return nil, err
	}
	return s.library.ListVideos(mimeFilter)
}

// ListAudios enumerates music records, most recently added first.
func (s *Store) ListAudios() ([]*AudioRecord, error) {
	req := newRequest(OpListAudios)
	if err := s.authorize(req); err != nil {
		return nil, err
	}
	return s.library.ListAudios()
}

// GetThumbnail returns thumbnail bytes for a video id, or nil when no image
// could be produced. "No thumbnail available" is a valid outcome, not an
// error; only an authorization denial is returned as one.
func (s *Store) GetThumbnail(videoID string, width, height int) ([]byte, error) {
	req := newRequest(OpGetThumbnail)
	req.VideoID = videoID
	req.Width, req.Height = width, height
	if err := s.authorize(req); err != nil {
		return nil, err
	}

	width, height = normalizeDims(width, height)
	data, err := s.thumbs.Thumbnail(videoID, width, height)
	if err != nil {
		logging.Debug("GetThumbnail: no thumbnail for %s: %v", videoID, err)
		return nil, nil
	}
	return data, nil
}

// GetVideoWithThumbnail returns the enumerated record for a video id with
// its thumbnail attached. Fails with ErrNotFound when the id is absent from
// the current enumeration; a missing thumbnail alone is not a failure.
func (s *Store) GetVideoWithThumbnail(videoID string, width, height int) (*VideoRecord, error) {
	req := newRequest(OpGetVideoWithThumbnail)
	req.VideoID = videoID
	req.Width, req.Height = width, height
	if err := s.authorize(req); err != nil {
		return nil, err
	}

	records, err := s.library.ListVideos(nil)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.ID != videoID {
			continue
		}
		width, height = normalizeDims(width, height)
		data, err := s.thumbs.Thumbnail(videoID, width, height)
		if err != nil {
			logging.Debug("GetVideoWithThumbnail: no thumbnail for %s: %v", videoID, err)
			return rec, nil
		}
		rec.SetThumbnail(data)
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, videoID)
}

// FolderCounts re-enumerates all videos and reduces them to a folder ->
// count mapping. Always computed from a fresh enumeration.
func (s *Store) FolderCounts() (map[string]int, error) {
	req := newRequest(OpFolderCounts)
	if err := s.authorize(req); err != nil {
		return nil, err
	}

	records, err := s.library.ListVideos(nil)
	if err != nil {
		return nil, err
	}
	return FolderCounts(records), nil
}

// Dispatch replays a captured request, typically after an authorization
// denial has been resolved. Parameters come from the request itself.
func (s *Store) Dispatch(req Request) (interface{}, error) {
	switch req.Op {
	case OpListVideos:
		return s.ListVideos(req.MimeFilter)
	case OpListAudios:
		return s.ListAudios()
	case OpGetThumbnail:
		return s.GetThumbnail(req.VideoID, req.Width, req.Height)
	case OpGetVideoWithThumbnail:
		return s.GetVideoWithThumbnail(req.VideoID, req.Width, req.Height)
	case OpPopulateThumbnails:
		return s.PopulateThumbnails(req.Records, req.Width, req.Height)
	case OpFolderCounts:
		return s.FolderCounts()
	default:
		return nil, fmt.Errorf("unknown operation %q", req.Op)
	}
}

func normalizeDims(width, height int) (int, int) {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	if height <= 0 {
		height = DefaultThumbnailHeight
	}
	return width, height
}

package media

import (
	"sync"

	"media-store/internal/logging"
	"media-store/internal/metrics"
)

// PopulateBatchSize is the hard ceiling on simultaneous thumbnail
// generations during batch population. It protects frame decoders and file
// handles from exhaustion when a library holds thousands of videos.
const PopulateBatchSize = 5

// PopulateThumbnails attaches thumbnails to the given records in place and
// returns the same slice, order unchanged. Records are processed in batches
// of PopulateBatchSize: all requests within a batch run concurrently, and a
// batch completes before the next starts. A failed generation leaves that
// record's thumbnail unset and never aborts the batch or the ones after it.
func (s *Store) PopulateThumbnails(records []*VideoRecord, width, height int) ([]*VideoRecord, error) {
	req := newRequest(OpPopulateThumbnails)
	req.Records = records
	req.Width, req.Height = width, height
	if err := s.authorize(req); err != nil {
		return nil, err
	}

	width, height = normalizeDims(width, height)

	for start := 0; start < len(records); start += PopulateBatchSize {
		end := start + PopulateBatchSize
		if end > len(records) {
			end = len(records)
		}

		var wg sync.WaitGroup
		for _, rec := range records[start:end] {
			wg.Add(1)
			go func(rec *VideoRecord) {
				defer wg.Done()
				data, err := s.thumbs.Thumbnail(rec.ID, width, height)
				if err != nil {
					logging.Warn("PopulateThumbnails: skipping %s: %v", rec.ID, err)
					metrics.PopulateFailuresTotal.Inc()
					return
				}
				rec.SetThumbnail(data)
			}(rec)
		}
		wg.Wait()
		metrics.PopulateBatchesTotal.Inc()
	}

	return records, nil
}

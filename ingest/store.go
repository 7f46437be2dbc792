package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Store appends VideoRecords to the videos table. The backing store is
// treated as a single-writer resource: all inserts are serialized behind one
// mutex so concurrent pipeline invocations never interleave partial writes.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert appends one row for the record. It does not deduplicate by source
// URL: posting the same URL twice yields two rows.
func (s *Store) Insert(ctx context.Context, rec VideoRecord) error {
	if rec.SourceURL == "" {
		return fmt.Errorf("insert video: empty source url")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO videos
			(full_url, published_at, full_video_title, length, artist, album, title, year)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.SourceURL, rec.PublishedAt, rec.FullTitle, rec.Duration,
		rec.Artist, rec.Album, rec.TrackTitle, rec.Year)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

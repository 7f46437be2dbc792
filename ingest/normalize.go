package ingest

import "database/sql"

// TrackInfo holds the decomposition of a free-text video title into music
// metadata. A field with Valid=false is a known unknown, distinct from a
// parsing attempt that produced an empty string.
type TrackInfo struct {
	Artist sql.NullString
	Album  sql.NullString
	Title  sql.NullString
	Year   sql.NullString
}

// ParseTitle attempts to decompose a raw video title into (artist, album,
// track title, year). It currently returns all fields unknown: no heuristic is
// confident enough to guess, and downstream consumers prefer explicit unknowns
// over wrong splits. A future parser must keep this signature and fall back to
// the all-unknown result when no decomposition is confident.
func ParseTitle(raw string) TrackInfo {
	return TrackInfo{}
}

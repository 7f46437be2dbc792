// Package ingest implements the URL-recognition-and-ingestion pipeline: it
// extracts a video id from raw chat text, resolves metadata through the
// YouTube client, normalizes the title, and appends one record to the videos
// table.
package ingest

import "regexp"

// videoIDPattern matches a v= query parameter whose value is a YouTube-style
// video id (alphanumerics, hyphen, underscore).
var videoIDPattern = regexp.MustCompile(`[?&]v=([0-9a-zA-Z\-_]+)`)

// ExtractVideoID returns the video id embedded in text, if any. Absence of a
// match is a normal outcome, not an error: most chat messages are not video
// links.
func ExtractVideoID(text string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

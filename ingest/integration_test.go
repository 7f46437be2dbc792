package ingest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"google.golang.org/api/option"

	"github.com/patacca/bragi/testutil"
	"github.com/patacca/bragi/youtubeapi"
)

// End-to-end: real metadata client against the mock provider, real store
// against Postgres. Requires TEST_PG_DSN.
func TestPipelineEndToEnd(t *testing.T) {
	dbx := testutil.SetupTestDB(t)
	ctx := context.Background()
	if _, err := dbx.ExecContext(ctx, `DELETE FROM videos`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	mock := testutil.NewMockYouTubeServer(t)
	mock.MockVideoResponse("2020-01-01T00:00:00Z", "Song Title", "PT3M33S")

	client, err := youtubeapi.New(ctx, "test-api-key", option.WithEndpoint(mock.URL))
	if err != nil {
		t.Fatalf("youtube client: %v", err)
	}
	p := NewPipeline(NewStore(dbx), client, 5*time.Second)

	const text = "check this https://example.com/watch?v=abc123"
	if got := p.HandleMessage(ctx, text); got != OutcomeStored {
		t.Fatalf("outcome = %s, want stored", got)
	}

	var url, published, title, length string
	var artist sql.NullString
	err = dbx.QueryRowContext(ctx,
		`SELECT full_url, published_at, full_video_title, length, artist FROM videos`).
		Scan(&url, &published, &title, &length, &artist)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if url != text || published != "2020-01-01T00:00:00Z" || title != "Song Title" || length != "PT3M33S" {
		t.Errorf("row = (%q, %q, %q, %q)", url, published, title, length)
	}
	if artist.Valid {
		t.Errorf("artist = %v, want NULL", artist)
	}

	// Provider failure path: no additional write, no panic.
	mock.MockVideoError(500)
	if got := p.HandleMessage(ctx, text); got != OutcomeFetchFailed {
		t.Fatalf("outcome = %s, want fetch_failed", got)
	}
	var n int
	if err := dbx.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patacca/bragi/youtubeapi"
)

// fakeMeta counts lookups and serves canned metadata keyed by video id.
type fakeMeta struct {
	calls int64
	byID  map[string]youtubeapi.VideoMetadata
	err   error
}

func (f *fakeMeta) FetchVideo(ctx context.Context, videoID string) (youtubeapi.VideoMetadata, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return youtubeapi.VideoMetadata{}, f.err
	}
	if md, ok := f.byID[videoID]; ok {
		return md, nil
	}
	return youtubeapi.VideoMetadata{}, youtubeapi.ErrNoData
}

// fakeStore collects records in memory, serialized like the real store.
type fakeStore struct {
	mu   sync.Mutex
	recs []VideoRecord
	err  error
}

func (f *fakeStore) Insert(ctx context.Context, rec VideoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeStore) records() []VideoRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]VideoRecord, len(f.recs))
	copy(out, f.recs)
	return out
}

func TestHandleMessageNoMatch(t *testing.T) {
	meta := &fakeMeta{}
	store := &fakeStore{}
	p := NewPipeline(store, meta, time.Second)

	for _, text := range []string{"", "good morning", "https://example.com/page?id=3"} {
		if got := p.HandleMessage(context.Background(), text); got != OutcomeNoMatch {
			t.Errorf("HandleMessage(%q) = %s, want no_match", text, got)
		}
	}
	if n := atomic.LoadInt64(&meta.calls); n != 0 {
		t.Errorf("metadata calls = %d, want 0", n)
	}
	if n := len(store.records()); n != 0 {
		t.Errorf("store writes = %d, want 0", n)
	}
}

func TestHandleMessageFetchFailure(t *testing.T) {
	meta := &fakeMeta{err: errors.New("videos.list status 500")}
	store := &fakeStore{}
	p := NewPipeline(store, meta, time.Second)

	got := p.HandleMessage(context.Background(), "https://example.com/watch?v=abc123")
	if got != OutcomeFetchFailed {
		t.Fatalf("HandleMessage() = %s, want fetch_failed", got)
	}
	if n := len(store.records()); n != 0 {
		t.Errorf("store writes after fetch failure = %d, want 0", n)
	}
}

func TestHandleMessageStoreFailure(t *testing.T) {
	meta := &fakeMeta{byID: map[string]youtubeapi.VideoMetadata{
		"abc123": {PublishedAt: "2020-01-01T00:00:00Z", Title: "Song Title", Duration: "PT3M33S"},
	}}
	store := &fakeStore{err: errors.New("connection refused")}
	p := NewPipeline(store, meta, time.Second)

	got := p.HandleMessage(context.Background(), "https://example.com/watch?v=abc123")
	if got != OutcomeStoreFailed {
		t.Fatalf("HandleMessage() = %s, want store_failed", got)
	}
}

func TestHandleMessageStoresRecord(t *testing.T) {
	const text = "check this https://example.com/watch?v=abc123"
	meta := &fakeMeta{byID: map[string]youtubeapi.VideoMetadata{
		"abc123": {PublishedAt: "2020-01-01T00:00:00Z", Title: "Song Title", Duration: "PT3M33S"},
	}}
	store := &fakeStore{}
	p := NewPipeline(store, meta, time.Second)

	if got := p.HandleMessage(context.Background(), text); got != OutcomeStored {
		t.Fatalf("HandleMessage() = %s, want stored", got)
	}

	recs := store.records()
	if len(recs) != 1 {
		t.Fatalf("store writes = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.SourceURL != text {
		t.Errorf("SourceURL = %q, want verbatim message text %q", rec.SourceURL, text)
	}
	if rec.PublishedAt != "2020-01-01T00:00:00Z" {
		t.Errorf("PublishedAt = %q", rec.PublishedAt)
	}
	if rec.FullTitle != "Song Title" {
		t.Errorf("FullTitle = %q", rec.FullTitle)
	}
	if rec.Duration != "PT3M33S" {
		t.Errorf("Duration = %q", rec.Duration)
	}
	if rec.Artist.Valid || rec.Album.Valid || rec.TrackTitle.Valid || rec.Year.Valid {
		t.Errorf("normalizer fields set: %+v, want all unknown", rec)
	}
}

func TestHandleMessageDuplicateURLAppends(t *testing.T) {
	const text = "https://example.com/watch?v=abc123"
	meta := &fakeMeta{byID: map[string]youtubeapi.VideoMetadata{
		"abc123": {Title: "Song Title"},
	}}
	store := &fakeStore{}
	p := NewPipeline(store, meta, time.Second)

	// Duplicate ingestion is allowed: same URL twice yields two rows.
	p.HandleMessage(context.Background(), text)
	p.HandleMessage(context.Background(), text)
	if n := len(store.records()); n != 2 {
		t.Errorf("store writes = %d, want 2", n)
	}
}

func TestHandleMessageConcurrent(t *testing.T) {
	const workers = 32
	byID := make(map[string]youtubeapi.VideoMetadata, workers)
	for i := 0; i < workers; i++ {
		id := fmt.Sprintf("vid%02d", i)
		byID[id] = youtubeapi.VideoMetadata{
			PublishedAt: "2020-01-01T00:00:00Z",
			Title:       "Title " + id,
			Duration:    "PT1M",
		}
	}
	meta := &fakeMeta{byID: byID}
	store := &fakeStore{}
	p := NewPipeline(store, meta, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("vid%02d", i)
			text := "https://example.com/watch?v=" + id
			if got := p.HandleMessage(context.Background(), text); got != OutcomeStored {
				t.Errorf("worker %d: outcome = %s, want stored", i, got)
			}
		}(i)
	}
	wg.Wait()

	recs := store.records()
	if len(recs) != workers {
		t.Fatalf("store writes = %d, want %d", len(recs), workers)
	}
	// No row may mix fields from two different calls: the title must match the
	// id embedded in the row's own source url.
	for _, rec := range recs {
		id, ok := ExtractVideoID(rec.SourceURL)
		if !ok {
			t.Fatalf("stored record with unmatchable url %q", rec.SourceURL)
		}
		if want := "Title " + id; rec.FullTitle != want {
			t.Errorf("row for %s has title %q, want %q (interleaved fields)", id, rec.FullTitle, want)
		}
	}
}

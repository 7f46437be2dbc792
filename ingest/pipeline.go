package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/patacca/bragi/telemetry"
	"github.com/patacca/bragi/youtubeapi"
)

// MetadataSource resolves a video id to provider metadata. *youtubeapi.Client
// satisfies it; tests substitute fakes.
type MetadataSource interface {
	FetchVideo(ctx context.Context, videoID string) (youtubeapi.VideoMetadata, error)
}

// RecordStore persists assembled VideoRecords. *Store satisfies it.
type RecordStore interface {
	Insert(ctx context.Context, rec VideoRecord) error
}

// Outcome names the result of one pipeline invocation. Every failure branch
// is an explicit variant rather than a bare early return so callers and tests
// can see which step short-circuited.
type Outcome int

const (
	// OutcomeStored means one record was written.
	OutcomeStored Outcome = iota
	// OutcomeNoMatch means the text contained no recognizable video URL.
	OutcomeNoMatch
	// OutcomeFetchFailed means the metadata lookup failed.
	OutcomeFetchFailed
	// OutcomeStoreFailed means the write was rejected or the store unreachable.
	OutcomeStoreFailed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeStoreFailed:
		return "store_failed"
	default:
		return "unknown"
	}
}

// Pipeline runs matching, metadata lookup, title normalization, and the
// insert for one message.
// One Pipeline is constructed at process start and shared by every dispatch
// goroutine; it holds no per-message state and is safe for concurrent use.
type Pipeline struct {
	store        RecordStore
	meta         MetadataSource
	fetchTimeout time.Duration
}

// NewPipeline wires the store and metadata source. fetchTimeout bounds the
// single metadata lookup; zero or negative disables the bound.
func NewPipeline(store RecordStore, meta MetadataSource, fetchTimeout time.Duration) *Pipeline {
	telemetry.Init()
	return &Pipeline{store: store, meta: meta, fetchTimeout: fetchTimeout}
}

// HandleMessage runs the ingestion pipeline for one inbound chat message. It
// never panics and never propagates an error to the dispatcher: a message
// without a video URL or a failed lookup is a silent no-op (chat participants
// posting unrelated links should not get bot noise), and a rejected write is
// logged but does not crash the worker.
func (p *Pipeline) HandleMessage(ctx context.Context, text string) Outcome {
	start := time.Now()
	log := telemetry.LoggerWithCorr(ctx)
	telemetry.MessagesSeen.Inc()

	videoID, ok := ExtractVideoID(text)
	if !ok {
		return OutcomeNoMatch
	}
	telemetry.URLMatches.Inc()
	log.Info("got a video url", slog.String("video_id", videoID))

	ctx, span := telemetry.StartSpan(ctx, "ingest", "HandleMessage")
	defer span.End()

	fetchCtx := ctx
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}
	var md youtubeapi.VideoMetadata
	var err error
	telemetry.TimeFunc(telemetry.FetchDuration, func() {
		md, err = p.meta.FetchVideo(fetchCtx, videoID)
	})
	if err != nil {
		telemetry.FetchesFailed.Inc()
		telemetry.RecordError(span, err)
		log.Debug("metadata lookup failed",
			slog.String("video_id", videoID),
			slog.String("class", ClassifyFetchError(err).String()),
			slog.Any("err", err))
		return OutcomeFetchFailed
	}
	telemetry.FetchesSucceeded.Inc()

	info := ParseTitle(md.Title)
	rec := VideoRecord{
		SourceURL:   text,
		PublishedAt: md.PublishedAt,
		FullTitle:   md.Title,
		Duration:    md.Duration,
		Artist:      info.Artist,
		Album:       info.Album,
		TrackTitle:  info.Title,
		Year:        info.Year,
	}

	log.Info("inserting video record",
		slog.String("url", rec.SourceURL),
		slog.String("title", rec.FullTitle),
		slog.String("published_at", rec.PublishedAt),
		slog.String("length", rec.Duration))
	if err := p.store.Insert(ctx, rec); err != nil {
		telemetry.InsertsFailed.Inc()
		telemetry.RecordError(span, err)
		log.Error("failed to insert video record", slog.String("url", rec.SourceURL), slog.Any("err", err))
		return OutcomeStoreFailed
	}
	telemetry.InsertsSucceeded.Inc()
	telemetry.IngestDuration.Observe(time.Since(start).Seconds())
	telemetry.SetSpanSuccess(span)
	return OutcomeStored
}

// Package chat connects to Twitch IRC and feeds link-bearing messages into the
// ingestion pipeline. It is a thin dispatch layer: message filtering beyond a
// cheap link check, metadata lookup, and persistence all live in ingest.
package chat

import (
	"context"
	"log/slog"
	"os"
	"strings"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/google/uuid"

	"github.com/patacca/bragi/ingest"
	"github.com/patacca/bragi/telemetry"
)

// hasLink reports whether the message contains something that looks like a
// hyperlink. It is a coarse pre-filter so the pipeline is not invoked for
// every line of chatter; the pipeline's matcher makes the real decision.
func hasLink(s string) bool {
	return strings.Contains(s, "http://") || strings.Contains(s, "https://")
}

// StartWatcher joins the configured channel and dispatches every link-bearing
// message to the pipeline on its own goroutine. Messages from busy chats may
// therefore be ingested concurrently; the pipeline and store are built for
// that. Blocks until ctx is cancelled or the connection fails.
func StartWatcher(ctx context.Context, pipeline *ingest.Pipeline, channel string) {
	username := os.Getenv("TWITCH_BOT_USERNAME")
	oauth := os.Getenv("TWITCH_OAUTH_TOKEN")
	if channel == "" || username == "" || oauth == "" {
		slog.Info("twitch creds not set; skipping chat watcher")
		return
	}
	client := twitch.NewClient(username, oauth)

	client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		if !hasLink(msg.Message) {
			return
		}
		mctx := telemetry.WithCorrelation(ctx, uuid.NewString())
		go func(text string) {
			outcome := pipeline.HandleMessage(mctx, text)
			telemetry.LoggerWithCorr(mctx).Debug("message handled",
				slog.String("outcome", outcome.String()),
				slog.String("channel", channel))
		}(msg.Message)
	})

	// Handle context cancellation by closing the client
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		client.Disconnect()
		close(done)
	}()

	client.Join(channel)
	if err := client.Connect(); err != nil {
		slog.Error("twitch chat connect error", slog.Any("err", err))
	}
	<-done
}

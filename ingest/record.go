package ingest

import "database/sql"

// VideoRecord is the persisted entity: one ingested video reference. It is
// assembled transiently inside the pipeline and handed to the store; the
// videos table is the only owner of its durable form.
type VideoRecord struct {
	// SourceURL is the verbatim chat message text and acts as the natural key.
	// It is never empty when a record reaches the store.
	SourceURL   string
	PublishedAt string
	FullTitle   string
	// Duration keeps the provider's ISO-8601 token (e.g. PT3M33S) unparsed.
	Duration string

	Artist     sql.NullString
	Album      sql.NullString
	TrackTitle sql.NullString
	Year       sql.NullString
}

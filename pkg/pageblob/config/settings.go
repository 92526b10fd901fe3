// Package config holds the append-log's immutable settings record and
// the Jsonnet-based loader for it.
package config

// Settings is an immutable record configuring an append-log handle.
// All four fields are mandatory; there are no other tunables.
type Settings struct {
	// MaxPayloadSizeProtection is the upper bound on any single
	// payload length. Frames whose LEN exceeds it are treated as
	// corruption, guarding against reading noise as a huge length.
	MaxPayloadSizeProtection uint32 `json:"maxPayloadSizeProtection"`

	// BlobAutoResizeInPages is the quantum used by Resize: the blob
	// is always grown to the next multiple of this many pages.
	BlobAutoResizeInPages uint64 `json:"blobAutoResizeInPages"`

	// CacheCapacityInPages is the minimum page fetch size for the
	// reader. The writer does not use it: once in Writing, the window
	// keeps only the cursor's page and at most one page before it.
	CacheCapacityInPages uint64 `json:"cacheCapacityInPages"`

	// MaxPagesToWriteSingleRoundTrip bounds a single write request
	// to the store; larger writes are chunked.
	MaxPagesToWriteSingleRoundTrip uint64 `json:"maxPagesToWriteSingleRoundTrip"`
}

// Default returns a reasonable set of settings for a page size of 512
// bytes: a 1 MiB payload ceiling, single-page resize quantum, a
// ten-page read cache and a thousand-page write cap per round trip.
func Default() Settings {
	return Settings{
		MaxPayloadSizeProtection:       1 << 20,
		BlobAutoResizeInPages:          1,
		CacheCapacityInPages:           10,
		MaxPagesToWriteSingleRoundTrip: 1000,
	}
}

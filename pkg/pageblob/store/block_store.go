// Package store defines the abstract block-store capability consumed
// by the rest of pkg/pageblob, plus a retry-policy decorator and a
// chunked, page-aligned write helper that sit on top of it.
//
// The package deliberately knows nothing about HTTP, authentication or
// any concrete transport: those are the external collaborator's
// concern. It only distinguishes the error conditions named in
// pagebloberrors (ErrContainerMissing, ErrBlobMissing and
// ErrTransientTransportError) from everything else, which is passed
// through unchanged.
package store

import "context"

// PageSize is the fixed page size of the block store, matching the
// on-blob frame layout used throughout pageblob.
const PageSize = 512

// BlockStore is the capability a remote page-oriented blob store must
// offer. All operations address whole pages; none of them accept or
// return partial-page data.
type BlockStore interface {
	// PagesCount returns the current size of the blob, in pages.
	PagesCount(ctx context.Context) (uint64, error)

	// CreateContainerIfAbsent creates the container holding the blob
	// if it does not already exist. It is a no-op otherwise.
	CreateContainerIfAbsent(ctx context.Context) error

	// CreateBlobIfAbsent creates the blob with the given initial page
	// count if it does not already exist, and returns the blob's page
	// count after the call (0 if newly created with 0 pages).
	CreateBlobIfAbsent(ctx context.Context, initialPages uint64) (uint64, error)

	// Resize grows (or shrinks) the blob to exactly the given number
	// of pages.
	Resize(ctx context.Context, pages uint64) error

	// Read returns pages*PageSize bytes starting at startPage.
	Read(ctx context.Context, startPage, pages uint64) ([]byte, error)

	// Write stores data, whose length must be a multiple of
	// PageSize, starting at startPage.
	Write(ctx context.Context, startPage uint64, data []byte) error
}

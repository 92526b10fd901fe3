package store

import (
	"context"

	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// WriteChunked issues a page-aligned write against blockStore, splitting
// it into consecutive sub-writes of at most maxPagesPerRoundTrip pages
// when necessary. A failure of any
// sub-write aborts the operation; no multi-write atomicity is promised
// or simulated.
func WriteChunked(ctx context.Context, blockStore BlockStore, startPage uint64, data []byte, maxPagesPerRoundTrip uint64) error {
	if len(data)%PageSize != 0 {
		return util.StatusWrapf(errNotPageAligned, "write of %d bytes at page %d", len(data), startPage)
	}
	totalPages := uint64(len(data)) / PageSize
	if maxPagesPerRoundTrip == 0 {
		maxPagesPerRoundTrip = totalPages
	}

	for pagesWritten := uint64(0); pagesWritten < totalPages; {
		pagesRemaining := totalPages - pagesWritten
		chunkPages := pagesRemaining
		if chunkPages > maxPagesPerRoundTrip {
			chunkPages = maxPagesPerRoundTrip
		}
		chunkStart := pagesWritten * PageSize
		chunkEnd := chunkStart + chunkPages*PageSize
		if err := blockStore.Write(ctx, startPage+pagesWritten, data[chunkStart:chunkEnd]); err != nil {
			return util.StatusWrapf(err, "Failed to write pages [%d, %d)", startPage+pagesWritten, startPage+pagesWritten+chunkPages)
		}
		pagesWritten += chunkPages
	}
	return nil
}

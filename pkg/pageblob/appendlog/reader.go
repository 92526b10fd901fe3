package appendlog

import (
	"context"
	"fmt"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
)

// lastPageSnapshotSize bounds the forensic snapshot carried by a
// CorruptedError to at most one page.
const lastPageSnapshotSize = store.PageSize

// ceilDivPages returns ceil(byteCount / store.PageSize).
func ceilDivPages(byteCount int) uint64 {
	return (uint64(byteCount) + store.PageSize - 1) / store.PageSize
}

// readExact returns exactly n bytes starting offset bytes past the window's
// cursor, fetching more whole pages from the block store as needed.
// cacheCapacityPages is the minimum number of pages requested per
// fetch. blobPages is the blob's total page count, known statically
// for the duration of a Reading session because the library enforces
// a single writer.
//
// A short read — the blob runs out of pages before n bytes are
// available — is reported as a *pagebloberrors.CorruptedError.
func readExact(ctx context.Context, blockStore store.BlockStore, w *pagewindow.Window, offset, n int, cacheCapacityPages, blobPages uint64) ([]byte, error) {
	for {
		data, shortfall := w.TryReadAt(offset, n)
		if shortfall == 0 {
			return data, nil
		}

		pagesNeeded := ceilDivPages(shortfall)
		if pagesNeeded < cacheCapacityPages {
			pagesNeeded = cacheCapacityPages
		}
		fetchStart := w.BasePage() + uint64(w.PagesInWindow())
		remainingPages := uint64(0)
		if blobPages > fetchStart {
			remainingPages = blobPages - fetchStart
		}
		if pagesNeeded > remainingPages {
			pagesNeeded = remainingPages
		}
		if pagesNeeded == 0 {
			return nil, pagebloberrors.NewCorrupted(
				int64(w.BlobPosition()),
				fmt.Sprintf("short read: %d more bytes needed but blob has no more pages", shortfall),
				lastPageSnapshot(w))
		}

		fetched, err := blockStore.Read(ctx, fetchStart, pagesNeeded)
		if err != nil {
			return nil, err
		}
		w.AppendFromBlob(fetched)
	}
}

// lastPageSnapshot returns up to one page of bytes preceding the
// cursor, for forensic use in a CorruptedError. It never influences
// recovery behavior.
func lastPageSnapshot(w *pagewindow.Window) []byte {
	tail := w.TailBytes()
	if len(tail) > lastPageSnapshotSize {
		tail = tail[len(tail)-lastPageSnapshotSize:]
	}
	snapshot := make([]byte, len(tail))
	copy(snapshot, tail)
	return snapshot
}

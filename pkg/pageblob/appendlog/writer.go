package appendlog

import (
	"context"
	"encoding/binary"

	"github.com/appendlog/pageblob/pkg/pageblob/config"
	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
	"github.com/appendlog/pageblob/pkg/pageblob/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// nextMultiple rounds x up to the next multiple of quantum.
func nextMultiple(x, quantum uint64) uint64 {
	if quantum == 0 {
		return x
	}
	return (x + quantum - 1) / quantum * quantum
}

// appendFrames serializes a batch of payloads as LEN||BYTES frames,
// commits the whole batch as one combined blob transfer followed by a
// single fresh END_MARKER, and writes it starting at the page
// containing the cursor, prefixed with whatever tail-page bytes
// precede the cursor so the transfer stays page-aligned.
//
// It returns the blob's page count as known after the call (which may
// have grown even if the call ultimately failed, if Resize succeeded
// but the subsequent write did not) and an error, if any. On error the
// window's cursor is left untouched: append leaves the handle in
// Writing with the cursor unmoved.
func appendFrames(ctx context.Context, blockStore store.BlockStore, w *pagewindow.Window, payloads [][]byte, settings config.Settings, blobPages uint64) (uint64, error) {
	var combined []byte
	framesLen := 0
	for _, payload := range payloads {
		if len(payload) == 0 || uint32(len(payload)) > settings.MaxPayloadSizeProtection {
			return blobPages, status.Errorf(codes.InvalidArgument,
				"payload length %d violates 0 < len <= %d", len(payload), settings.MaxPayloadSizeProtection)
		}
		var lenBuf [lenFieldSize]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
		combined = append(combined, lenBuf[:]...)
		combined = append(combined, payload...)
		framesLen += lenFieldSize + len(payload)
	}
	combined = append(combined, 0, 0, 0, 0) // fresh END_MARKER

	startPage := w.BlobPosition() / store.PageSize
	neededPages := ceilDivPages(int(w.BlobPosition()%store.PageSize) + len(combined))
	if startPage+neededPages > blobPages {
		newBlobPages := nextMultiple(startPage+neededPages, settings.BlobAutoResizeInPages)
		if err := blockStore.Resize(ctx, newBlobPages); err != nil {
			return blobPages, util.StatusWrapf(err, "Failed to resize blob to %d pages", newBlobPages)
		}
		blobPages = newBlobPages
	}

	prefix := w.CurrentPagePrefix()
	actual := make([]byte, 0, len(prefix)+len(combined)+store.PageSize)
	actual = append(actual, prefix...)
	actual = append(actual, combined...)
	if pad := len(actual) % store.PageSize; pad != 0 {
		actual = append(actual, make([]byte, store.PageSize-pad)...)
	}

	if err := store.WriteChunked(ctx, blockStore, startPage, actual, settings.MaxPagesToWriteSingleRoundTrip); err != nil {
		return blobPages, err
	}

	// The write landed: the new END_MARKER is durable, so it is now
	// safe to move the in-memory cursor and reflect what is on the
	// blob.
	w.Write(combined, false)
	w.Advance(framesLen)
	w.GC(writingGCKeepPages)

	return blobPages, nil
}

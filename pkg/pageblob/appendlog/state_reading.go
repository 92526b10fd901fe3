package appendlog

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
)

// lenFieldSize is the width, in bytes, of a frame's length prefix.
const lenFieldSize = 4

// readingGCKeepPages is how many pages behind the cursor the window
// retains after each successful read.
const readingGCKeepPages = 2

// writingGCKeepPages is how many pages before the cursor's page the
// window retains once handed off to Writing; the cursor's own page is
// always kept, so the writer can rewrite the tail page without a blob
// round trip.
const writingGCKeepPages = 1

// readingState is the Reading arm: a page window positioned for
// reading, plus the blob's known page count and the bookkeeping for
// the deferred cursor advance.
type readingState struct {
	window    *pagewindow.Window
	blobPages uint64

	// advanceFromPreviousPayload holds the number of bytes the
	// cursor must move before the next read, left over from the
	// previous successful Next() call. It is applied at the start
	// of the following call, keeping the cursor on the LEN of the
	// frame just read until then (this is what makes the
	// Reading->Writing hand-off trivial at end of stream).
	advanceFromPreviousPayload int
}

func (readingState) name() stateName  { return nameReading }
func (s readingState) String() string { return string(s.name()) }

// Next reads the next frame from the blob. It returns (payload, false,
// nil) for a frame, (nil, true, nil) when the END_MARKER is reached
// (the handle has transitioned to Writing), or a *pagebloberrors.CorruptedError
// if the on-blob format is violated. It is only legal in Reading.
func (h *Handle) Next(ctx context.Context) ([]byte, bool, error) {
	s, ok := h.state.(readingState)
	if !ok {
		return nil, false, h.forbidden("Next")
	}

	if s.advanceFromPreviousPayload > 0 {
		s.window.Advance(s.advanceFromPreviousPayload)
		s.advanceFromPreviousPayload = 0
	}

	lenBytes, err := readExact(ctx, h.blockStore, s.window, 0, lenFieldSize, h.settings.CacheCapacityInPages, s.blobPages)
	if err != nil {
		return nil, false, h.enterCorrupted(s, err)
	}
	length := binary.LittleEndian.Uint32(lenBytes)

	if length == 0 {
		// The cursor is already sitting on the END_MARKER, which
		// is exactly where the writer needs it.
		s.window.GC(writingGCKeepPages)
		h.state = writingState{window: s.window, blobPages: s.blobPages}
		return nil, true, nil
	}

	if length > h.settings.MaxPayloadSizeProtection {
		diagErr := pagebloberrors.NewCorrupted(
			int64(s.window.BlobPosition()),
			fmt.Sprintf("payload size %d exceeds the configured maximum of %d", length, h.settings.MaxPayloadSizeProtection),
			lastPageSnapshot(s.window))
		return nil, false, h.enterCorrupted(s, diagErr)
	}

	payload, err := readExact(ctx, h.blockStore, s.window, lenFieldSize, int(length), h.settings.CacheCapacityInPages, s.blobPages)
	if err != nil {
		return nil, false, h.enterCorrupted(s, err)
	}

	s.advanceFromPreviousPayload = int(length) + lenFieldSize
	s.window.GC(readingGCKeepPages)
	h.state = s
	return payload, false, nil
}

// enterCorrupted transitions the handle from Reading to Corrupted
// because of err, which must either already be a *pagebloberrors.CorruptedError
// or an opaque store error. Store errors do not change state; only a
// genuine format violation does.
func (h *Handle) enterCorrupted(s readingState, err error) error {
	diag, ok := pagebloberrors.AsCorrupted(err)
	if !ok {
		return err
	}
	h.state = corruptedState{
		window:     s.window,
		blobPages:  s.blobPages,
		diagnostic: diag,
	}
	return err
}

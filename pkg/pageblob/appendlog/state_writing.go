package appendlog

import (
	"context"

	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
)

// writingState is the Writing arm: a page window positioned at the
// END_MARKER, plus the blob's known page count so Append can decide
// when a resize is needed without a round trip to the store.
type writingState struct {
	window    *pagewindow.Window
	blobPages uint64
}

func (writingState) name() stateName  { return nameWriting }
func (s writingState) String() string { return string(s.name()) }

// Append writes a batch of payloads to the blob as one combined
// transfer. It is only legal in Writing. On failure the
// handle stays in Writing with the cursor unmoved, ready to be retried.
func (h *Handle) Append(ctx context.Context, payloads [][]byte) error {
	s, ok := h.state.(writingState)
	if !ok {
		return h.forbidden("Append")
	}

	newBlobPages, err := appendFrames(ctx, h.blockStore, s.window, payloads, h.settings, s.blobPages)
	h.state = writingState{window: s.window, blobPages: newBlobPages}
	return err
}

package appendlog

import (
	"context"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// corruptedState is the Corrupted arm: the page window as of the
// failure, the blob's last known page count, and the diagnostic that
// caused the transition.
type corruptedState struct {
	window     *pagewindow.Window
	blobPages  uint64
	diagnostic *pagebloberrors.CorruptedError
}

func (corruptedState) name() stateName  { return nameCorrupted }
func (s corruptedState) String() string { return string(s.name()) }

// Diagnostic returns the corruption diagnostic that put the handle
// into the Corrupted state, or nil if the handle is not Corrupted.
func (h *Handle) Diagnostic() *pagebloberrors.CorruptedError {
	if s, ok := h.state.(corruptedState); ok {
		return s.diagnostic
	}
	return nil
}

// ForceToWrite resumes a handle that is Reading or Corrupted into
// Writing at the cursor's current position, optionally backing up the
// blob's current contents to backup first. Both Reading and Corrupted
// are legal source states.
//
// If backup is non-nil, the existing bytes are copied there first and
// the source blob is left untouched. Either way, the window's tail
// from the cursor onward is zeroed in memory so the next Append
// overwrites whatever garbage followed the cursor cleanly, without
// discarding any frame already committed before it.
func (h *Handle) ForceToWrite(ctx context.Context, backup store.BlockStore) error {
	var window *pagewindow.Window
	var blobPages uint64

	switch s := h.state.(type) {
	case readingState:
		window, blobPages = s.window, s.blobPages
	case corruptedState:
		window, blobPages = s.window, s.blobPages
	default:
		return h.forbidden("ForceToWrite")
	}

	if backup != nil {
		if err := store.CopyBlob(ctx, h.blockStore, backup, h.settings.MaxPagesToWriteSingleRoundTrip); err != nil {
			return util.StatusWrapf(err, "Failed to back up blob before forcing write mode")
		}
	}
	window.ResetTailFromCursor()

	window.GC(writingGCKeepPages)
	h.state = writingState{window: window, blobPages: blobPages}
	return nil
}

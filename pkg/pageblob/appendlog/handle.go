package appendlog

import (
	"github.com/appendlog/pageblob/pkg/pageblob/config"
	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
)

// Handle is the user-facing append-log. It is created in the
// Uninitialized state by New(), and every other state is reached only
// by the state machine itself. A Handle is not safe for
// concurrent use; it is illegal to invoke a second operation on it
// while one is suspended.
type Handle struct {
	blockStore store.BlockStore
	settings   config.Settings

	state handleState
}

// New creates an Uninitialized handle over the given block store and
// settings. It never fails.
//
// Retried block-store attempts are reported through the ErrorLogger
// the caller supplied to store.NewRetryingBlockStore when constructing
// blockStore; the handle itself does not log anything.
func New(blockStore store.BlockStore, settings config.Settings) *Handle {
	return &Handle{
		blockStore: blockStore,
		settings:   settings,
		state:      uninitializedState{},
	}
}

// StateName reports which arm of the state machine the handle is
// currently in. It exists for diagnostics/tests; it is not part of
// the operational surface that Init/Next/Append/ForceToWrite expose.
func (h *Handle) StateName() string {
	return string(h.state.name())
}

// GetBlobPosition returns the current byte offset of the cursor: 0 in
// Uninitialized or Corrupted, the cursor position in Reading or
// Writing.
func (h *Handle) GetBlobPosition() uint64 {
	switch s := h.state.(type) {
	case readingState:
		return s.window.BlobPosition()
	case writingState:
		return s.window.BlobPosition()
	default:
		return 0
	}
}

func (h *Handle) forbidden(operation string) error {
	if _, ok := h.state.(uninitializedState); ok {
		return pagebloberrors.ErrNotInitialized
	}
	return pagebloberrors.NewForbidden(operation, string(h.state.name()))
}

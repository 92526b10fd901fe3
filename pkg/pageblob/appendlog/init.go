package appendlog

import (
	"context"
	"errors"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// Init probes the blob for existence and, if it exists, its current
// size, then transitions the handle to Reading (non-empty blob) or
// Writing (empty or freshly created blob). It is only legal in
// Uninitialized.
//
// If the blob is absent and autoCreateIfMissing is false, ErrBlobNotFound
// is returned and the handle remains Uninitialized, ready to be retried.
func (h *Handle) Init(ctx context.Context, autoCreateIfMissing bool) error {
	if _, ok := h.state.(uninitializedState); !ok {
		return h.forbidden("Init")
	}

	pagesCount, err := h.blockStore.PagesCount(ctx)
	if err != nil {
		if errors.Is(err, pagebloberrors.ErrBlobMissing) {
			if !autoCreateIfMissing {
				return pagebloberrors.ErrBlobNotFound
			}
			if _, err := h.blockStore.CreateBlobIfAbsent(ctx, 0); err != nil {
				return util.StatusWrapf(err, "Failed to create missing blob")
			}
			pagesCount = 0
		} else {
			return util.StatusWrapf(err, "Failed to determine blob page count")
		}
	}

	if pagesCount == 0 {
		// A zero-length blob has an implicit END_MARKER at
		// position 0.
		h.state = writingState{
			window:    pagewindow.New(0, 0),
			blobPages: 0,
		}
		return nil
	}

	h.state = readingState{
		window:    pagewindow.New(0, 0),
		blobPages: pagesCount,
	}
	return nil
}

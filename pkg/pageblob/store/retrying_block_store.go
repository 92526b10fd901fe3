package store

import (
	"context"
	"errors"
	"time"

	"github.com/appendlog/pageblob/pkg/pageblob/clock"
	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// retryDelay is the fixed delay between attempts at recovering from a
// transient transport error.
const retryDelay = 3 * time.Second

// maxTransientAttempts bounds how many attempts a single operation
// gets while it keeps failing with a transient transport error (the
// first call plus up to maxTransientAttempts-1 retries) before the
// error is surfaced as non-retryable.
const maxTransientAttempts = 5

// RetryingBlockStore wraps a BlockStore with a retry policy: transient
// transport errors are retried with a fixed delay up to a bounded
// number of attempts, a missing container is created and the call
// retried once, and a missing blob is created (with a caller-supplied
// initial page count) and the call retried once, but only for
// operations that semantically permit it.
//
// Keeping this decorator separate from the append-log state machine
// means every state's logic stays purely about framing and
// transitions, keeping retry bookkeeping out of the block-allocation
// logic.
type RetryingBlockStore struct {
	blockStore  BlockStore
	clock       clock.Clock
	errorLogger util.ErrorLogger
}

// NewRetryingBlockStore creates a BlockStore decorator that applies
// the retry policy above around every operation of the wrapped store.
func NewRetryingBlockStore(blockStore BlockStore, clock clock.Clock, errorLogger util.ErrorLogger) *RetryingBlockStore {
	return &RetryingBlockStore{
		blockStore:  blockStore,
		clock:       clock,
		errorLogger: errorLogger,
	}
}

// withRetry runs call() until it succeeds or a non-retryable condition
// is hit. allowBlobCreate indicates whether, upon an ErrBlobMissing,
// this operation is permitted to create the blob with initialPages and
// retry once; read-side operations must pass false.
func (bs *RetryingBlockStore) withRetry(ctx context.Context, operation string, allowBlobCreate bool, initialPages uint64, call func() error) error {
	containerCreateAttempted := false
	blobCreateAttempted := false
	transientAttempt := 0

	for {
		err := call()
		if err == nil {
			return nil
		}

		// Cancellation is observed only at suspension points and
		// is treated as a transport-level failure, but retry is
		// never attempted against an explicitly cancelled request.
		if ctx.Err() != nil {
			return util.StatusWrapf(err, "%s was cancelled", operation)
		}

		switch {
		case errors.Is(err, pagebloberrors.ErrContainerMissing) && !containerCreateAttempted:
			containerCreateAttempted = true
			if cErr := bs.blockStore.CreateContainerIfAbsent(ctx); cErr != nil {
				return util.StatusWrapf(cErr, "Failed to create missing container for %s", operation)
			}
			continue

		case errors.Is(err, pagebloberrors.ErrBlobMissing) && allowBlobCreate && !blobCreateAttempted:
			blobCreateAttempted = true
			if _, cErr := bs.blockStore.CreateBlobIfAbsent(ctx, initialPages); cErr != nil {
				return util.StatusWrapf(cErr, "Failed to create missing blob for %s", operation)
			}
			continue

		case errors.Is(err, pagebloberrors.ErrTransientTransportError):
			transientAttempt++
			if transientAttempt >= maxTransientAttempts {
				return util.StatusWrapf(err, "%s failed after %d attempts", operation, transientAttempt)
			}
			bs.errorLogger.Log(util.StatusWrapf(err, "%s failed on attempt %d, retrying", operation, transientAttempt))
			_, timerChan := bs.clock.NewTimer(retryDelay)
			select {
			case <-ctx.Done():
				return util.StatusWrapf(ctx.Err(), "%s was cancelled while waiting to retry", operation)
			case <-timerChan:
			}
			continue

		default:
			return err
		}
	}
}

// PagesCount implements BlockStore.PagesCount.
func (bs *RetryingBlockStore) PagesCount(ctx context.Context) (uint64, error) {
	var result uint64
	err := bs.withRetry(ctx, "PagesCount", false, 0, func() error {
		count, err := bs.blockStore.PagesCount(ctx)
		if err != nil {
			return err
		}
		result = count
		return nil
	})
	return result, err
}

// CreateContainerIfAbsent implements BlockStore.CreateContainerIfAbsent.
func (bs *RetryingBlockStore) CreateContainerIfAbsent(ctx context.Context) error {
	return bs.withRetry(ctx, "CreateContainerIfAbsent", false, 0, func() error {
		return bs.blockStore.CreateContainerIfAbsent(ctx)
	})
}

// CreateBlobIfAbsent implements BlockStore.CreateBlobIfAbsent.
func (bs *RetryingBlockStore) CreateBlobIfAbsent(ctx context.Context, initialPages uint64) (uint64, error) {
	var result uint64
	err := bs.withRetry(ctx, "CreateBlobIfAbsent", true, initialPages, func() error {
		count, err := bs.blockStore.CreateBlobIfAbsent(ctx, initialPages)
		if err != nil {
			return err
		}
		result = count
		return nil
	})
	return result, err
}

// Resize implements BlockStore.Resize. A resize is only ever issued by
// the writer against a blob it knows exists, so blob auto-create is
// not permitted here.
func (bs *RetryingBlockStore) Resize(ctx context.Context, pages uint64) error {
	return bs.withRetry(ctx, "Resize", false, 0, func() error {
		return bs.blockStore.Resize(ctx, pages)
	})
}

// Read implements BlockStore.Read. Read-side operations never
// auto-create a missing blob.
func (bs *RetryingBlockStore) Read(ctx context.Context, startPage, pages uint64) ([]byte, error) {
	var result []byte
	err := bs.withRetry(ctx, "Read", false, 0, func() error {
		data, err := bs.blockStore.Read(ctx, startPage, pages)
		if err != nil {
			return err
		}
		result = data
		return nil
	})
	return result, err
}

// Write implements BlockStore.Write.
func (bs *RetryingBlockStore) Write(ctx context.Context, startPage uint64, data []byte) error {
	return bs.withRetry(ctx, "Write", false, 0, func() error {
		return bs.blockStore.Write(ctx, startPage, data)
	})
}

var _ BlockStore = (*RetryingBlockStore)(nil)

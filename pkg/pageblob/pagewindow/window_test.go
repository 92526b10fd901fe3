package pagewindow_test

import (
	"testing"

	"github.com/appendlog/pageblob/pkg/pageblob/pagewindow"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
	"github.com/stretchr/testify/require"
)

func TestWindowTryReadAtShortfall(t *testing.T) {
	w := pagewindow.New(0, 0)
	w.AppendFromBlob(make([]byte, store.PageSize))

	data, shortfall := w.TryRead(10)
	require.Equal(t, 0, shortfall)
	require.Len(t, data, 10)

	_, shortfall = w.TryRead(store.PageSize + 1)
	require.Equal(t, 1, shortfall)
}

func TestWindowTryReadAtDoesNotAdvanceCursor(t *testing.T) {
	w := pagewindow.New(0, 0)
	page := make([]byte, store.PageSize)
	page[0], page[1], page[2], page[3] = 3, 0, 0, 0
	page[4], page[5], page[6] = 1, 2, 3
	w.AppendFromBlob(page)

	lenBytes, shortfall := w.TryReadAt(0, 4)
	require.Equal(t, 0, shortfall)
	require.Equal(t, []byte{3, 0, 0, 0}, lenBytes)

	// Reading the payload at an offset past the LEN field must see the
	// same cursor position as the LEN read did.
	payload, shortfall := w.TryReadAt(4, 3)
	require.Equal(t, 0, shortfall)
	require.Equal(t, []byte{1, 2, 3}, payload)
	require.Equal(t, uint64(0), w.BlobPosition())
}

func TestWindowGCKeepsCursorPageAndRequestedLookback(t *testing.T) {
	w := pagewindow.New(0, 0)
	w.AppendFromBlob(make([]byte, 5*store.PageSize))
	w.Advance(4 * store.PageSize)

	w.GC(2)

	require.Equal(t, uint64(2), w.BasePage())
	require.Equal(t, 3, w.PagesInWindow())
}

func TestWindowWriteTruncatesAtCursorAndPads(t *testing.T) {
	w := pagewindow.New(0, 0)
	w.AppendFromBlob(make([]byte, store.PageSize))
	w.Advance(10)

	w.Write([]byte{1, 2, 3}, true)

	require.Equal(t, uint64(13), w.BlobPosition())
	require.Equal(t, store.PageSize, w.Len())
	tail := w.TailBytes()
	require.Len(t, tail, 13)
	require.Equal(t, []byte{1, 2, 3}, tail[10:13])
}

func TestWindowWriteWithoutAdvanceLeavesCursorInPlace(t *testing.T) {
	w := pagewindow.New(0, 0)
	w.AppendFromBlob(make([]byte, store.PageSize))
	w.Advance(10)

	w.Write([]byte{1, 2, 3, 4}, false)

	require.Equal(t, uint64(10), w.BlobPosition())
}

func TestWindowResetTailFromCursorZeroesWithoutShrinking(t *testing.T) {
	w := pagewindow.New(0, 0)
	page := make([]byte, store.PageSize)
	for i := range page {
		page[i] = 0xFF
	}
	w.AppendFromBlob(page)
	w.Advance(16)

	lengthBefore := w.Len()
	w.ResetTailFromCursor()

	require.Equal(t, lengthBefore, w.Len())
	tail := w.TailBytes()
	require.Len(t, tail, 16)
	for _, b := range tail {
		require.Equal(t, byte(0xFF), b)
	}
}

func TestWindowResetTailFromCursorZeroesPastCursor(t *testing.T) {
	w := pagewindow.New(0, 0)
	page := make([]byte, store.PageSize)
	for i := range page {
		page[i] = 0xFF
	}
	w.AppendFromBlob(page)
	w.Advance(16)

	w.ResetTailFromCursor()

	data, _ := w.TryRead(store.PageSize - 16)
	for _, b := range data {
		require.Equal(t, byte(0), b)
	}
}

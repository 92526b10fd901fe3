// Package pagewindow implements an in-memory page window: a
// contiguous buffer of consecutive blob pages, anchored at a known
// page offset, that is the single cache shared between the sequential
// reader and the sequential writer.
//
// The design follows the block-accounting style of a bounded window
// of in-memory data anchored over a larger remote store, tracking a
// base page and growing or shrinking from either end as the cursor
// moves.
package pagewindow

import (
	"github.com/appendlog/pageblob/pkg/pageblob/store"
)

// pageSize is the fixed page size of the underlying block store.
const pageSize = store.PageSize

// Window is the in-memory page window. It is not safe for concurrent
// use; the append-log handle that owns it serializes all access.
type Window struct {
	basePage uint64 // page index of the first byte held in data
	data     []byte // contiguous bytes, length always a multiple of pageSize
	blobPos  uint64 // absolute byte offset of the cursor within the blob
}

// New creates a Window anchored at basePage, initially empty, with the
// cursor positioned at blobPos (basePage*pageSize <= blobPos).
func New(basePage, blobPos uint64) *Window {
	return &Window{basePage: basePage, blobPos: blobPos}
}

// BasePage returns the page index of the first byte held by the window.
func (w *Window) BasePage() uint64 {
	return w.basePage
}

// BlobPosition returns the absolute byte offset of the cursor.
func (w *Window) BlobPosition() uint64 {
	return w.blobPos
}

// Len returns the number of bytes currently held in the window.
func (w *Window) Len() int {
	return len(w.data)
}

// PagesInWindow returns the number of whole pages currently held.
func (w *Window) PagesInWindow() int {
	return len(w.data) / pageSize
}

// posInWindow returns the cursor's byte offset relative to basePage.
func (w *Window) posInWindow() int {
	return int(w.blobPos - w.basePage*pageSize)
}

// AppendFromBlob extends data with freshly fetched pages. basePage is
// left unchanged; newData's length must be a multiple of pageSize.
func (w *Window) AppendFromBlob(newData []byte) {
	w.data = append(w.data, newData...)
}

// TryRead attempts to return n bytes starting at the cursor. If the
// window does not hold enough data, it returns (nil, shortfall) where
// shortfall is how many additional bytes are needed; the caller (the
// sequential reader) uses this to decide how many more pages to fetch.
func (w *Window) TryRead(n int) ([]byte, int) {
	return w.TryReadAt(0, n)
}

// TryReadAt is like TryRead, but starting at offset bytes past the
// cursor rather than at the cursor itself. This lets the reader look
// at both the LEN field and the payload of a frame without advancing
// the cursor in between.
func (w *Window) TryReadAt(offset, n int) ([]byte, int) {
	pos := w.posInWindow() + offset
	available := len(w.data) - pos
	if available < n {
		return nil, n - available
	}
	return w.data[pos : pos+n], 0
}

// Advance moves the cursor forward by n bytes.
func (w *Window) Advance(n int) {
	w.blobPos += uint64(n)
}

// GC drops whole pages strictly before the page containing the
// cursor, while keeping at least `keep` pages before the cursor's
// page in the window. The page containing the cursor is never
// dropped, and keep must be >= 1 so the writer can rewrite the tail
// page without a blob round trip once it takes over.
func (w *Window) GC(keep int) {
	cursorPage := w.blobPos / pageSize
	cursorPageIndexInWindow := int(cursorPage - w.basePage)
	droppable := cursorPageIndexInWindow - keep
	if droppable <= 0 {
		return
	}
	w.data = w.data[droppable*pageSize:]
	w.basePage += uint64(droppable)
}

// Write truncates the window at the cursor, appends bytes, and
// zero-pads the result up to a full page boundary. It is illegal to
// rewrite bytes in the middle of the window; every write starts at the
// cursor, which is what makes END_MARKER updates cheap. If advance is
// true, the cursor moves forward by len(bytes).
func (w *Window) Write(bytes []byte, advance bool) {
	pos := w.posInWindow()
	w.data = append(w.data[:pos:pos], bytes...)
	if pad := len(w.data) % pageSize; pad != 0 {
		w.data = append(w.data, make([]byte, pageSize-pad)...)
	}
	if advance {
		w.blobPos += uint64(len(bytes))
	}
}

// ResetTailFromCursor zeroes every byte from the cursor to the end of
// the window, without changing the window's length. It is used by
// force-to-write recovery to make the subsequent append idempotent
// with respect to whatever garbage followed the corruption point.
func (w *Window) ResetTailFromCursor() {
	pos := w.posInWindow()
	for i := pos; i < len(w.data); i++ {
		w.data[i] = 0
	}
}

// TailBytes returns the bytes of the window from its start up to (and
// not including) the cursor. It is used for forensic snapshots
// (CorruptedError's last-page payload), where any amount of preceding
// context is useful; it must not be used to build a page-aligned write,
// since the window may hold pages before the one containing the cursor.
func (w *Window) TailBytes() []byte {
	return w.data[:w.posInWindow()]
}

// CurrentPagePrefix returns the bytes of the page containing the
// cursor, from the start of that page up to (and not including) the
// cursor itself. This is the part of the tail page that must be
// re-sent on every append so the transfer stays aligned to the page
// the cursor is actually in — unlike TailBytes, it never reaches back
// into an earlier page the window happens to still be holding.
func (w *Window) CurrentPagePrefix() []byte {
	pos := w.posInWindow()
	pageStart := pos - int(w.blobPos%pageSize)
	return w.data[pageStart:pos]
}

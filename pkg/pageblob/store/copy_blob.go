package store

import (
	"context"

	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// CopyBlob streams the contents of src into dst, page range by page
// range, in ascending page order, at most maxPagesPerRoundTrip pages
// at a time. It is used only to back up a blob before force-resuming a
// Reading or Corrupted handle into Writing,
// mirroring the original's states/utils.rs::copy_blob.
func CopyBlob(ctx context.Context, src, dst BlockStore, maxPagesPerRoundTrip uint64) error {
	srcPages, err := src.PagesCount(ctx)
	if err != nil {
		return util.StatusWrapf(err, "Failed to determine source page count")
	}

	if err := dst.CreateContainerIfAbsent(ctx); err != nil {
		return util.StatusWrapf(err, "Failed to create destination container")
	}
	dstPages, err := dst.CreateBlobIfAbsent(ctx, srcPages)
	if err != nil {
		return util.StatusWrapf(err, "Failed to create destination blob")
	}
	if dstPages < srcPages {
		if err := dst.Resize(ctx, srcPages); err != nil {
			return util.StatusWrapf(err, "Failed to resize destination blob to %d pages", srcPages)
		}
	}

	if maxPagesPerRoundTrip == 0 {
		maxPagesPerRoundTrip = srcPages
	}
	for page := uint64(0); page < srcPages; {
		remaining := srcPages - page
		chunk := remaining
		if chunk > maxPagesPerRoundTrip {
			chunk = maxPagesPerRoundTrip
		}
		data, err := src.Read(ctx, page, chunk)
		if err != nil {
			return util.StatusWrapf(err, "Failed to read pages [%d, %d) from source", page, page+chunk)
		}
		if err := dst.Write(ctx, page, data); err != nil {
			return util.StatusWrapf(err, "Failed to write pages [%d, %d) to destination", page, page+chunk)
		}
		page += chunk
	}
	return nil
}

package store_test

import (
	"context"
	"testing"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
	"github.com/stretchr/testify/require"
)

// memoryBlockStore is a minimal in-memory store.BlockStore used to
// exercise WriteChunked and CopyBlob without touching a filesystem.
type memoryBlockStore struct {
	containerCreated bool
	data             []byte
}

func (m *memoryBlockStore) PagesCount(ctx context.Context) (uint64, error) {
	if m.data == nil {
		if !m.containerCreated {
			return 0, pagebloberrors.ErrContainerMissing
		}
		return 0, pagebloberrors.ErrBlobMissing
	}
	return uint64(len(m.data)) / store.PageSize, nil
}

func (m *memoryBlockStore) CreateContainerIfAbsent(ctx context.Context) error {
	m.containerCreated = true
	return nil
}

func (m *memoryBlockStore) CreateBlobIfAbsent(ctx context.Context, initialPages uint64) (uint64, error) {
	if m.data == nil {
		m.data = make([]byte, initialPages*store.PageSize)
	}
	return uint64(len(m.data)) / store.PageSize, nil
}

func (m *memoryBlockStore) Resize(ctx context.Context, pages uint64) error {
	newSize := int(pages * store.PageSize)
	if newSize <= len(m.data) {
		m.data = m.data[:newSize]
		return nil
	}
	grown := make([]byte, newSize)
	copy(grown, m.data)
	m.data = grown
	return nil
}

func (m *memoryBlockStore) Read(ctx context.Context, startPage, pages uint64) ([]byte, error) {
	start := startPage * store.PageSize
	end := start + pages*store.PageSize
	out := make([]byte, pages*store.PageSize)
	copy(out, m.data[start:end])
	return out, nil
}

func (m *memoryBlockStore) Write(ctx context.Context, startPage uint64, data []byte) error {
	start := startPage * store.PageSize
	copy(m.data[start:], data)
	return nil
}

var _ store.BlockStore = (*memoryBlockStore)(nil)

func TestWriteChunkedRejectsUnalignedData(t *testing.T) {
	bs := &memoryBlockStore{data: make([]byte, 4*store.PageSize)}
	err := store.WriteChunked(context.Background(), bs, 0, make([]byte, store.PageSize+1), 0)
	require.Error(t, err)
}

func TestWriteChunkedSplitsIntoRoundTrips(t *testing.T) {
	bs := &memoryBlockStore{data: make([]byte, 5*store.PageSize)}
	payload := make([]byte, 5*store.PageSize)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	err := store.WriteChunked(context.Background(), bs, 0, payload, 2)
	require.NoError(t, err)
	require.Equal(t, payload, bs.data)
}

func TestCopyBlobStreamsAscendingPageRanges(t *testing.T) {
	src := &memoryBlockStore{data: make([]byte, 5*store.PageSize)}
	for i := range src.data {
		src.data[i] = byte(i % 251)
	}
	dst := &memoryBlockStore{}

	err := store.CopyBlob(context.Background(), src, dst, 2)
	require.NoError(t, err)
	require.Equal(t, src.data, dst.data)
}

func TestCopyBlobOfEmptyBlobCreatesEmptyDestination(t *testing.T) {
	src := &memoryBlockStore{data: []byte{}}
	dst := &memoryBlockStore{}

	err := store.CopyBlob(context.Background(), src, dst, 4)
	require.NoError(t, err)
	require.Empty(t, dst.data)
	require.True(t, dst.containerCreated)
}

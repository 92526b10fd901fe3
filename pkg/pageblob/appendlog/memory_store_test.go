package appendlog_test

import (
	"context"

	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
)

// memoryBlockStore is a minimal in-memory store.BlockStore, local to
// the appendlog test suite, standing in for a round trip to a remote
// page store.
type memoryBlockStore struct {
	exists    bool
	container bool
	data      []byte
}

func newMemoryBlockStore() *memoryBlockStore {
	return &memoryBlockStore{container: true}
}

func (m *memoryBlockStore) PagesCount(ctx context.Context) (uint64, error) {
	if !m.exists {
		if !m.container {
			return 0, pagebloberrors.ErrContainerMissing
		}
		return 0, pagebloberrors.ErrBlobMissing
	}
	return uint64(len(m.data)) / store.PageSize, nil
}

func (m *memoryBlockStore) CreateContainerIfAbsent(ctx context.Context) error {
	m.container = true
	return nil
}

func (m *memoryBlockStore) CreateBlobIfAbsent(ctx context.Context, initialPages uint64) (uint64, error) {
	if !m.exists {
		m.exists = true
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

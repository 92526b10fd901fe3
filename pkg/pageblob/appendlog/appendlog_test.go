package appendlog_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/appendlog/pageblob/pkg/pageblob/appendlog"
	"github.com/appendlog/pageblob/pkg/pageblob/config"
	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestInitOnMissingBlobWithoutAutoCreateReturnsNotFound(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())

	err := h.Init(context.Background(), false)
	require.ErrorIs(t, err, pagebloberrors.ErrBlobNotFound)
	require.Equal(t, "Uninitialized", h.StateName())
}

func TestInitOnMissingBlobWithAutoCreateEntersWriting(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())

	require.NoError(t, h.Init(context.Background(), true))
	require.Equal(t, "Writing", h.StateName())
	require.Equal(t, uint64(0), h.GetBlobPosition())
}

func TestInitOnNonEmptyBlobEntersReading(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 4*512)

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))
	require.Equal(t, "Reading", h.StateName())
}

func TestSecondInitIsForbidden(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), true))

	err := h.Init(context.Background(), true)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestAppendThenReplayRoundTrip(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), true))

	require.NoError(t, h.Append(context.Background(), [][]byte{[]byte("hello"), []byte("world")}))
	require.Equal(t, "Writing", h.StateName())

	bs2 := &memoryBlockStore{exists: true, container: true, data: append([]byte(nil), bs.data...)}
	reader := appendlog.New(bs2, config.Default())
	require.NoError(t, reader.Init(context.Background(), false))
	require.Equal(t, "Reading", reader.StateName())

	first, end, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, []byte("hello"), first)

	second, end, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, []byte("world"), second)

	_, end, err = reader.Next(context.Background())
	require.NoError(t, err)
	require.True(t, end)
	require.Equal(t, "Writing", reader.StateName())
}

func TestAppendRejectsOversizedPayload(t *testing.T) {
	bs := newMemoryBlockStore()
	settings := config.Default()
	settings.MaxPayloadSizeProtection = 4
	h := appendlog.New(bs, settings)
	require.NoError(t, h.Init(context.Background(), true))

	err := h.Append(context.Background(), [][]byte{[]byte("too long")})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Equal(t, "Writing", h.StateName())
	require.Equal(t, uint64(0), h.GetBlobPosition())
}

func TestNextOnEmptyOrWritingIsForbidden(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), true))

	_, _, err := h.Next(context.Background())
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestNextDetectsOversizedLengthAsCorruption(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 512)
	// A LEN field claiming a 2,000,000 byte payload, at blob position 0.
	bs.data[0], bs.data[1], bs.data[2], bs.data[3] = 0x80, 0x84, 0x1E, 0x00

	settings := config.Default()
	h := appendlog.New(bs, settings)
	require.NoError(t, h.Init(context.Background(), false))

	_, _, err := h.Next(context.Background())
	diag, ok := pagebloberrors.AsCorrupted(err)
	require.True(t, ok)
	require.Equal(t, int64(0), diag.Pos)
	require.Equal(t, "Corrupted", h.StateName())
}

func TestNextDetectsGarbageMidBlobAsCorruption(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 1024)
	// One legitimate frame of 512 bytes (4-byte LEN + 508-byte
	// payload), then garbage starting at position 512 whose LEN field
	// overflows the remaining blob.
	bs.data[0], bs.data[1], bs.data[2], bs.data[3] = 0xFC, 0x01, 0x00, 0x00
	for i := 4; i < 512; i++ {
		bs.data[i] = byte(i)
	}
	bs.data[512], bs.data[513], bs.data[514], bs.data[515] = 0xFF, 0xFF, 0xFF, 0x7F

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))

	_, _, err := h.Next(context.Background())
	require.NoError(t, err)

	_, _, err = h.Next(context.Background())
	diag, ok := pagebloberrors.AsCorrupted(err)
	require.True(t, ok)
	require.Equal(t, int64(512), diag.Pos)
	require.Equal(t, "Corrupted", h.StateName())
}

func TestForceToWriteFromCorruptedWithoutBackupResumesAtCursor(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 512)
	bs.data[0], bs.data[1], bs.data[2], bs.data[3] = 0xFF, 0xFF, 0xFF, 0x7F

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))
	_, _, err := h.Next(context.Background())
	require.Error(t, err)
	require.Equal(t, "Corrupted", h.StateName())
	cursorBeforeForce := h.Diagnostic().Pos

	require.NoError(t, h.ForceToWrite(context.Background(), nil))
	require.Equal(t, "Writing", h.StateName())
	require.Equal(t, uint64(cursorBeforeForce), h.GetBlobPosition())
}

// TestForceToWriteFromCorruptedWithoutBackupPreservesPriorFrames exercises
// the end-to-end recovery scenario: one legitimate frame, followed by
// garbage instead of an END_MARKER. force_to_write(backup=None) must
// resume writing right after the legitimate frame, not discard it, so
// that a subsequent append and fresh replay yield both the original
// frame and the new one.
func TestForceToWriteFromCorruptedWithoutBackupPreservesPriorFrames(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 4*512)
	binary.LittleEndian.PutUint32(bs.data[0:4], 512)
	for i := 4; i < 516; i++ {
		bs.data[i] = 0x03
	}
	for i := 516; i < 1540; i++ {
		bs.data[i] = 0x78
	}

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))

	payload, end, err := h.Next(context.Background())
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, bytes.Repeat([]byte{0x03}, 512), payload)

	_, _, err = h.Next(context.Background())
	diag, ok := pagebloberrors.AsCorrupted(err)
	require.True(t, ok)
	require.Equal(t, int64(516), diag.Pos)

	require.NoError(t, h.ForceToWrite(context.Background(), nil))
	require.NoError(t, h.Append(context.Background(), [][]byte{{0x05, 0x05, 0x05, 0x05}}))
	require.Equal(t, []byte{0x04, 0x00, 0x00, 0x00, 0x05, 0x05, 0x05, 0x05}, bs.data[516:524])

	reader := appendlog.New(&memoryBlockStore{exists: true, container: true, data: append([]byte(nil), bs.data...)}, config.Default())
	require.NoError(t, reader.Init(context.Background(), false))

	first, end, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, bytes.Repeat([]byte{0x03}, 512), first)

	second, end, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, []byte{0x05, 0x05, 0x05, 0x05}, second)

	_, end, err = reader.Next(context.Background())
	require.NoError(t, err)
	require.True(t, end)
}

func TestForceToWriteFromCorruptedWithBackupCopiesThenResets(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 512)
	bs.data[0], bs.data[1], bs.data[2], bs.data[3] = 0xFF, 0xFF, 0xFF, 0x7F

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))
	_, _, err := h.Next(context.Background())
	require.Error(t, err)

	backup := newMemoryBlockStore()
	require.NoError(t, h.ForceToWrite(context.Background(), backup))
	require.Equal(t, "Writing", h.StateName())
	require.Equal(t, bs.data, backup.data)
}

func TestForceToWriteFromReadingIsLegal(t *testing.T) {
	bs := newMemoryBlockStore()
	bs.exists = true
	bs.data = make([]byte, 512)

	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), false))
	require.Equal(t, "Reading", h.StateName())

	require.NoError(t, h.ForceToWrite(context.Background(), nil))
	require.Equal(t, "Writing", h.StateName())
}

func TestGetBlobPositionAdvancesAcrossFrames(t *testing.T) {
	bs := newMemoryBlockStore()
	h := appendlog.New(bs, config.Default())
	require.NoError(t, h.Init(context.Background(), true))
	require.NoError(t, h.Append(context.Background(), [][]byte{[]byte("abc")}))
	require.Equal(t, uint64(7), h.GetBlobPosition())
}

package biglist

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unsafemem/biglist/alloc"
	"github.com/unsafemem/biglist/resource"
	"github.com/unsafemem/biglist/testutil"
)

func snapshotFixture(t *testing.T, n int) *List[int64] {
	t.Helper()
	l, err := NewWithCapacity[int64](8, alloc.NewHeap())
	require.NoError(t, err)
	rng := testutil.NewRNG(11)
	require.NoError(t, l.AppendSlice(rng.Int64Slice(n)))
	return l
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		comp Compression
	}{
		{"none", CompressionNone},
		{"lz4", CompressionLZ4},
		{"zstd", CompressionZstd},
	} {
		t.Run(tc.name, func(t *testing.T) {
			src := snapshotFixture(t, 1000)
			defer src.Dispose()

			var buf bytes.Buffer
			require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{Compression: tc.comp}))

			// The source is untouched by the write.
			assert.Equal(t, int64(1000), src.Len())

			got, err := ReadSnapshot[int64](ctx, &buf, alloc.NewHeap(), SnapshotOptions{})
			require.NoError(t, err)
			defer got.Dispose()

			assert.Equal(t, src.Len(), got.Len())
			assert.Equal(t, got.Len(), got.Cap())
			assert.Equal(t, src.View(), got.View())
		})
	}
}

func TestSnapshotEmptyList(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 0)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{}))

	got, err := ReadSnapshot[int64](ctx, &buf, alloc.NewHeap(), SnapshotOptions{})
	require.NoError(t, err)
	defer got.Dispose()

	assert.Equal(t, int64(0), got.Len())
	assert.True(t, got.IsCreated())
}

func TestSnapshotOffHeapRestore(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 500)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{Compression: CompressionLZ4}))

	got, err := ReadSnapshot[int64](ctx, &buf, alloc.NewOffHeap(), SnapshotOptions{})
	require.NoError(t, err)
	defer got.Dispose()

	assert.Equal(t, src.View(), got.View())
}

func TestSnapshotInvalidMagic(t *testing.T) {
	_, err := ReadSnapshot[int64](context.Background(),
		bytes.NewReader(bytes.Repeat([]byte{0xFF}, 64)), alloc.NewHeap(), SnapshotOptions{})
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestSnapshotInvalidVersion(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 4)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{}))

	// Corrupt the version field (bytes 4..8 little-endian).
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:], 0xDEAD)

	_, err := ReadSnapshot[int64](ctx, bytes.NewReader(data), alloc.NewHeap(), SnapshotOptions{})
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestSnapshotElementSizeMismatch(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 4)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{}))

	_, err := ReadSnapshot[int32](ctx, &buf, alloc.NewHeap(), SnapshotOptions{})
	assert.ErrorIs(t, err, ErrElementSizeMismatch)
}

func TestSnapshotChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 100)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{}))

	// Flip one payload byte past the 24-byte header.
	data := buf.Bytes()
	data[24+40] ^= 0xFF

	_, err := ReadSnapshot[int64](ctx, bytes.NewReader(data), alloc.NewHeap(), SnapshotOptions{})
	require.Error(t, err)
	var cme *ChecksumMismatchError
	assert.True(t, errors.As(err, &cme))
}

func TestSnapshotUnknownCompression(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 4)
	defer src.Dispose()

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{}))

	// Corrupt the codec byte (offset 8).
	data := buf.Bytes()
	data[8] = 0x7F

	_, err := ReadSnapshot[int64](ctx, bytes.NewReader(data), alloc.NewHeap(), SnapshotOptions{})
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestSnapshotWriteUnknownCompression(t *testing.T) {
	src := snapshotFixture(t, 4)
	defer src.Dispose()

	var buf bytes.Buffer
	err := src.WriteSnapshot(context.Background(), &buf, SnapshotOptions{Compression: Compression(9)})
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestSnapshotRateLimitedLargePayload(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 400_000) // ~3 MiB of int64s
	defer src.Dispose()

	// The payload is several times the 1 MiB burst, so both directions
	// must acquire their IO budget in installments; the transfer throttles
	// for a couple of seconds each way. Fresh controllers per direction
	// keep the write's token debt from stacking onto the read.
	var buf bytes.Buffer
	wc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{Controller: wc}))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	got, err := ReadSnapshot[int64](ctx, &buf, alloc.NewHeap(), SnapshotOptions{Controller: rc})
	require.NoError(t, err)
	defer got.Dispose()

	assert.Equal(t, src.Len(), got.Len())
	assert.Equal(t, src.View(), got.View())
}

func TestSnapshotRateLimited(t *testing.T) {
	ctx := context.Background()
	src := snapshotFixture(t, 1000)
	defer src.Dispose()

	// Generous budget: verifies the limited path, not the throttling.
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})

	var buf bytes.Buffer
	require.NoError(t, src.WriteSnapshot(ctx, &buf, SnapshotOptions{Controller: rc}))

	got, err := ReadSnapshot[int64](ctx, &buf, alloc.NewHeap(), SnapshotOptions{Controller: rc})
	require.NoError(t, err)
	defer got.Dispose()

	assert.Equal(t, src.View(), got.View())
}

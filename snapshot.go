package biglist

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/unsafemem/biglist/alloc"
	"github.com/unsafemem/biglist/internal/conv"
	"github.com/unsafemem/biglist/resource"
)

// Compression selects the codec applied to snapshot payloads.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 frame compression (fast, modest ratio).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd compression (slower, better ratio).
	CompressionZstd Compression = 2
)

const (
	// snapshotMagic identifies list snapshot streams (ASCII: "BLS1").
	snapshotMagic = 0x424C5331
	// snapshotVersion is the current snapshot format version.
	snapshotVersion = 0x00010000

	// snapshotChunk is the transfer granularity; bounded so the IO rate
	// limiter sees steady traffic instead of one huge write.
	snapshotChunk = 1 << 20
)

var (
	// ErrInvalidMagic is returned when a stream does not start with a
	// snapshot header.
	ErrInvalidMagic = errors.New("biglist: invalid snapshot magic")
	// ErrInvalidVersion is returned for snapshot versions this build
	// cannot decode.
	ErrInvalidVersion = errors.New("biglist: unsupported snapshot version")
	// ErrUnknownCompression is returned for compression codecs this
	// build does not know.
	ErrUnknownCompression = errors.New("biglist: unknown snapshot compression")
	// ErrElementSizeMismatch is returned when a snapshot's element size
	// does not match the list's element type.
	ErrElementSizeMismatch = errors.New("biglist: snapshot element size mismatch")
)

// ChecksumMismatchError is returned when the payload CRC does not match
// the stored value, indicating storage or transfer corruption.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("biglist: snapshot checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// snapshotHeader is the fixed little-endian header at the start of every
// snapshot stream. The payload and the trailing CRC32 (IEEE, computed
// over the uncompressed payload) follow, both passed through the
// compression codec so the stream stays self-delimiting.
type snapshotHeader struct {
	Magic    uint32
	Version  uint32
	Codec    uint8
	_        [3]byte
	ElemSize uint32
	Count    uint64
}

// SnapshotOptions configures snapshot transfers.
type SnapshotOptions struct {
	// Compression selects the payload codec on write. On read the codec
	// comes from the stream header and this field is ignored.
	Compression Compression

	// Controller, if set, rate-limits the transfer through the
	// controller's IO budget.
	Controller *resource.Controller
}

// WriteSnapshot persists the list's live elements to w. The handle is
// not modified. ctx is consulted only when opts.Controller throttles the
// transfer.
func (l *List[T]) WriteSnapshot(ctx context.Context, w io.Writer, opts SnapshotOptions) error {
	assertCreated(l.created, "WriteSnapshot")

	es := l.elemSize()
	if es > int64(^uint32(0)) {
		return fmt.Errorf("biglist: element size %d exceeds snapshot format limit", es)
	}
	count, err := conv.Int64ToUint64(l.count)
	if err != nil {
		return fmt.Errorf("biglist: snapshot: %w", err)
	}

	var out io.Writer = w
	if opts.Controller != nil {
		out = resource.NewRateLimitedWriter(w, opts.Controller, ctx)
	}

	hdr := snapshotHeader{
		Magic:    snapshotMagic,
		Version:  snapshotVersion,
		Codec:    uint8(opts.Compression),
		ElemSize: uint32(es),
		Count:    count,
	}
	if err := binary.Write(out, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("biglist: snapshot: write header: %w", err)
	}

	pw, closer, err := compressWriter(out, opts.Compression)
	if err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	data := l.payloadBytes()
	for off := 0; off < len(data); off += snapshotChunk {
		end := off + snapshotChunk
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]
		_, _ = crc.Write(chunk) // hash.Hash never errors
		if _, err := pw.Write(chunk); err != nil {
			if closer != nil {
				_ = closer()
			}
			return fmt.Errorf("biglist: snapshot: write payload: %w", err)
		}
	}

	if err := binary.Write(pw, binary.LittleEndian, crc.Sum32()); err != nil {
		if closer != nil {
			_ = closer()
		}
		return fmt.Errorf("biglist: snapshot: write checksum: %w", err)
	}

	if closer != nil {
		if err := closer(); err != nil {
			return fmt.Errorf("biglist: snapshot: close compressor: %w", err)
		}
	}
	return nil
}

// ReadSnapshot reconstructs a list from a stream produced by
// WriteSnapshot, allocating its storage block from a. The new list's
// capacity equals the restored element count.
func ReadSnapshot[T any](ctx context.Context, r io.Reader, a alloc.Allocator, opts SnapshotOptions) (*List[T], error) {
	var in io.Reader = r
	if opts.Controller != nil {
		in = resource.NewRateLimitedReader(r, opts.Controller, ctx)
	}

	var hdr snapshotHeader
	if err := binary.Read(in, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("biglist: snapshot: read header: %w", err)
	}
	if hdr.Magic != snapshotMagic {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, hdr.Magic)
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, hdr.Version)
	}

	var z T
	es := int64(unsafe.Sizeof(z))
	if int64(hdr.ElemSize) != es {
		return nil, fmt.Errorf("%w: snapshot has %d-byte elements, %T is %d bytes", ErrElementSizeMismatch, hdr.ElemSize, z, es)
	}

	count, err := conv.Uint64ToInt64(hdr.Count)
	if err != nil {
		return nil, fmt.Errorf("biglist: snapshot: %w", err)
	}

	pr, release, err := decompressReader(in, Compression(hdr.Codec))
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer release()
	}

	l, err := NewWithCapacity[T](count, a)
	if err != nil {
		return nil, err
	}
	restored := false
	defer func() {
		if !restored {
			_ = l.Dispose()
		}
	}()

	crc := crc32.NewIEEE()
	if count > 0 {
		data := unsafe.Slice((*byte)(l.block.Ptr()), count*es) //nolint:gosec // unsafe is required for raw block access
		if _, err := io.ReadFull(pr, data); err != nil {
			return nil, fmt.Errorf("biglist: snapshot: read payload: %w", err)
		}
		_, _ = crc.Write(data)
	}

	var stored uint32
	if err := binary.Read(pr, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("biglist: snapshot: read checksum: %w", err)
	}
	if actual := crc.Sum32(); actual != stored {
		return nil, &ChecksumMismatchError{Expected: stored, Actual: actual}
	}

	l.count = count
	restored = true
	return l, nil
}

// payloadBytes returns the live element bytes as a slice sharing the
// storage block.
func (l *List[T]) payloadBytes() []byte {
	if l.count == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(l.block.Ptr()), l.count*l.elemSize()) //nolint:gosec // unsafe is required for raw block access
}

func compressWriter(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case CompressionNone:
		return w, nil, nil
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("biglist: snapshot: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionNone:
		return r, nil, nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("biglist: snapshot: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

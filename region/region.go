// Package region reads and writes Region container files: a fixed 32x32
// grid of chunk slots backed by a sector-addressed file, the storage layer
// beneath NBT-encoded chunk payloads. The sector-table decode and the
// seek/read/decompress path follow the same shape as a classic AnvilReader,
// generalized here with a write-and-flush side.
package region

import (
	"errors"
	"fmt"
	"os"

	"github.com/willf/bitset"

	"github.com/blockvault/redstone/internal/endian"
)

const (
	gridSize   = 32
	slotCount  = gridSize * gridSize
	sectorSize = 4096

	headerSectors   = 2
	locationSector  = 0
	timestampSector = 1

	chunkHeaderSize = 5 // 4-byte length + 1-byte compression code
)

// Compression identifies the stream framing wrapping a chunk payload.
type Compression byte

const (
	Unknown Compression = 0
	Gzip    Compression = 1
	Zlib    Compression = 2
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidSlot is the sentinel SlotError.Is matches against, so
	// callers can write errors.Is(err, ErrInvalidSlot) without caring
	// about the offending coordinates.
	ErrInvalidSlot = errors.New("region: slot coordinates out of range")

	// ErrReadOnly is returned by mutating operations on a Region opened
	// without write access.
	ErrReadOnly = errors.New("region: file opened read-only")

	// ErrClosed is returned by Flush on a Region after Close. The other
	// methods do not check whether the Region has been closed.
	ErrClosed = errors.New("region: already closed")
)

// SlotError reports a (x,z) pair outside [0,31]x[0,31]. This is a
// programmer-contract violation, carried here as a typed error rather
// than a panic since Go callers expect an error return.
type SlotError struct {
	X, Z uint8
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("region: slot (%d,%d) out of range", e.X, e.Z)
}

func (e *SlotError) Is(target error) bool {
	return target == ErrInvalidSlot
}

// slot is the in-memory view of one grid cell.
type slot struct {
	empty       bool
	offset      uint32 // sector index
	sectorCount uint8
	timestamp   uint32
	compression Compression
	payload     []byte // borrowed view into mapped bytes, or the staged buffer
}

// override records a pending set_chunk/clear_chunk not yet flushed.
type override struct {
	clear       bool
	payload     []byte
	compression Compression
	timestamp   uint32
	hasTS       bool
}

// Region is an open region file: a 32x32 grid of chunk slots plus the
// sector bitmap tracking which 4096-byte sectors are in use. A Region is
// owned by exactly one logical goroutine at a time; it holds no internal
// mutex, matching the single-owner model the Tag and Document types use.
type Region struct {
	path      string
	file      *os.File
	writable  bool
	closed    bool
	slots     [slotCount]slot
	overrides map[int]*override
	used      *bitset.BitSet
}

// Diagnostic receives non-fatal conditions: overlapping sector runs found
// at Open are logged here, tolerated on open, and fixed by the next
// flush. It does not receive the InvalidSlot contract violation, which
// is surfaced as a returned error instead. Defaults to a no-op; mirrors
// nbt.Diagnostic.
var Diagnostic func(format string, args ...any) = func(string, ...any) {}

func diagf(format string, args ...any) {
	Diagnostic(format, args...)
}

func slotIndex(x, z uint8) (int, error) {
	if int(x) >= gridSize || int(z) >= gridSize {
		return 0, &SlotError{X: x, Z: z}
	}
	return int(x) + gridSize*int(z), nil
}

// Open opens the region file at path. If write is true and the file does
// not exist, it is created with two zeroed header sectors. The entire
// file is read into memory; chunk accessors then return borrowed slices
// into that buffer until the next Flush or Close, satisfied here with a
// plain read rather than a real memory map.
func Open(path string, write bool) (*Region, error) {
	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("region: stat %s: %w", path, err)
	}
	if write && info.Size() == 0 {
		if _, err := f.Write(make([]byte, headerSectors*sectorSize)); err != nil {
			f.Close()
			return nil, fmt.Errorf("region: initialize %s: %w", path, err)
		}
		if _, err := f.Seek(0, 0); err != nil {
			f.Close()
			return nil, fmt.Errorf("region: seek %s: %w", path, err)
		}
		info, err = f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("region: stat %s: %w", path, err)
		}
	}

	raw := make([]byte, info.Size())
	if _, err := f.ReadAt(raw, 0); err != nil && len(raw) > 0 {
		f.Close()
		return nil, fmt.Errorf("region: read %s: %w", path, err)
	}

	r := &Region{
		path:       path,
		file:       f,
		writable:   write,
		overrides:  make(map[int]*override),
		used:       bitset.New(uint(len(raw)/sectorSize + 1)),
	}
	r.used.Set(locationSector)
	r.used.Set(timestampSector)

	if err := r.loadSlots(raw); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// loadSlots decodes the location and timestamp sectors and marks each
// non-empty slot's sector run used, tolerating (and logging) overlaps
// between slots rather than rejecting the file outright.
func (r *Region) loadSlots(raw []byte) error {
	pad := func(buf []byte, n int) []byte {
		if len(buf) >= n {
			return buf
		}
		out := make([]byte, n)
		copy(out, buf)
		return out
	}
	raw = pad(raw, headerSectors*sectorSize)

	locTable := raw[:sectorSize]
	tsTable := raw[sectorSize : 2*sectorSize]

	for i := 0; i < slotCount; i++ {
		entry := locTable[i*4 : i*4+4]
		offset, err := endian.BU24(entry)
		if err != nil {
			return fmt.Errorf("region: %w", err)
		}
		length := entry[3]
		ts, err := endian.BU32(tsTable[i*4 : i*4+4])
		if err != nil {
			return fmt.Errorf("region: %w", err)
		}

		if offset == 0 && length == 0 {
			r.slots[i] = slot{empty: true}
			continue
		}

		start := int(offset) * sectorSize
		runBytes := int(length) * sectorSize
		raw = pad(raw, start+runBytes)
		run := raw[start : start+runBytes]

		for s := 0; s < int(length); s++ {
			sector := uint(offset) + uint(s)
			if r.used.Test(sector) {
				diagf("overlapping sector %d claimed by slot %d", sector, i)
			}
			r.used.Set(sector)
		}

		payloadLen, err := endian.BU32(run[:4])
		if err != nil {
			return fmt.Errorf("region: %w", err)
		}
		compression := Compression(run[4])

		end := chunkHeaderSize + int(payloadLen)
		if end > len(run) {
			diagf("slot %d payload length %d exceeds its %d allotted sectors", i, payloadLen, length)
			end = len(run)
		}

		r.slots[i] = slot{
			offset:      offset,
			sectorCount: length,
			timestamp:   ts,
			compression: compression,
			payload:     run[chunkHeaderSize:end],
		}
	}
	return nil
}

// Close releases the region's in-memory view and discards any pending
// writes that were never flushed.
func (r *Region) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.overrides = nil
	return r.file.Close()
}

// Package cog provides a minimal strip-oriented TIFF reader: just enough
// IFD parsing and strip decoding to hand the lzw package real-world input,
// and to walk decoded strips at arbitrary sample widths with bitio. It is
// not a general TIFF or GeoTIFF library: no tiles, no predictors, no
// JPEG/Deflate compression, no GeoTIFF tags, no image/color output.
package cog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-tiff/lzwcodec/internal/bitio"
	"github.com/go-tiff/lzwcodec/internal/lzw"
)

// Reader provides strip-level access to a TIFF file. The file is
// memory-mapped for lock-free concurrent reads.
type Reader struct {
	data []byte // memory-mapped file contents
	bo   binary.ByteOrder
	ifd  IFD
	path string
}

// Open opens a TIFF file by memory-mapping it and parsing its first IFD.
// Only compression scheme 1 (none) and 5 (LZW) are supported.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := mmapFile(f.Fd(), int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	ifds, bo, err := parseTIFF(bytes.NewReader(data))
	if err != nil {
		munmapFile(data)
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(ifds) == 0 {
		munmapFile(data)
		return nil, fmt.Errorf("%s: no IFDs found", path)
	}

	ifd := ifds[0]
	if ifd.Compression != CompressionNone && ifd.Compression != CompressionLZW {
		munmapFile(data)
		return nil, fmt.Errorf("%s: unsupported compression scheme %d", path, ifd.Compression)
	}
	if len(ifd.StripOffsets) == 0 || len(ifd.StripOffsets) != len(ifd.StripByteCounts) {
		munmapFile(data)
		return nil, fmt.Errorf("%s: missing or mismatched strip offsets/byte counts", path)
	}

	return &Reader{data: data, bo: bo, ifd: ifd, path: path}, nil
}

// Close releases the memory mapping.
func (r *Reader) Close() error {
	return munmapFile(r.data)
}

// IFD returns the parsed image directory.
func (r *Reader) IFD() IFD {
	return r.ifd
}

// NumStrips returns the number of strips in the image.
func (r *Reader) NumStrips() int {
	return r.ifd.NumStrips()
}

// StripRowRange returns the first row and row count covered by strip i.
func (r *Reader) StripRowRange(i int) (start, count uint32) {
	return r.ifd.StripRowRange(i)
}

// bitsPerSample returns the bit depth shared by all samples; TIFF allows a
// per-sample BitsPerSample array but mixed-width pixels are out of scope.
func (r *Reader) bitsPerSample() int {
	if len(r.ifd.BitsPerSample) == 0 {
		return 8
	}
	return int(r.ifd.BitsPerSample[0])
}

// stripDecodedLen returns the expected decompressed byte length of strip i,
// rounding each row up to a whole byte the way TIFF packs sub-byte samples.
func (r *Reader) stripDecodedLen(i int) int {
	_, rows := r.StripRowRange(i)
	bitsPerRow := uint64(r.ifd.Width) * uint64(r.ifd.SamplesPerPixel) * uint64(r.bitsPerSample())
	bytesPerRow := (bitsPerRow + 7) / 8
	return int(uint64(rows) * bytesPerRow)
}

// ReadStrip returns strip i, decompressed if necessary.
func (r *Reader) ReadStrip(i int) ([]byte, error) {
	if i < 0 || i >= r.ifd.NumStrips() {
		return nil, fmt.Errorf("cog: strip index %d out of range [0,%d)", i, r.ifd.NumStrips())
	}

	off := r.ifd.StripOffsets[i]
	n := r.ifd.StripByteCounts[i]
	if off+n > uint64(len(r.data)) {
		return nil, fmt.Errorf("cog: strip %d extends past end of file", i)
	}
	raw := r.data[off : off+n]

	switch r.ifd.Compression {
	case CompressionNone:
		return raw, nil
	case CompressionLZW:
		out, err := lzw.Decode(raw, r.stripDecodedLen(i))
		if err != nil {
			return nil, fmt.Errorf("cog: decoding strip %d: %w", i, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cog: unsupported compression scheme %d", r.ifd.Compression)
	}
}

// Samples decodes strip i and unpacks it into one uint64 per sample, using
// bitio.GetWord at the image's bit depth — the concrete exercise of the
// bit/word accessor against sub-byte (1/4/12-bit) TIFF sample widths.
func (r *Reader) Samples(i int) ([]uint64, error) {
	data, err := r.ReadStrip(i)
	if err != nil {
		return nil, err
	}

	width := r.bitsPerSample()
	_, rows := r.StripRowRange(i)
	perRow := int(r.ifd.Width) * int(r.ifd.SamplesPerPixel)
	rowBits := (perRow*width + 7) / 8 * 8 // each row starts on a byte boundary
	count := int(rows) * perRow

	samples := make([]uint64, count)
	bit := 0
	for k := 0; k < count; k++ {
		if k%perRow == 0 {
			bit = (k / perRow) * rowBits
		}
		v, next, err := bitio.GetWord(data, bit, width)
		if err != nil {
			return nil, fmt.Errorf("cog: unpacking sample %d of strip %d: %w", k, i, err)
		}
		samples[k] = v
		bit = next
	}
	return samples, nil
}

// IFDParams describes the geometry of a strip passed to Encode. Encode
// does not read it: the rows must already be packed. It is not a full IFD
// writer.
type IFDParams struct {
	Width           uint32
	SamplesPerPixel uint16
	BitsPerSample   uint16
}

// Encode compresses rows (one []byte per image row, already packed at
// BitsPerSample) as a single TIFF-LZW strip. It is used by the tests; it
// does not write a full TIFF file.
func Encode(ifd IFDParams, rows [][]byte) ([]byte, error) {
	var raw []byte
	for _, row := range rows {
		raw = append(raw, row...)
	}
	return lzw.Encode(raw)
}

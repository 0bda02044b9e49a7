package lzw

import "bytes"

// Decode decompresses a single TIFF-LZW compressed strip. outLen is an
// upper bound on the decompressed length (TIFF callers pass the strip's
// geometric row/byte-count upper bound); the returned slice is truncated
// to the actual decoded length. It decodes in one call; callers that need
// bounded-memory, multi-call decoding should use Decoder directly.
func Decode(compressed []byte, outLen int) ([]byte, error) {
	out := make([]byte, outLen)
	d := NewDecoder()
	if err := d.PreDecode(compressed); err != nil {
		return nil, err
	}
	residue, err := d.Decode(out)
	if err != nil {
		return nil, err
	}
	return out[:outLen-residue], nil
}

// Encode compresses data as a single TIFF-LZW strip.
func Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder()
	e.PreEncode()
	if err := e.Encode(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package lzw

import "errors"

// ErrCorrupt is returned when the decoder finds an invalid code, an
// out-of-range dictionary pointer, a zero-length entry, or a prefix chain
// that doesn't terminate — all symptoms of a corrupted or hand-crafted
// stream rather than a bug in a well-formed encoder.
var ErrCorrupt = errors.New("lzw: corrupt stream")

// ErrOldStyle is returned when the stream signature indicates the
// pre-Aldus bit-reversed LZW variant, which this package does not decode.
var ErrOldStyle = errors.New("lzw: old-style bit-reversed LZW not supported")

// ErrOutOfMemory is returned when the decoder or encoder dictionary could
// not be allocated.
var ErrOutOfMemory = errors.New("lzw: out of memory")

// Package lzw implements the TIFF Revision 5 / Aldus variant of
// Lempel-Ziv-Welch compression used to store TIFF image strips.
//
// TIFF's LZW differs from the GIF/PDF variant Go's compress/lzw implements
// in two ways that make the two incompatible: codes are packed MSB-first
// (compress/lzw is LSB-first), and the code width widens one code earlier
// than the textbook algorithm — the "Aldus off-by-one" — because that is
// what every TIFF writer in the wild actually emits. This package speaks
// only that variant.
package lzw

const (
	bitsMin  = 9                // starting code width
	bitsMax  = 12                // maximum code width
	codeClear = 256              // resets the dictionary
	codeEOI   = 257              // end of information
	codeFirst = 258              // first code available for the dictionary
	codeMax   = (1 << bitsMax) - 1 // 4095

	// hashSize is the encoder's open-addressing hash table size, sized for
	// ~91% peak occupancy against codeMax entries.
	hashSize = 9001
	// hashShift mixes the prefix code and next byte into a hash index.
	hashShift = 13 - 8

	// checkGap is the number of input bytes between compression-ratio checks.
	checkGap = 10000

	// csize is the decoder dictionary's capacity: one entry per possible code.
	csize = codeMax + 1

	// maxChunk bounds the encoder's internal output buffer before it is
	// flushed to the caller's sink.
	maxChunk = 1 << 20
)

func maxCode(nbits int) int {
	return (1 << uint(nbits)) - 1
}

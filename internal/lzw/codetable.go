package lzw

// none is the sentinel "no entry" index, used where the C original used a
// NULL code_t* (the root entries' prefix, and the decoder's "before the
// first strip" oldcode).
const none = -1

// codeEntry is one slot of the decoder's dictionary: a prefix-linked string
// ending in value, cached with firstchar so a new entry can be built in
// O(1). prev is an index into codeTable.entries, or none for the 256 root
// entries (one per possible input byte).
type codeEntry struct {
	prev      int32
	length    uint16
	value     byte
	firstchar byte
}

// codeTable is the decoder's dictionary: an arena of csize entries indexed
// by code, replacing the original's array of code_t pointers with plain
// integer indices (spec's "arena of CodeEntry with integer indices" design
// note) — no pointer bounds math, trivially resettable.
type codeTable struct {
	entries [csize]codeEntry
}

// newCodeTable allocates a table and seeds the 256 root entries. This runs
// once per codec instance; resetDynamic clears only the dynamic region on
// every subsequent strip.
func newCodeTable() *codeTable {
	t := &codeTable{}
	for c := 0; c < 256; c++ {
		t.entries[c] = codeEntry{prev: none, length: 1, value: byte(c), firstchar: byte(c)}
	}
	return t
}

// resetDynamic zeroes the entries above the root range: codes [codeClear,
// csize). This guards against bogus input indexing into undefined entries,
// exactly as the original's PreDecode/CODE_CLEAR handling does.
func (t *codeTable) resetDynamic() {
	clear(t.entries[codeClear:])
}

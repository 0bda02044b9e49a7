package lzw

// hashEntry is one slot of the encoder's open-addressing hash table. hash
// packs the (prefix code, next byte) pair that produced code; an empty
// slot has hash == -1.
type hashEntry struct {
	hash int32
	code int32
}

// hashTable is the encoder's string table: instead of a prefix-linked
// dictionary it maps (oldcode, c) pairs directly to the code that already
// represents that string, via double hashing. Grounded on the original's
// hash_t table and cross-checked against the independent GIF-LZW port in
// the example pack, which uses the same probe arithmetic.
type hashTable struct {
	entries [hashSize]hashEntry
}

func newHashTable() *hashTable {
	t := &hashTable{}
	t.clear()
	return t
}

// clear empties every slot. Called once at allocation and again every time
// the encoder resets its dictionary (CODE_CLEAR or table-full).
func (t *hashTable) clear() {
	for i := range t.entries {
		t.entries[i].hash = -1
	}
}

// fcode packs a prefix code and the next literal byte into the table's key
// space, mirroring the original's "(code<<BITS_MAX)|oldcode" packing.
func fcode(oldcode, c int) int32 {
	return int32(c)<<bitsMax | int32(oldcode)
}

// lookup searches for fc, returning (code, slot, true) on a hit or
// (-1, slot, false) on a miss, where slot is the empty slot the probe
// reached and a caller can pass to insert.
func (t *hashTable) lookup(fc int32, oldcode int) (code int, slot int, found bool) {
	h := (int(fc>>bitsMax) << hashShift) ^ oldcode
	h %= hashSize
	if h < 0 {
		h += hashSize
	}

	disp := hashSize - h
	if h == 0 {
		disp = 1
	}

	for {
		e := &t.entries[h]
		if e.hash < 0 {
			return -1, h, false
		}
		if e.hash == fc {
			return int(e.code), h, true
		}
		h -= disp
		if h < 0 {
			h += hashSize
		}
	}
}

// insert records fc -> code at slot (as returned by a prior miss from lookup).
func (t *hashTable) insert(slot int, fc int32, code int) {
	t.entries[slot] = hashEntry{hash: fc, code: int32(code)}
}

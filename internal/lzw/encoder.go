package lzw

import "io"

// Encoder holds one TIFF-LZW encode session's hash table and bit-stream
// state, plus a bounded internal output buffer that is flushed to a sink
// in chunks rather than grown to hold an entire strip at once.
type Encoder struct {
	hash *hashTable
	bw   bitWriter

	nbits   int
	maxcode int
	freeEnt int
	oldcode int // none before the first input byte

	incount    int64
	outcount   int64
	checkpoint int64
	ratio      int64

	buf []byte // scratch output buffer, flushed at maxChunk
	pos int
}

// NewEncoder allocates an encoder and its hash table. The hash table is
// reused across strips; call PreEncode before each one.
func NewEncoder() *Encoder {
	return &Encoder{hash: newHashTable(), buf: make([]byte, maxChunk+4)}
}

// PreEncode resets the hash table and bit-stream state for a new strip.
func (e *Encoder) PreEncode() {
	e.hash.clear()
	e.nbits = bitsMin
	e.maxcode = maxCode(bitsMin)
	e.freeEnt = codeFirst
	e.oldcode = none
	e.bw = bitWriter{}
	e.incount = 0
	e.outcount = 0
	e.checkpoint = checkGap
	e.ratio = 0
	e.pos = 0
}

// rawlimit is the point in buf beyond which a put (up to 2 bytes) could
// overrun; past it the buffer must be flushed first.
func (e *Encoder) rawlimit() int {
	return len(e.buf) - 4
}

func (e *Encoder) putCode(w io.Writer, code int) error {
	if e.pos >= e.rawlimit() {
		if err := e.flushChunk(w); err != nil {
			return err
		}
	}
	e.pos = e.bw.put(e.buf, e.pos, e.nbits, code)
	e.outcount += int64(e.nbits)
	return nil
}

func (e *Encoder) flushChunk(w io.Writer) error {
	if e.pos == 0 {
		return nil
	}
	if _, err := w.Write(e.buf[:e.pos]); err != nil {
		return err
	}
	e.pos = 0
	return nil
}

// clearDict emits CODE_CLEAR and resets the dictionary, used both for the
// stream-opening clear and for a ratio- or table-triggered reset mid-strip.
func (e *Encoder) clearDict(w io.Writer) error {
	if err := e.putCode(w, codeClear); err != nil {
		return err
	}
	e.hash.clear()
	e.freeEnt = codeFirst
	e.nbits = bitsMin
	e.maxcode = maxCode(bitsMin)
	e.ratio = 0
	e.incount = 0
	e.outcount = 0
	e.checkpoint = checkGap
	return nil
}

// checkRatio implements CALCRATIO: every checkGap input bytes, compare the
// running compression ratio (input bytes per output bit, scaled by 256)
// against its previous best. outcount accumulates nbits for every code
// emitted, CODE_CLEAR and CODE_EOI included, exactly as the original's
// PutNextCode does. A ratio that has stopped improving means the dictionary
// has saturated with patterns that no longer match the data, so force a
// reset rather than waiting for the table to fill outright. incount and
// outcount are int64 here, so the scaled multiply the original guarded
// against overflowing a 32-bit int never overflows.
func (e *Encoder) checkRatio(w io.Writer) error {
	if e.incount < e.checkpoint {
		return nil
	}
	e.checkpoint = e.incount + checkGap
	if e.outcount == 0 {
		return nil
	}
	rat := (e.incount << 8) / e.outcount
	if rat <= e.ratio {
		return e.clearDict(w)
	}
	e.ratio = rat
	return nil
}

// Encode compresses data and writes the result to w, preceded by the
// stream-opening CODE_CLEAR and terminated with CODE_EOI. Encode may be
// called only once per PreEncode.
func (e *Encoder) Encode(w io.Writer, data []byte) error {
	if err := e.clearDict(w); err != nil {
		return err
	}

	for _, c := range data {
		e.incount++
		if e.oldcode == none {
			e.oldcode = int(c)
			continue
		}

		fc := fcode(e.oldcode, int(c))
		code, slot, found := e.hash.lookup(fc, e.oldcode)
		if found {
			e.oldcode = code
			continue
		}

		if err := e.putCode(w, e.oldcode); err != nil {
			return err
		}
		e.hash.insert(slot, fc, e.freeEnt)
		e.freeEnt++

		switch {
		case e.freeEnt == codeMax-1:
			if err := e.clearDict(w); err != nil {
				return err
			}
		case e.freeEnt > e.maxcode:
			if e.nbits < bitsMax {
				e.nbits++
			}
			e.maxcode = maxCode(e.nbits)
		default:
			if err := e.checkRatio(w); err != nil {
				return err
			}
		}

		e.oldcode = int(c)
	}

	if e.oldcode != none {
		if err := e.putCode(w, e.oldcode); err != nil {
			return err
		}
	}
	if err := e.putCode(w, codeEOI); err != nil {
		return err
	}

	e.pos = e.bw.flush(e.buf, e.pos)
	return e.flushChunk(w)
}

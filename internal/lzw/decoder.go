package lzw

// Decoder holds one TIFF-LZW decode session's dictionary and bit-stream
// state. A Decoder may be reused strip to strip via PreDecode, which is
// cheaper than reallocating the 4096-entry dictionary per strip.
//
// Decode may be called repeatedly with a caller-supplied output buffer
// smaller than the remaining decoded data; a partially-decoded dictionary
// string that doesn't fit is remembered (restart/restartCode) and resumed
// on the next call, exactly as the original library's tif_lzw.c does so
// that TIFF readers can decode strip-by-strip into fixed scanline buffers.
type Decoder struct {
	table *codeTable

	br       *bitReader
	bitsleft int // bits remaining in the input before CODE_EOI must appear

	nbits     int
	nbitsmask int
	maxcode   int // Aldus off-by-one: widen when freeEnt > maxcode, not >=

	oldcode int // index into table.entries, or none before the first code
	freeEnt int // next free dictionary slot

	restart     int // bytes of the pending string already emitted
	restartCode int // index of the pending string's longest entry
}

// NewDecoder allocates a decoder and its dictionary. The dictionary is
// reused across strips; call PreDecode before each one.
func NewDecoder() *Decoder {
	return &Decoder{table: newCodeTable()}
}

// PreDecode resets the dictionary and bit stream for a new compressed
// strip. It must be called before the first Decode call on data and must
// not be called again until that strip's decode is complete.
func (d *Decoder) PreDecode(data []byte) error {
	if len(data) >= 2 && data[0] == 0 && data[1]&1 != 0 {
		return ErrOldStyle
	}

	d.table.resetDynamic()
	d.nbits = bitsMin
	d.nbitsmask = maxCode(bitsMin)
	d.maxcode = d.nbitsmask - 1
	d.oldcode = none
	d.freeEnt = codeFirst
	d.restart = 0
	d.restartCode = none

	d.br = newBitReader(data)
	d.bitsleft = len(data) * 8
	return nil
}

func (d *Decoder) nextCode() int {
	if d.bitsleft < d.nbits {
		return codeEOI
	}
	code := d.br.next(d.nbits)
	d.bitsleft -= d.nbits
	return code
}

// Decode fills out with decompressed bytes, returning the number of bytes
// of out that could not be filled (0 on a fully satisfied call) and any
// error. A non-zero, nil-error return means the strip ended (CODE_EOI)
// before out was filled. Call Decode again with a fresh buffer to resume a
// string that didn't fit in a previous, smaller buffer.
func (d *Decoder) Decode(out []byte) (int, error) {
	occ := len(out)
	op := 0

	if d.restart > 0 {
		consumed, err := d.resume(out, &op, &occ)
		if err != nil {
			return 0, err
		}
		if consumed {
			return occ, nil
		}
	}

	table := d.table.entries[:]

	for occ > 0 {
		code := d.nextCode()
		if code == codeEOI {
			break
		}

		if code == codeClear {
			d.freeEnt = codeFirst
			d.table.resetDynamic()
			d.nbits = bitsMin
			d.nbitsmask = maxCode(bitsMin)
			d.maxcode = d.nbitsmask - 1

			code = d.nextCode()
			if code == codeEOI {
				break
			}
			if code >= codeClear {
				return 0, ErrCorrupt
			}
			out[op] = byte(code)
			op++
			occ--
			d.oldcode = code
			continue
		}

		codep := code
		if d.freeEnt < 0 || d.freeEnt >= csize {
			return 0, ErrCorrupt
		}
		if d.oldcode < 0 || d.oldcode >= csize {
			return 0, ErrCorrupt
		}

		entry := &table[d.freeEnt]
		entry.prev = int32(d.oldcode)
		prev := &table[d.oldcode]
		entry.firstchar = prev.firstchar
		entry.length = prev.length + 1
		if codep < d.freeEnt {
			entry.value = table[codep].firstchar
		} else if codep == d.freeEnt {
			// KwKwK case: the code names the entry being defined right now.
			entry.value = entry.firstchar
		} else {
			return 0, ErrCorrupt
		}

		d.freeEnt++
		if d.freeEnt > d.maxcode {
			if d.nbits < bitsMax {
				d.nbits++
			}
			d.nbitsmask = maxCode(d.nbits)
			d.maxcode = d.nbitsmask - 1
		}
		d.oldcode = codep

		if code >= 256 {
			ce := &table[codep]
			if ce.length == 0 {
				return 0, ErrCorrupt
			}
			if int(ce.length) > occ {
				d.restartCode = codep
				cur := codep
				for int(table[cur].length) > occ {
					cur = int(table[cur].prev)
					if cur < 0 {
						return 0, ErrCorrupt
					}
				}
				d.restart = occ
				tp := op + occ
				for occ > 0 {
					tp--
					out[tp] = table[cur].value
					cur = int(table[cur].prev)
					occ--
					if occ > 0 && cur < 0 {
						return 0, ErrCorrupt
					}
				}
				return occ, nil
			}

			length := int(ce.length)
			tp := op + length
			cp := codep
			for {
				tp--
				out[tp] = table[cp].value
				cp = int(table[cp].prev)
				if cp < 0 || tp <= op {
					break
				}
			}
			if tp > op {
				return 0, ErrCorrupt
			}
			if cp >= 0 {
				return 0, ErrCorrupt
			}
			op += length
			occ -= length
		} else {
			out[op] = byte(code)
			op++
			occ--
		}
	}

	return occ, nil
}

// resume continues writing a dictionary string whose emission was
// interrupted by a too-small output buffer on a previous Decode call. It
// reports whether it alone satisfied this call (true) or only partially
// filled it, in which case the main decode loop in Decode continues reading
// fresh codes into the remainder of out.
func (d *Decoder) resume(out []byte, op, occ *int) (bool, error) {
	table := d.table.entries[:]
	codep := d.restartCode
	if codep < 0 || codep >= csize {
		return false, ErrCorrupt
	}

	residue := int(table[codep].length) - d.restart
	if residue > *occ {
		d.restart += *occ
		cur := codep
		r := residue
		for {
			cur = int(table[cur].prev)
			r--
			if cur < 0 {
				return false, ErrCorrupt
			}
			if !(r > *occ) {
				break
			}
		}
		tp := *occ
		rem := *occ
		for rem > 0 {
			tp--
			out[tp] = table[cur].value
			cur = int(table[cur].prev)
			rem--
			if rem > 0 && cur < 0 {
				return false, ErrCorrupt
			}
		}
		*occ = 0
		return true, nil
	}

	*op += residue
	*occ -= residue
	tp := *op
	cur := codep
	rem := residue
	for {
		tp--
		v := table[cur].value
		cur = int(table[cur].prev)
		out[tp] = v
		rem--
		if rem == 0 {
			break
		}
		if cur < 0 {
			return false, ErrCorrupt
		}
	}
	d.restart = 0
	return false, nil
}

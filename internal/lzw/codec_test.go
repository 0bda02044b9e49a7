package lzw

import (
	"bytes"
	"math/rand"
	"testing"
	"testing/quick"
)

// readCodes unpacks a raw TIFF-LZW stream back into its code sequence,
// independent of codeTable/hashTable, for asserting exact wire content.
func readCodes(t *testing.T, data []byte) []int {
	t.Helper()
	br := newBitReader(data)
	bitsleft := len(data) * 8
	nbits := bitsMin
	maxcode := maxCode(bitsMin)
	freeEnt := codeFirst

	var codes []int
	for {
		if bitsleft < nbits {
			t.Fatalf("ran out of bits before CODE_EOI")
		}
		code := br.next(nbits)
		bitsleft -= nbits
		codes = append(codes, code)
		if code == codeEOI {
			return codes
		}
		if code == codeClear {
			nbits = bitsMin
			maxcode = maxCode(bitsMin)
			freeEnt = codeFirst
			continue
		}
		freeEnt++
		if freeEnt > maxcode {
			if nbits < bitsMax {
				nbits++
			}
			maxcode = maxCode(nbits)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	out, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x80, 0x40, 0x40}
	if !bytes.Equal(out, want) {
		t.Errorf("Encode(nil) = % x, want % x", out, want)
	}

	back, err := Decode(out, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back) != 0 {
		t.Errorf("Decode of empty stream = % x, want empty", back)
	}
}

func TestEncodeSingleByte(t *testing.T) {
	in := []byte{0x41}
	out, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	codes := readCodes(t, out)
	want := []int{codeClear, 0x41, codeEOI}
	if !intsEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}

	back, err := Decode(out, len(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Errorf("Decode = % x, want % x", back, in)
	}
}

func TestEncodeZeroRun(t *testing.T) {
	in := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	out, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	codes := readCodes(t, out)
	// See DESIGN.md: textbook LZW emits 258,259,258 here, not 258,259,260.
	want := []int{codeClear, 0, 258, 259, 258, codeEOI}
	if !intsEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}

	back, err := Decode(out, len(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Errorf("Decode = % x, want % x", back, in)
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRoundTrip(t *testing.T) {
	f := func(data []byte) bool {
		if len(data) > 64*1024 {
			data = data[:64*1024]
		}
		out, err := Encode(data)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(out) > len(data)*2+8 {
			t.Errorf("encoded length %d exceeds raw_len*2+8 = %d", len(out), len(data)*2+8)
		}
		codes := readCodes(t, out)
		if len(codes) < 1 || codes[0] != codeClear {
			t.Errorf("stream does not open with CODE_CLEAR: %v", codes)
		}
		if codes[len(codes)-1] != codeEOI {
			t.Errorf("stream does not close with CODE_EOI: %v", codes)
		}

		back, err := Decode(out, len(data))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		return bytes.Equal(back, data)
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

func TestRoundTripRepetitiveAndRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	cases := [][]byte{
		bytes.Repeat([]byte{0x2a}, 5000),
		bytes.Repeat([]byte{0x00, 0xff}, 3000),
	}
	random := make([]byte, 20000)
	rng.Read(random)
	cases = append(cases, random)

	for i, data := range cases {
		out, err := Encode(data)
		if err != nil {
			t.Fatalf("case %d: Encode: %v", i, err)
		}
		back, err := Decode(out, len(data))
		if err != nil {
			t.Fatalf("case %d: Decode: %v", i, err)
		}
		if !bytes.Equal(back, data) {
			t.Errorf("case %d: round trip mismatch", i)
		}
	}
}

// TestDecodeRestart exercises the decoder's output-buffer restart path: a
// small first buffer forces a dictionary string across the call boundary,
// and the concatenation of both calls must equal the original input. With
// seed 8 a string straddles byte 5000.
func TestDecodeRestart(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	data := make([]byte, 10000)
	rng.Read(data)

	compressed, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := NewDecoder()
	if err := d.PreDecode(compressed); err != nil {
		t.Fatalf("PreDecode: %v", err)
	}

	first := make([]byte, 5000)
	residue, err := d.Decode(first)
	if err != nil {
		t.Fatalf("Decode first half: %v", err)
	}
	if residue != 0 {
		t.Fatalf("first Decode call left residue %d", residue)
	}
	if d.restart == 0 {
		t.Fatalf("first Decode call ended on a string boundary; restart path not exercised")
	}

	second := make([]byte, len(data)-5000)
	residue, err = d.Decode(second)
	if err != nil {
		t.Fatalf("Decode second half: %v", err)
	}
	if residue != 0 {
		t.Fatalf("second Decode call left residue %d", residue)
	}

	got := append(first, second...)
	if !bytes.Equal(got, data) {
		t.Errorf("restart round trip mismatch")
	}
}

func TestDecodeCorruptInput(t *testing.T) {
	bogus := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	d := NewDecoder()
	if err := d.PreDecode(bogus); err != nil {
		if err != ErrOldStyle {
			t.Fatalf("PreDecode: unexpected error %v", err)
		}
		return
	}
	out := make([]byte, 64)
	if _, err := d.Decode(out); err == nil {
		t.Errorf("Decode of garbage input succeeded, want an error")
	}
}

func TestPreDecodeOldStyle(t *testing.T) {
	d := NewDecoder()
	err := d.PreDecode([]byte{0x00, 0x01, 0x02})
	if err != ErrOldStyle {
		t.Errorf("PreDecode old-style signature = %v, want ErrOldStyle", err)
	}
}

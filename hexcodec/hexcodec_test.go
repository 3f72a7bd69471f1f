package hexcodec

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xDE, 0xAD},
		{0xDE, 0xAD, 0xBE},
		{0xDE, 0xAD, 0xBE, 0xEF},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	}
	for _, src := range cases {
		enc := make([]byte, 2*len(src))
		n := Encode(enc, src)
		if n != len(enc) {
			t.Fatalf("Encode(%x) wrote %d bytes, want %d", src, n, len(enc))
		}

		dec := make([]byte, len(src))
		dn, ok := Decode(dec, enc)
		if !ok || dn != len(src) {
			t.Fatalf("Decode(%q) = (%d,%v), want (%d,true)", enc, dn, ok, len(src))
		}
		for i := range src {
			if dec[i] != src[i] {
				t.Fatalf("round trip mismatch at %d: got %x want %x", i, dec[i], src[i])
			}
		}
	}
}

func TestDecodeAcceptsEitherCase(t *testing.T) {
	dst := make([]byte, 2)
	n, ok := Decode(dst, []byte("DeAd"))
	if !ok || n != 2 || dst[0] != 0xDE || dst[1] != 0xAD {
		t.Fatalf("Decode mixed case = (%x,%d,%v)", dst, n, ok)
	}
}

func TestDecodeRejectsNonHex(t *testing.T) {
	dst := make([]byte, 1)
	_, ok := Decode(dst, []byte("zz"))
	if ok {
		t.Fatalf("Decode accepted non-hex input")
	}
}

func TestParseUint32StopsAtEightNibbles(t *testing.T) {
	v, n := ParseUint32([]byte("123456789"))
	if n != 8 || v != 0x12345678 {
		t.Fatalf("ParseUint32 = (%#x,%d), want (0x12345678,8)", v, n)
	}
}

func TestParseUint32StopsAtNonHex(t *testing.T) {
	v, n := ParseUint32([]byte("1a,rest"))
	if n != 2 || v != 0x1a {
		t.Fatalf("ParseUint32 = (%#x,%d), want (0x1a,2)", v, n)
	}
}

package endian

import "testing"

func TestRoundTrip(t *testing.T) {
	var b []byte
	b = PutBU16(b, 0xBEEF)
	b = PutBU24(b, 0x00ABCDEF&0xFFFFFF)
	b = PutBU32(b, 0xDEADBEEF)
	b = PutBU64(b, 0x0123456789ABCDEF)

	got16, err := BU16(b)
	if err != nil || got16 != 0xBEEF {
		t.Fatalf("BU16 = %v, %v", got16, err)
	}
	b = b[2:]

	got24, err := BU24(b)
	if err != nil || got24 != 0xABCDEF {
		t.Fatalf("BU24 = %v, %v", got24, err)
	}
	b = b[3:]

	got32, err := BU32(b)
	if err != nil || got32 != 0xDEADBEEF {
		t.Fatalf("BU32 = %v, %v", got32, err)
	}
	b = b[4:]

	got64, err := BU64(b)
	if err != nil || got64 != 0x0123456789ABCDEF {
		t.Fatalf("BU64 = %v, %v", got64, err)
	}
}

func TestShortBuffer(t *testing.T) {
	if _, err := BU16([]byte{1}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if _, err := BU24([]byte{1, 2}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if _, err := BU32([]byte{1, 2, 3}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if _, err := BU64(make([]byte, 7)); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

package hostproto

import "testing"

func TestPositionRoundTripASCII(t *testing.T) {
	content := "hello\nworld"
	pc := NewPositionConverter(content)

	pos := pc.ByteOffsetToPosition(7)
	if pos.Line != 1 || pos.Character != 1 {
		t.Fatalf("expected {1,1}, got %+v", pos)
	}
	if got := pc.PositionToByteOffset(pos); got != 7 {
		t.Fatalf("expected byte offset 7, got %d", got)
	}
}

func TestPositionSurrogatePair(t *testing.T) {
	// "a" + U+1F600 (encodes as a UTF-16 surrogate pair, 4 bytes in UTF-8).
	content := "a\U0001F600b"
	pc := NewPositionConverter(content)

	// "b" starts after 1 ASCII char + 4 UTF-8 bytes for the emoji.
	bByteOffset := 1 + 4
	pos := pc.ByteOffsetToPosition(int64(bByteOffset))
	// UTF-16: 'a' (1 unit) + surrogate pair (2 units) = character 3.
	if pos.Character != 3 {
		t.Fatalf("expected UTF-16 character offset 3 after a surrogate pair, got %d", pos.Character)
	}
	if got := pc.PositionToByteOffset(pos); got != int64(bByteOffset) {
		t.Fatalf("round trip mismatch: got byte offset %d, want %d", got, bByteOffset)
	}
}

func TestPositionOutOfRangeClamps(t *testing.T) {
	pc := NewPositionConverter("abc")
	if got := pc.PositionToByteOffset(Position{Line: 99, Character: 0}); got != 3 {
		t.Fatalf("expected out-of-range line to clamp to content length, got %d", got)
	}
}

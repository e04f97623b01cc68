package hostproto

import (
	"github.com/ki-editor/ki/internal/selmode"
)

// Position is the wire representation of a location: 0-based line and
// UTF-16 code unit offset within that line (spec §6: "Positions on the
// wire are 0-based {line, character} in UTF-16 code units by default,
// to align with common host editors; the core converts to/from its
// internal grapheme positions at the boundary").
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a wire span between two Positions, end-exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// lineInfo indexes one line of a buffer's content for fast conversion
// between byte offsets and UTF-16 wire positions.
type lineInfo struct {
	byteOffset int
	byteLen    int
}

// PositionConverter converts between selmode.ByteOffset (the core's
// internal grapheme-boundary-respecting offset) and the UTF-16 wire
// Position a host bridge speaks. One converter is built per buffer
// snapshot; it is cheap to discard and rebuild after any edit since the
// line index is a single linear scan.
type PositionConverter struct {
	content string
	lines   []lineInfo
}

// NewPositionConverter builds a converter over content.
func NewPositionConverter(content string) *PositionConverter {
	pc := &PositionConverter{content: content}
	pc.buildLineIndex()
	return pc
}

func (pc *PositionConverter) buildLineIndex() {
	lineStart := 0
	for i := 0; i < len(pc.content); i++ {
		if pc.content[i] == '\n' {
			pc.lines = append(pc.lines, lineInfo{byteOffset: lineStart, byteLen: i - lineStart})
			lineStart = i + 1
		}
	}
	pc.lines = append(pc.lines, lineInfo{byteOffset: lineStart, byteLen: len(pc.content) - lineStart})
}

// ByteOffsetToPosition converts a byte offset to a wire Position.
func (pc *PositionConverter) ByteOffsetToPosition(offset selmode.ByteOffset) Position {
	off := int(offset)
	if off < 0 {
		return Position{}
	}

	lineNum := len(pc.lines) - 1
	for i, line := range pc.lines {
		if off < line.byteOffset+line.byteLen+1 {
			lineNum = i
			break
		}
	}

	line := pc.lines[lineNum]
	charOffset := off - line.byteOffset
	if charOffset < 0 {
		charOffset = 0
	}
	if charOffset > line.byteLen {
		charOffset = line.byteLen
	}

	lineContent := pc.content[line.byteOffset : line.byteOffset+line.byteLen]
	return Position{Line: lineNum, Character: byteToUTF16Offset(lineContent, charOffset)}
}

// PositionToByteOffset converts a wire Position to a byte offset,
// clamping out-of-range lines/characters rather than panicking — a host
// that reports a stale position forces a resync one layer up, it does
// not crash the converter.
func (pc *PositionConverter) PositionToByteOffset(pos Position) selmode.ByteOffset {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(pc.lines) {
		return selmode.ByteOffset(len(pc.content))
	}

	line := pc.lines[pos.Line]
	lineContent := pc.content[line.byteOffset : line.byteOffset+line.byteLen]
	return selmode.ByteOffset(line.byteOffset + utf16ToByteOffset(lineContent, pos.Character))
}

// RangeToByteOffsets converts a wire Range to start/end byte offsets.
func (pc *PositionConverter) RangeToByteOffsets(r Range) (start, end selmode.ByteOffset) {
	return pc.PositionToByteOffset(r.Start), pc.PositionToByteOffset(r.End)
}

// ByteOffsetsToRange converts start/end byte offsets to a wire Range.
func (pc *PositionConverter) ByteOffsetsToRange(start, end selmode.ByteOffset) Range {
	return Range{Start: pc.ByteOffsetToPosition(start), End: pc.ByteOffsetToPosition(end)}
}

func utf16LenForString(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return count
}

func byteToUTF16Offset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= len(s) {
		return utf16LenForString(s)
	}
	off := 0
	for i, r := range s {
		if i >= byteOff {
			break
		}
		if r >= 0x10000 {
			off += 2
		} else {
			off++
		}
	}
	return off
}

func utf16ToByteOffset(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}
	count := 0
	for i, r := range s {
		if count >= utf16Off {
			return i
		}
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return len(s)
}

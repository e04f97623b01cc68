package buffer

import (
	"github.com/rivo/uniseg"

	"github.com/ki-editor/ki/internal/rope"
)

// GraphemePosition is a user-visible line/column position, where Column
// counts grapheme clusters (not bytes, not runes) from the start of the
// line. This is the Position type the editing core's Selection and
// Selection Mode machinery operate on; byte-column Position (see
// position.go) stays an internal/tree-sitter-facing concern.
type GraphemePosition struct {
	Line   uint32
	Column uint32
}

// OffsetToGraphemePosition converts a byte offset into a line/grapheme-column
// position.
func (b *Buffer) OffsetToGraphemePosition(offset ByteOffset) GraphemePosition {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bp := b.rope.OffsetToPosition(rope.ByteOffset(offset))
	lineStart := b.rope.LineStartOffset(bp.Line)
	lineText := b.rope.Slice(lineStart, rope.ByteOffset(offset))
	return GraphemePosition{Line: bp.Line, Column: uint32(countGraphemes(lineText))}
}

// GraphemePositionToOffset converts a line/grapheme-column position back to
// a byte offset. Columns past the end of the line clamp to the line's
// (newline-exclusive) end; lines past the end of the buffer clamp to the
// last line.
func (b *Buffer) GraphemePositionToOffset(pos GraphemePosition) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lineCount := b.rope.LineCount()
	line := pos.Line
	if line >= lineCount {
		line = lineCount - 1
	}
	lineStart := b.rope.LineStartOffset(line)
	lineEnd := b.rope.LineEndOffset(line)
	lineText := b.rope.Slice(lineStart, lineEnd)

	remaining := int(pos.Column)
	byteOff := 0
	gr := uniseg.NewGraphemes(lineText)
	for remaining > 0 && gr.Next() {
		_, to := gr.Positions()
		byteOff = to
		remaining--
	}
	return ByteOffset(lineStart) + ByteOffset(byteOff)
}

// GraphemeColumnWidth returns the number of grapheme clusters on the given
// line; useful for clamping a column to the line's visible extent.
func (b *Buffer) GraphemeColumnWidth(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lineStart := b.rope.LineStartOffset(line)
	lineEnd := b.rope.LineEndOffset(line)
	return countGraphemes(b.rope.Slice(lineStart, lineEnd))
}

func countGraphemes(s string) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		n++
	}
	return n
}

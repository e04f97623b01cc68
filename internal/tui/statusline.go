package tui

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ki-editor/ki/internal/editor"
)

// utf16Encoder is reused across status line redraws; it holds no
// per-call state transform.String doesn't already reset.
var utf16Encoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// utf16Column reports the primary cursor's column as both a byte
// offset and a UTF-16 code unit count — the latter using
// golang.org/x/text/encoding/unicode rather than internal/hostproto's
// hand-rolled rune-width loop, since the status line is a display
// concern with no latency budget and the point here is exercising the
// library a host-facing wire format would also reach for (spec §6:
// "Positions on the wire are ... UTF-16 code units").
func utf16Column(lineText string, byteCol int) (byteCount, utf16Count int, err error) {
	if byteCol > len(lineText) {
		byteCol = len(lineText)
	}
	encoded, _, err := transform.String(utf16Encoder, lineText[:byteCol])
	if err != nil {
		return byteCol, 0, fmt.Errorf("tui: utf16 column: %w", err)
	}
	return byteCol, len(encoded) / 2, nil
}

// statusLine renders the status bar text for ed's primary cursor.
func statusLine(ed *editor.Editor) string {
	primary := ed.Selections().Primary()
	pos := ed.Buffer().OffsetToPosition(primary.Active())
	lineText := ed.Buffer().LineText(pos.Line)

	byteCol, utf16Col, err := utf16Column(lineText, int(pos.Column))
	if err != nil {
		return fmt.Sprintf("Ln %d, Col %d", pos.Line+1, pos.Column+1)
	}

	mode := "NORMAL"
	if ed.Mode() == editor.ModeInsert {
		mode = "INSERT"
	}
	return fmt.Sprintf("%s  Ln %d, Col %d (byte col %d)  %d selection(s)",
		mode, pos.Line+1, utf16Col+1, byteCol+1, ed.Selections().Count())
}

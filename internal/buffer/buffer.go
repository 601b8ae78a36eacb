// Package buffer accumulates block text while tracking range offsets.
package buffer

import "github.com/riverfjs/draftexport/internal/util"

// TextBuffer accumulates the text of one block and tracks the current offset
// in the configured unit.
type TextBuffer struct {
	parts  []string
	unit   util.Unit
	offset int
}

// New creates a new TextBuffer counting offsets in unit.
func New(unit util.Unit) *TextBuffer {
	return &TextBuffer{
		parts: make([]string, 0),
		unit:  unit,
	}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.offset += util.Len(text, tb.unit)
}

// Offset returns the current offset.
func (tb *TextBuffer) Offset() int {
	return tb.offset
}

// ByteLen returns the current byte length.
func (tb *TextBuffer) ByteLen() int {
	total := 0
	for _, p := range tb.parts {
		total += len(p)
	}
	return total
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	if len(tb.parts) == 0 {
		return ""
	}
	result := make([]byte, 0, tb.ByteLen())
	for _, p := range tb.parts {
		result = append(result, p...)
	}
	return string(result)
}

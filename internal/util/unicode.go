package util

import "unicode/utf8"

// Unit 决定 range offset/length 的计量单位
type Unit int

const (
	// CodePoints counts Unicode code points (runes).
	CodePoints Unit = iota
	// UTF16 counts UTF-16 code units: characters outside the BMP take 2.
	UTF16
)

// String returns the string representation of Unit.
func (u Unit) String() string {
	switch u {
	case CodePoints:
		return "codepoints"
	case UTF16:
		return "utf16"
	default:
		return "unknown"
	}
}

// UTF16Len returns the length of text measured in UTF-16 code units.
func UTF16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// Len returns the length of text in the given unit.
func Len(text string, unit Unit) int {
	if unit == UTF16 {
		return UTF16Len(text)
	}
	return utf8.RuneCountInString(text)
}

// OffsetTable maps unit offsets of a text to byte positions.
//
// table[i] is the byte position of unit offset i; the final entry equals len(text).
// For UTF-16, the second unit of a surrogate pair maps to the byte position
// just after the character so a range can never split a rune.
type OffsetTable struct {
	text  string
	bytes []int
}

// NewOffsetTable builds the unit → byte table for text.
func NewOffsetTable(text string, unit Unit) *OffsetTable {
	positions := make([]int, 0, len(text)+1)
	bytePos := 0
	for _, r := range text {
		positions = append(positions, bytePos)
		size := utf8.RuneLen(r)
		if size < 0 {
			size = 1
		}
		bytePos += size
		if unit == UTF16 && r > 0xFFFF {
			positions = append(positions, bytePos)
		}
	}
	positions = append(positions, len(text))
	return &OffsetTable{text: text, bytes: positions}
}

// Len returns the text length in units.
func (t *OffsetTable) Len() int {
	return len(t.bytes) - 1
}

// Clamp restricts an offset to [0, Len()].
func (t *OffsetTable) Clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > t.Len() {
		return t.Len()
	}
	return offset
}

// Byte returns the byte position for a unit offset, clamped.
func (t *OffsetTable) Byte(offset int) int {
	return t.bytes[t.Clamp(offset)]
}

// Slice returns text[start:end) where start and end are unit offsets.
// Reversed or out-of-range bounds yield an empty or clamped slice.
func (t *OffsetTable) Slice(start, end int) string {
	from, to := t.Byte(start), t.Byte(end)
	if to <= from {
		return ""
	}
	return t.text[from:to]
}

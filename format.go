// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

// Alignment is a paragraph alignment.
type Alignment uint8

const (
	// AlignLeft aligns to the left edge.
	AlignLeft Alignment = iota
	// AlignCenter centers the paragraph.
	AlignCenter
	// AlignRight aligns to the right edge.
	AlignRight
	// AlignJustify justifies both edges.
	AlignJustify
)

// String returns the name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	}
	return "unknown"
}

// LineSpacing is a paragraph line spacing mode.
type LineSpacing uint8

const (
	// LineSpacingSingle is the default automatic spacing.
	LineSpacingSingle LineSpacing = iota
	// LineSpacingExact is an exact height in twips (\sl with a
	// negative or positive parameter, \slmult0).
	LineSpacingExact
	// LineSpacingMultiple is a multiple of single spacing (\slmult1).
	LineSpacingMultiple
)

// CharFormat is the character-level formatting carried by every text
// run. The Has* flags distinguish "unset" from a zero id.
type CharFormat struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Superscript   bool `json:"superscript,omitempty"`
	Subscript     bool `json:"subscript,omitempty"`
	SmallCaps     bool `json:"smallcaps,omitempty"`
	AllCaps       bool `json:"allcaps,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`

	FontID      int16 `json:"font_id,omitempty"`
	HasFont     bool  `json:"-"`
	FontSize    int16 `json:"font_size,omitempty"` // half-points
	HasFontSize bool  `json:"-"`
	ColorID     int16 `json:"color_id,omitempty"`
	HasColor    bool  `json:"-"`
	BackColorID int16 `json:"back_color_id,omitempty"`
	HasBack     bool  `json:"-"`
}

// clearToggles resets the boolean toggles. Font, size and colors are
// kept; \plain leaves them alone (see DESIGN.md).
func (cf *CharFormat) clearToggles() {
	cf.Bold = false
	cf.Italic = false
	cf.Underline = false
	cf.Strikethrough = false
	cf.Superscript = false
	cf.Subscript = false
	cf.SmallCaps = false
	cf.AllCaps = false
	cf.Hidden = false
}

// ParaFormat is the paragraph-level formatting.
type ParaFormat struct {
	Alignment       Alignment   `json:"alignment"`
	LeftIndent      int32       `json:"left_indent,omitempty"`  // twips
	RightIndent     int32       `json:"right_indent,omitempty"` // twips
	FirstLineIndent int32       `json:"first_indent,omitempty"` // twips
	SpaceBefore     uint32      `json:"space_before,omitempty"` // twips
	SpaceAfter      uint32      `json:"space_after,omitempty"`  // twips
	Spacing         LineSpacing `json:"line_spacing,omitempty"`
	InTable         bool        `json:"in_table,omitempty"`
}

// FormatState is the live formatting pair. Every group start pushes a
// snapshot, every group end pops it; this is the sole mechanism by
// which formatting is scoped.
type FormatState struct {
	Char CharFormat
	Para ParaFormat
}

// Charset is the document character set announced in the header.
type Charset uint8

const (
	// CharsetANSI is \ansi, the default.
	CharsetANSI Charset = iota
	// CharsetMac is \mac.
	CharsetMac
	// CharsetPC is \pc, code page 437.
	CharsetPC
	// CharsetPCA is \pca, code page 850.
	CharsetPCA
	// CharsetANSICPG is \ansicpg with an explicit code page.
	CharsetANSICPG
)

// Destination identifies the named RTF region the parser is inside.
type Destination uint8

const (
	// DestNone is the ordinary text flow.
	DestNone Destination = iota
	DestFontTable
	DestColorTable
	DestStylesheet
	DestInfo
	DestPict
	DestField
	DestFldInst
	DestFldRslt
	DestObject
	DestHeader
	DestFooter
	DestFootnote
	DestSkip
)

// parserState is the per-group parser state. It embeds the format
// state so one snapshot stack covers both.
type parserState struct {
	format   FormatState
	charset  Charset
	codePage int
	ucSkip   int
	dest     Destination
}

func defaultParserState() parserState {
	return parserState{
		codePage: defaultCodePage,
		ucSkip:   1,
	}
}

// emitsText reports whether literal text in this destination reaches
// the consumer as document text.
func (d Destination) emitsText() bool {
	switch d {
	case DestNone, DestFldRslt:
		return true
	}
	return false
}

// captures reports whether the builder receives the destination's raw
// contents for structured capture.
func (d Destination) captures() bool {
	switch d {
	case DestFontTable, DestColorTable, DestPict, DestFldInst, DestObject:
		return true
	}
	return false
}

// binaryStream reports whether the destination's content is a raw
// payload stream (hex pairs or \bin data) rather than document text.
func (d Destination) binaryStream() bool {
	return d == DestPict || d == DestObject
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"bytes"
	"strings"
)

// pictState accumulates one \pict destination.
type pictState struct {
	format     ImageFormat
	width      int32
	height     int32
	widthGoal  int32
	heightGoal int32
	data       []byte
	nibble     byte
	haveNibble bool
}

// destinationText routes raw destination content to the sub-parser
// for the destination it belongs to.
func (b *DocumentBuilder) destinationText(dest Destination, text []byte) {
	switch dest {
	case DestFontTable:
		b.fontTableText(text)
	case DestColorTable:
		b.colorTableText(text)
	case DestPict:
		b.pictHex(text)
	case DestFldInst:
		b.instBuf = append(b.instBuf, text...)
	case DestObject:
		// captured for event consumers; embedded objects render as
		// empty text and have no document element
	}
}

// fontTableWord handles control words inside \fonttbl. A font entry
// is introduced by \fN and terminated by ';' in the entry text.
func (b *DocumentBuilder) fontTableWord(name string, param int32, hasParam bool) {
	switch name {
	case "f":
		if hasParam {
			b.finalizeFont()
			b.curFont = &FontInfo{ID: int(param)}
		}
	case "fnil", "fdontcare":
		if b.curFont != nil {
			b.curFont.Family = FamilyDontCare
		}
	case "froman":
		if b.curFont != nil {
			b.curFont.Family = FamilyRoman
		}
	case "fswiss":
		if b.curFont != nil {
			b.curFont.Family = FamilySwiss
		}
	case "fmodern":
		if b.curFont != nil {
			b.curFont.Family = FamilyModern
		}
	case "fscript":
		if b.curFont != nil {
			b.curFont.Family = FamilyScript
		}
	case "fdecor":
		if b.curFont != nil {
			b.curFont.Family = FamilyDecorative
		}
	case "fcharset":
		if b.curFont != nil && hasParam {
			b.curFont.Charset = byte(param)
		}
	}
}

func (b *DocumentBuilder) fontTableText(text []byte) {
	for _, c := range text {
		if c == ';' {
			b.finalizeFont()
			continue
		}
		if b.curFont != nil {
			b.fontName = append(b.fontName, c)
		}
	}
}

// finalizeFont commits the pending font entry, trimming leading and
// trailing whitespace from the name. A no-op when no entry is open.
func (b *DocumentBuilder) finalizeFont() {
	if b.curFont == nil {
		return
	}
	name := strings.TrimSpace(string(b.fontName))
	b.curFont.Name = b.doc.arena.internString([]byte(name))
	b.doc.Fonts = append(b.doc.Fonts, *b.curFont)
	b.curFont = nil
	b.fontName = b.fontName[:0]
}

// colorTableWord accumulates the components of the current color
// definition.
func (b *DocumentBuilder) colorTableWord(name string, param int32) {
	v := int(param)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	switch name {
	case "red":
		b.colR = v
	case "green":
		b.colG = v
	case "blue":
		b.colB = v
	}
}

// colorTableText finalizes one color per ';'. The first entry is the
// auto color (id 0) even when empty.
func (b *DocumentBuilder) colorTableText(text []byte) {
	for _, c := range text {
		if c != ';' {
			continue
		}
		col := ColorInfo{ID: b.colorIdx}
		if b.colR >= 0 {
			col.R = uint8(b.colR)
		}
		if b.colG >= 0 {
			col.G = uint8(b.colG)
		}
		if b.colB >= 0 {
			col.B = uint8(b.colB)
		}
		b.doc.Colors = append(b.doc.Colors, col)
		b.colorIdx++
		b.colR, b.colG, b.colB = -1, -1, -1
	}
}

// pictWord handles control words inside \pict.
func (b *DocumentBuilder) pictWord(name string, param int32) {
	switch name {
	case "picw":
		b.pict.width = param
	case "pich":
		b.pict.height = param
	case "picwgoal":
		b.pict.widthGoal = param
	case "pichgoal":
		b.pict.heightGoal = param
	case "wmetafile":
		b.pict.format = ImageFormatWMF
	case "emfblip":
		b.pict.format = ImageFormatEMF
	case "macpict":
		b.pict.format = ImageFormatPict
	case "jpegblip":
		b.pict.format = ImageFormatJPEG
	case "pngblip":
		b.pict.format = ImageFormatPNG
	}
}

// pictHex decodes the hex-pair payload of a picture destination.
// Whitespace is skipped; anything else that is not a hex digit is
// ignored, which matches how word processors treat damaged payloads.
func (b *DocumentBuilder) pictHex(text []byte) {
	for _, c := range text {
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if !b.pict.haveNibble {
			b.pict.nibble = v
			b.pict.haveNibble = true
			continue
		}
		b.pict.data = append(b.pict.data, b.pict.nibble<<4|v)
		b.pict.haveNibble = false
	}
}

// finalizePict turns the accumulated picture state into an Image, or
// nil when the destination held nothing usable.
func (b *DocumentBuilder) finalizePict() *Image {
	p := b.pict
	b.pict = pictState{}
	if len(p.data) == 0 && p.width == 0 && p.height == 0 {
		return nil
	}
	return &Image{
		Format:     p.format,
		Width:      p.width,
		Height:     p.height,
		WidthGoal:  p.widthGoal,
		HeightGoal: p.heightGoal,
		Data:       b.doc.arena.internBytes(p.data),
	}
}

// finalizeField resolves a closed \field group. A HYPERLINK field
// becomes a Hyperlink element; any other field keeps its result runs
// as ordinary content so the text is not lost.
func (b *DocumentBuilder) finalizeField(link *Hyperlink) {
	url := parseHyperlinkInstruction(b.instBuf)
	b.instBuf = b.instBuf[:0]

	var display strings.Builder
	for _, run := range link.Runs {
		display.WriteString(run.Text)
	}

	if url == "" {
		for _, run := range link.Runs {
			b.appendElement(run)
		}
		return
	}
	link.URL = b.doc.arena.internString([]byte(url))
	link.Display = b.doc.arena.internString([]byte(display.String()))
	for _, run := range link.Runs {
		run.Link = link.URL
	}
	b.appendElement(link)
}

// parseHyperlinkInstruction extracts the target from a field
// instruction like `HYPERLINK "https://example.com" \l anchor`.
func parseHyperlinkInstruction(inst []byte) string {
	i := bytes.Index(inst, []byte("HYPERLINK"))
	if i < 0 {
		return ""
	}
	rest := bytes.TrimSpace(inst[i+len("HYPERLINK"):])
	// skip field switches like \l or \t before the target
	for len(rest) > 0 && rest[0] == '\\' {
		j := bytes.IndexByte(rest, ' ')
		if j < 0 {
			return ""
		}
		rest = bytes.TrimSpace(rest[j+1:])
	}
	if len(rest) == 0 {
		return ""
	}
	if rest[0] == '"' {
		if j := bytes.IndexByte(rest[1:], '"'); j >= 0 {
			return string(rest[1 : 1+j])
		}
		return string(rest[1:])
	}
	if j := bytes.IndexByte(rest, ' '); j >= 0 {
		return string(rest[:j])
	}
	return string(rest)
}

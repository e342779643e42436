// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"io"
	"strings"
)

// FontFamily is the generic family of a font table entry.
type FontFamily uint8

const (
	// FamilyDontCare is \fnil or an unspecified family.
	FamilyDontCare FontFamily = iota
	// FamilyRoman is \froman, proportional serif.
	FamilyRoman
	// FamilySwiss is \fswiss, proportional sans serif.
	FamilySwiss
	// FamilyModern is \fmodern, fixed pitch.
	FamilyModern
	// FamilyScript is \fscript.
	FamilyScript
	// FamilyDecorative is \fdecor.
	FamilyDecorative
)

// String returns the name of the family.
func (f FontFamily) String() string {
	switch f {
	case FamilyRoman:
		return "roman"
	case FamilySwiss:
		return "swiss"
	case FamilyModern:
		return "modern"
	case FamilyScript:
		return "script"
	case FamilyDecorative:
		return "decorative"
	}
	return "dontcare"
}

// FontInfo is one font table entry.
type FontInfo struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Family  FontFamily `json:"family"`
	Charset byte       `json:"charset"`
}

// ColorInfo is one color table entry. ID 0 is the auto color.
type ColorInfo struct {
	ID int   `json:"id"`
	R  uint8 `json:"r"`
	G  uint8 `json:"g"`
	B  uint8 `json:"b"`
}

// RGB packs the color as 0xRRGGBB.
func (c ColorInfo) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Document is the root of the parsed tree. All string and byte
// payloads reachable from it live in its arena.
type Document struct {
	Content []ContentElement `json:"content"`
	Fonts   []FontInfo       `json:"fonts,omitempty"`
	Colors  []ColorInfo      `json:"colors,omitempty"`

	// Document defaults from the header.
	Version         int   `json:"rtf_version"`
	DefaultFont     int16 `json:"default_font"`
	DefaultFontSize int16 `json:"default_font_size"` // half-points, 24 = 12pt
	CodePage        int   `json:"code_page"`

	// Diagnostics recorded during a tolerant parse.
	Errors []ParseError `json:"-"`

	arena     arena
	plain     string
	plainDone bool
	flat      []TextRun
}

// newDocument returns a Document carrying the RTF defaults.
func newDocument() *Document {
	return &Document{
		DefaultFontSize: 24,
		CodePage:        defaultCodePage,
	}
}

// Font returns the font table entry with the given id.
func (d *Document) Font(id int) (FontInfo, bool) {
	for _, f := range d.Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return FontInfo{}, false
}

// Color returns the color table entry with the given id. ID 0 is the
// auto color.
func (d *Document) Color(id int) (ColorInfo, bool) {
	for _, c := range d.Colors {
		if c.ID == id {
			return c, true
		}
	}
	return ColorInfo{}, false
}

// FontCount returns the number of font table entries.
func (d *Document) FontCount() int { return len(d.Fonts) }

// ColorCount returns the number of color table entries.
func (d *Document) ColorCount() int { return len(d.Colors) }

// Tables returns the top-level tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, el := range d.Content {
		if t, ok := el.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Table returns the i-th top-level table, nil when out of range.
func (d *Document) Table(i int) *Table {
	tables := d.Tables()
	if i < 0 || i >= len(tables) {
		return nil
	}
	return tables[i]
}

// TableCount returns the number of top-level tables.
func (d *Document) TableCount() int { return len(d.Tables()) }

// Images returns the top-level images in document order.
func (d *Document) Images() []*Image {
	var out []*Image
	for _, el := range d.Content {
		if img, ok := el.(*Image); ok {
			out = append(out, img)
		}
	}
	return out
}

// Image returns the i-th top-level image, nil when out of range.
func (d *Document) Image(i int) *Image {
	images := d.Images()
	if i < 0 || i >= len(images) {
		return nil
	}
	return images[i]
}

// ImageCount returns the number of top-level images.
func (d *Document) ImageCount() int { return len(d.Images()) }

// Hyperlinks returns the top-level hyperlinks in document order.
func (d *Document) Hyperlinks() []*Hyperlink {
	var out []*Hyperlink
	for _, el := range d.Content {
		if h, ok := el.(*Hyperlink); ok {
			out = append(out, h)
		}
	}
	return out
}

// writeElements renders elements as plain text: runs verbatim, "\n\n"
// for paragraph and page breaks, "\n" for line breaks, cells joined
// with "\t" and "\n" after each table row, display text for
// hyperlinks, nothing for images.
func writeElements(w io.Writer, elements []ContentElement) {
	for _, el := range elements {
		switch e := el.(type) {
		case *TextRun:
			io.WriteString(w, e.Text)
		case ParagraphBreak, PageBreak:
			io.WriteString(w, "\n\n")
		case LineBreak:
			io.WriteString(w, "\n")
		case *Table:
			for _, row := range e.Rows {
				for i, cell := range row.Cells {
					if i > 0 {
						io.WriteString(w, "\t")
					}
					writeElements(w, cell.Content)
				}
				io.WriteString(w, "\n")
			}
		case *Hyperlink:
			io.WriteString(w, e.Display)
		case *Image:
			// not rendered
		}
	}
}

// WriteText streams the plain text rendering of the document to w.
func (d *Document) WriteText(w io.Writer) error {
	cw := &countingWriter{w: w}
	writeElements(cw, d.Content)
	return cw.err
}

type countingWriter struct {
	w   io.Writer
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.err = err
	return n, err
}

// PlainText returns the plain text of the whole document, trimmed of
// leading and trailing whitespace. The result is computed once,
// interned into the document arena, and byte-stable across calls.
func (d *Document) PlainText() string {
	if !d.plainDone {
		var sb strings.Builder
		writeElements(&sb, d.Content)
		d.plain = d.arena.internString([]byte(strings.TrimSpace(sb.String())))
		d.plainDone = true
	}
	return d.plain
}

// TextRuns returns every text run in document order, flattened over
// tables and hyperlinks. Hyperlink display runs carry the URL in
// Link. The slice is computed once and cached.
func (d *Document) TextRuns() []TextRun {
	if d.flat == nil {
		d.flat = flattenRuns(nil, d.Content, "")
		if d.flat == nil {
			d.flat = []TextRun{}
		}
	}
	return d.flat
}

func flattenRuns(dst []TextRun, elements []ContentElement, link string) []TextRun {
	for _, el := range elements {
		switch e := el.(type) {
		case *TextRun:
			run := *e
			if run.Link == "" {
				run.Link = link
			}
			dst = append(dst, run)
		case *Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					dst = flattenRuns(dst, cell.Content, link)
				}
			}
		case *Hyperlink:
			for _, run := range e.Runs {
				r := *run
				r.Link = e.URL
				dst = append(dst, r)
			}
		}
	}
	return dst
}

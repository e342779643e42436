// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

// ContentElement is one node of the document tree. The set of
// implementations is closed: TextRun, ParagraphBreak, LineBreak,
// PageBreak, Table, Image and Hyperlink. Children never back-reference
// their parents.
type ContentElement interface {
	isContentElement()
}

// TextRun is a contiguous span of text sharing one character and one
// paragraph format. Link carries the URL when the run sits inside a
// hyperlink.
type TextRun struct {
	Text string     `json:"text"`
	Char CharFormat `json:"char"`
	Para ParaFormat `json:"para"`
	Link string     `json:"link,omitempty"`
}

// ParagraphBreak is \par.
type ParagraphBreak struct{}

// LineBreak is \line.
type LineBreak struct{}

// PageBreak is \page.
type PageBreak struct{}

// TableCell holds the cell contents, its width in twips and border
// flags.
type TableCell struct {
	Content                 []ContentElement `json:"content"`
	Width                   int32            `json:"width"`
	BorderTop, BorderBottom bool
	BorderLeft, BorderRight bool
}

// TableRow is an ordered list of cells plus a height in twips.
type TableRow struct {
	Cells  []*TableCell `json:"cells"`
	Height int32        `json:"height"`
}

// Table is an ordered list of rows.
type Table struct {
	Rows []*TableRow `json:"rows"`
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// CellCount returns the number of cells in row i, 0 when out of range.
func (t *Table) CellCount(i int) int {
	if i < 0 || i >= len(t.Rows) {
		return 0
	}
	return len(t.Rows[i].Cells)
}

// ImageFormat identifies an embedded picture format.
type ImageFormat uint8

const (
	// ImageFormatUnknown is an unrecognized picture type.
	ImageFormatUnknown ImageFormat = iota
	// ImageFormatWMF is \wmetafileN.
	ImageFormatWMF
	// ImageFormatEMF is \emfblip.
	ImageFormatEMF
	// ImageFormatPict is a Macintosh QuickDraw picture.
	ImageFormatPict
	// ImageFormatJPEG is \jpegblip.
	ImageFormatJPEG
	// ImageFormatPNG is \pngblip.
	ImageFormatPNG
)

// String returns the name of the image format.
func (f ImageFormat) String() string {
	switch f {
	case ImageFormatWMF:
		return "wmf"
	case ImageFormatEMF:
		return "emf"
	case ImageFormatPict:
		return "pict"
	case ImageFormatJPEG:
		return "jpeg"
	case ImageFormatPNG:
		return "png"
	}
	return "unknown"
}

// Image is an embedded picture. Width and Height come from \picw and
// \pich (pixels for bitmaps, twips for metafiles); WidthGoal and
// HeightGoal from \picwgoal and \pichgoal are always twips. Data is
// the decoded payload, owned by the document arena.
type Image struct {
	Format     ImageFormat `json:"format"`
	Width      int32       `json:"width"`
	Height     int32       `json:"height"`
	WidthGoal  int32       `json:"width_goal,omitempty"`
	HeightGoal int32       `json:"height_goal,omitempty"`
	Data       []byte      `json:"-"`
}

// Hyperlink is a resolved HYPERLINK field: the target URL, the flat
// display text, and the display runs with their formatting.
type Hyperlink struct {
	URL     string     `json:"url"`
	Display string     `json:"display"`
	Runs    []*TextRun `json:"runs,omitempty"`
}

func (*TextRun) isContentElement()       {}
func (ParagraphBreak) isContentElement() {}
func (LineBreak) isContentElement()      {}
func (PageBreak) isContentElement()      {}
func (*Table) isContentElement()         {}
func (*Image) isContentElement()         {}
func (*Hyperlink) isContentElement()     {}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"bytes"
	"fmt"
)

// Generate re-emits a document as RTF. The output is a best-effort,
// lossy rendition: it round-trips text, character formatting, the
// font and color tables, paragraph breaks, tables, hyperlinks and
// images, but makes no attempt to reproduce the original byte stream.
func Generate(doc *Document) []byte {
	var w bytes.Buffer

	fmt.Fprintf(&w, "{\\rtf1\\ansi\\ansicpg%d\\deff%d", doc.CodePage, doc.DefaultFont)

	if len(doc.Fonts) > 0 {
		w.WriteString("{\\fonttbl")
		for _, f := range doc.Fonts {
			fmt.Fprintf(&w, "{\\f%d\\%s", f.ID, fontFamilyWord(f.Family))
			if f.Charset != 0 {
				fmt.Fprintf(&w, "\\fcharset%d", f.Charset)
			}
			w.WriteString(" ")
			writeEscaped(&w, f.Name)
			w.WriteString(";}")
		}
		w.WriteString("}")
	}

	if len(doc.Colors) > 0 {
		w.WriteString("{\\colortbl")
		for _, c := range doc.Colors {
			if c.ID == 0 {
				w.WriteString(";")
				continue
			}
			fmt.Fprintf(&w, "\\red%d\\green%d\\blue%d;", c.R, c.G, c.B)
		}
		w.WriteString("}")
	}

	w.WriteString(" ")
	generateElements(&w, doc.Content)
	w.WriteString("}")
	return w.Bytes()
}

func fontFamilyWord(f FontFamily) string {
	switch f {
	case FamilyRoman:
		return "froman"
	case FamilySwiss:
		return "fswiss"
	case FamilyModern:
		return "fmodern"
	case FamilyScript:
		return "fscript"
	case FamilyDecorative:
		return "fdecor"
	}
	return "fnil"
}

func generateElements(w *bytes.Buffer, elements []ContentElement) {
	for _, el := range elements {
		switch e := el.(type) {
		case *TextRun:
			generateRun(w, e)
		case ParagraphBreak:
			w.WriteString("\\par ")
		case LineBreak:
			w.WriteString("\\line ")
		case PageBreak:
			w.WriteString("\\page ")
		case *Table:
			generateTable(w, e)
		case *Hyperlink:
			w.WriteString("{\\field{\\*\\fldinst HYPERLINK \"")
			writeEscaped(w, e.URL)
			w.WriteString("\"}{\\fldrslt ")
			for _, run := range e.Runs {
				generateRun(w, run)
			}
			w.WriteString("}}")
		case *Image:
			fmt.Fprintf(w, "{\\pict\\%s\\picw%d\\pich%d ",
				imageFormatWord(e.Format), e.Width, e.Height)
			for _, b := range e.Data {
				fmt.Fprintf(w, "%02x", b)
			}
			w.WriteString("}")
		}
	}
}

func imageFormatWord(f ImageFormat) string {
	switch f {
	case ImageFormatWMF:
		return "wmetafile8"
	case ImageFormatEMF:
		return "emfblip"
	case ImageFormatPict:
		return "macpict"
	case ImageFormatJPEG:
		return "jpegblip"
	}
	return "pngblip"
}

func generateRun(w *bytes.Buffer, run *TextRun) {
	w.WriteString("{")
	mark := w.Len()
	cf := run.Char
	if cf.Bold {
		w.WriteString("\\b")
	}
	if cf.Italic {
		w.WriteString("\\i")
	}
	if cf.Underline {
		w.WriteString("\\ul")
	}
	if cf.Strikethrough {
		w.WriteString("\\strike")
	}
	if cf.Superscript {
		w.WriteString("\\super")
	}
	if cf.Subscript {
		w.WriteString("\\sub")
	}
	if cf.SmallCaps {
		w.WriteString("\\scaps")
	}
	if cf.AllCaps {
		w.WriteString("\\caps")
	}
	if cf.Hidden {
		w.WriteString("\\v")
	}
	if cf.HasFont {
		fmt.Fprintf(w, "\\f%d", cf.FontID)
	}
	if cf.HasFontSize {
		fmt.Fprintf(w, "\\fs%d", cf.FontSize)
	}
	if cf.HasColor {
		fmt.Fprintf(w, "\\cf%d", cf.ColorID)
	}
	if cf.HasBack {
		fmt.Fprintf(w, "\\cb%d", cf.BackColorID)
	}
	switch run.Para.Alignment {
	case AlignCenter:
		w.WriteString("\\qc")
	case AlignRight:
		w.WriteString("\\qr")
	case AlignJustify:
		w.WriteString("\\qj")
	}
	if w.Len() > mark {
		// delimiter after the last control word, consumed on re-parse
		w.WriteString(" ")
	}
	writeEscaped(w, run.Text)
	w.WriteString("}")
}

func generateTable(w *bytes.Buffer, t *Table) {
	for _, row := range t.Rows {
		w.WriteString("\\trowd")
		if row.Height != 0 {
			fmt.Fprintf(w, "\\trrh%d", row.Height)
		}
		var right int32
		for _, cell := range row.Cells {
			right += cell.Width
			fmt.Fprintf(w, "\\cellx%d", right)
		}
		w.WriteString(" ")
		for _, cell := range row.Cells {
			w.WriteString("\\intbl ")
			generateElements(w, cell.Content)
			w.WriteString("\\cell ")
		}
		w.WriteString("\\row ")
	}
	w.WriteString("\\pard ")
}

// writeEscaped writes s with RTF metacharacters escaped, non-ASCII
// as \uN escapes with a '?' fallback, and breaks as their control
// words.
func writeEscaped(w *bytes.Buffer, s string) {
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			w.WriteByte('\\')
			w.WriteByte(byte(r))
		case r == '\n':
			w.WriteString("\\line ")
		case r == '\t':
			w.WriteString("\\tab ")
		case r < 0x80:
			w.WriteByte(byte(r))
		default:
			n := int32(r)
			if n > 32767 {
				n -= 65536
			}
			fmt.Fprintf(w, "\\u%d?", n)
		}
	}
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"strings"
	"testing"
)

func parseString(t *testing.T, in string) *Document {
	t.Helper()
	doc, err := ParseBytes([]byte(in), nil)
	if err != nil {
		t.Fatalf("ParseBytes(%q) failed, reason: %v", in, err)
	}
	return doc
}

func TestPlainTextExtraction(t *testing.T) {

	tests := []struct {
		in  string
		out string
	}{
		{`{\rtf1 Hello World!}`, "Hello World!"},
		{`{\rtf1 Hello \b bold\b0  and \i italic\i0  text!}`,
			"Hello bold and italic text!"},
		{`{\rtf1 First\par Second}`, "First\n\nSecond"},
		{`{\rtf1 First\line Second}`, "First\nSecond"},
		{`{\rtf1 First\page Second}`, "First\n\nSecond"},
		{"{\\rtf1 A\\u8364?B}", "A€B"},
		{`{\rtf1}`, ""},
		{`{\rtf1 tab\tab here}`, "tab\there"},
		{`{\rtf1 em\emdash dash}`, "em—dash"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			doc := parseString(t, tt.in)
			if got := doc.PlainText(); got != tt.out {
				t.Errorf("plain text assertion failed, got %q, want %q",
					got, tt.out)
			}
		})
	}
}

func TestRunFormatting(t *testing.T) {

	doc := parseString(t, `{\rtf1 Hello \b bold\b0  and \i italic\i0  text!}`)
	runs := doc.TextRuns()
	if len(runs) < 3 {
		t.Fatalf("run count assertion failed, got %v, want >= 3", len(runs))
	}

	var sawBold, sawItalic bool
	for _, run := range runs {
		if run.Char.Bold && run.Text == "bold" {
			sawBold = true
		}
		if run.Char.Italic && run.Text == "italic" {
			sawItalic = true
		}
	}
	if !sawBold {
		t.Error("no bold run found")
	}
	if !sawItalic {
		t.Error("no italic run found")
	}

	doc = parseString(t, `{\rtf1 Hello World!}`)
	runs = doc.TextRuns()
	if len(runs) != 1 {
		t.Fatalf("run count assertion failed, got %v, want 1", len(runs))
	}
	if runs[0].Char.Bold {
		t.Error("unformatted run is bold")
	}
}

func TestFontAndColorTables(t *testing.T) {

	doc := parseString(t, `{\rtf1\ansi\deff0 {\fonttbl{\f0\fswiss Arial;}`+
		`{\f1\froman Times;}}{\colortbl;\red255\green0\blue0;} Hi}`)

	if got := doc.PlainText(); got != "Hi" {
		t.Errorf("plain text assertion failed, got %q, want %q", got, "Hi")
	}

	if doc.FontCount() != 2 {
		t.Fatalf("font count assertion failed, got %v, want 2", doc.FontCount())
	}
	font, ok := doc.Font(0)
	if !ok || font.Name != "Arial" || font.Family != FamilySwiss {
		t.Errorf("font(0) assertion failed, got %+v", font)
	}
	font, ok = doc.Font(1)
	if !ok || font.Name != "Times" || font.Family != FamilyRoman {
		t.Errorf("font(1) assertion failed, got %+v", font)
	}
	if _, ok = doc.Font(7); ok {
		t.Error("font(7) resolved an absent id")
	}

	if doc.ColorCount() != 2 {
		t.Fatalf("color count assertion failed, got %v, want 2", doc.ColorCount())
	}
	col, ok := doc.Color(1)
	if !ok || col.RGB() != 0xFF0000 {
		t.Errorf("color(1) assertion failed, got %+v", col)
	}
	auto, ok := doc.Color(0)
	if !ok || auto.RGB() != 0 {
		t.Errorf("color(0) auto assertion failed, got %+v", auto)
	}
}

func TestFontCharset(t *testing.T) {
	doc := parseString(t, `{\rtf1{\fonttbl{\f0\fswiss\fcharset204 Arial;}} x}`)
	font, ok := doc.Font(0)
	if !ok || font.Charset != 204 {
		t.Errorf("charset assertion failed, got %+v", font)
	}
}

func TestBinarySkipped(t *testing.T) {
	doc := parseString(t, "{\\rtf1 Before{\\*\\bin5 XXXXX} After}")
	text := doc.PlainText()
	before := strings.Index(text, "Before")
	after := strings.Index(text, " After")
	if before < 0 || after < 0 || after < before {
		t.Errorf("binary region leaked into text: %q", text)
	}
	if strings.Contains(text, "XXXXX") {
		t.Errorf("binary payload leaked into text: %q", text)
	}
}

const tableRTF = `{\rtf1` +
	`\trowd\cellx1440\cellx2880\cellx4320` +
	`\intbl H1\cell H2\cell H3\cell\row` +
	`\trowd\cellx1440\cellx2880\cellx4320` +
	`\intbl D1\cell D2\cell D3\cell\row\pard after}`

func TestTableAssembly(t *testing.T) {

	doc := parseString(t, tableRTF)

	text := doc.PlainText()
	header := "H1\tH2\tH3"
	data := "D1\tD2\tD3"
	hi := strings.Index(text, header)
	di := strings.Index(text, data)
	if hi < 0 || di < 0 {
		t.Fatalf("table text assertion failed: %q", text)
	}
	between := text[hi+len(header) : di]
	if !strings.HasPrefix(between, "\n") {
		t.Errorf("rows not separated by newline: %q", between)
	}

	if doc.TableCount() != 1 {
		t.Fatalf("table count assertion failed, got %v, want 1", doc.TableCount())
	}
	table := doc.Table(0)
	if table.RowCount() != 2 {
		t.Errorf("row count assertion failed, got %v, want 2", table.RowCount())
	}
	if table.CellCount(0) != 3 {
		t.Errorf("cell count assertion failed, got %v, want 3", table.CellCount(0))
	}
	// widths derive from the right boundaries
	if w := table.Rows[0].Cells[1].Width; w != 1440 {
		t.Errorf("cell width assertion failed, got %v, want 1440", w)
	}
	// content after \pard lands outside the table
	if !strings.Contains(text, "after") {
		t.Errorf("trailing text lost: %q", text)
	}
}

func TestTableCellBorders(t *testing.T) {
	doc := parseString(t, `{\rtf1\trowd\clbrdrt\clbrdrl\cellx1000`+
		`\intbl x\cell\row\pard}`)
	table := doc.Table(0)
	if table == nil || table.RowCount() != 1 {
		t.Fatal("table not assembled")
	}
	cell := table.Rows[0].Cells[0]
	if !cell.BorderTop || !cell.BorderLeft || cell.BorderBottom || cell.BorderRight {
		t.Errorf("border assertion failed, got %+v", cell)
	}
}

func TestHyperlink(t *testing.T) {

	doc := parseString(t, `{\rtf1 Visit {\field{\*\fldinst HYPERLINK `+
		`"https://example.com"}{\fldrslt Example Site}} now}`)

	if got := doc.PlainText(); got != "Visit Example Site now" {
		t.Errorf("plain text assertion failed, got %q", got)
	}

	links := doc.Hyperlinks()
	if len(links) != 1 {
		t.Fatalf("hyperlink count assertion failed, got %v, want 1", len(links))
	}
	if links[0].URL != "https://example.com" {
		t.Errorf("URL assertion failed, got %q", links[0].URL)
	}
	if links[0].Display != "Example Site" {
		t.Errorf("display assertion failed, got %q", links[0].Display)
	}

	// display runs appear in the flattened run list with the URL
	var found bool
	for _, run := range doc.TextRuns() {
		if run.Link == "https://example.com" &&
			strings.Contains(run.Text, "Example") {
			found = true
		}
	}
	if !found {
		t.Error("hyperlink run missing from TextRuns")
	}
}

func TestNonHyperlinkFieldKeepsResult(t *testing.T) {
	doc := parseString(t, `{\rtf1 a{\field{\*\fldinst PAGE}{\fldrslt 7}}b}`)
	if got := doc.PlainText(); got != "a7b" {
		t.Errorf("plain text assertion failed, got %q, want %q", got, "a7b")
	}
}

func TestEmbeddedObjectRendersEmpty(t *testing.T) {
	doc := parseString(t, `{\rtf1 a{\object\objemb{\*\objdata 010203ff}}b}`)
	if got := doc.PlainText(); got != "ab" {
		t.Errorf("plain text assertion failed, got %q, want %q", got, "ab")
	}
	if len(doc.TextRuns()) != 2 {
		t.Errorf("run count assertion failed, got %v, want 2", len(doc.TextRuns()))
	}
}

func TestPicture(t *testing.T) {

	doc := parseString(t, `{\rtf1 {\pict\pngblip\picw16\pich8 `+
		`89504e470d0a1a0a}}`)

	if doc.ImageCount() != 1 {
		t.Fatalf("image count assertion failed, got %v, want 1", doc.ImageCount())
	}
	img := doc.Image(0)
	if img.Format != ImageFormatPNG {
		t.Errorf("format assertion failed, got %v", img.Format)
	}
	if img.Width != 16 || img.Height != 8 {
		t.Errorf("dimension assertion failed, got %dx%d", img.Width, img.Height)
	}
	want := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if string(img.Data) != string(want) {
		t.Errorf("payload assertion failed, got % x", img.Data)
	}
	// pictures contribute no text
	if doc.PlainText() != "" {
		t.Errorf("picture leaked text: %q", doc.PlainText())
	}
}

func TestPlainKeepsFontAndSize(t *testing.T) {

	doc := parseString(t, `{\rtf1\b\f2\fs48 A\plain B}`)
	runs := doc.TextRuns()
	if len(runs) != 2 {
		t.Fatalf("run count assertion failed, got %v, want 2", len(runs))
	}
	if !runs[0].Char.Bold {
		t.Error("first run lost its bold toggle")
	}
	// \plain clears the toggles and keeps font, size and colors
	if runs[1].Char.Bold {
		t.Error("\\plain did not clear bold")
	}
	if !runs[1].Char.HasFont || runs[1].Char.FontID != 2 {
		t.Errorf("\\plain cleared the font: %+v", runs[1].Char)
	}
	if !runs[1].Char.HasFontSize || runs[1].Char.FontSize != 48 {
		t.Errorf("\\plain cleared the size: %+v", runs[1].Char)
	}
}

func TestParagraphFormat(t *testing.T) {

	doc := parseString(t, `{\rtf1\qc\li720\fi-360\sb120 centered}`)
	runs := doc.TextRuns()
	if len(runs) != 1 {
		t.Fatalf("run count assertion failed, got %v, want 1", len(runs))
	}
	pf := runs[0].Para
	if pf.Alignment != AlignCenter {
		t.Errorf("alignment assertion failed, got %v", pf.Alignment)
	}
	if pf.LeftIndent != 720 || pf.FirstLineIndent != -360 {
		t.Errorf("indent assertion failed, got %+v", pf)
	}
	if pf.SpaceBefore != 120 {
		t.Errorf("spacing assertion failed, got %+v", pf)
	}

	// \pard resets the paragraph format
	doc = parseString(t, `{\rtf1\qc a\par\pard b}`)
	runs = doc.TextRuns()
	last := runs[len(runs)-1]
	if last.Para.Alignment != AlignLeft {
		t.Errorf("\\pard did not reset alignment: %+v", last.Para)
	}
}

func TestDocumentDefaults(t *testing.T) {

	doc := parseString(t, `{\rtf1\ansi\ansicpg1252\deff3 x}`)
	if doc.Version != 1 {
		t.Errorf("version assertion failed, got %v, want 1", doc.Version)
	}
	if doc.DefaultFont != 3 {
		t.Errorf("default font assertion failed, got %v, want 3", doc.DefaultFont)
	}
	if doc.CodePage != 1252 {
		t.Errorf("code page assertion failed, got %v, want 1252", doc.CodePage)
	}

	doc = parseString(t, `{\rtf1}`)
	if doc.DefaultFontSize != 24 {
		t.Errorf("default font size assertion failed, got %v, want 24",
			doc.DefaultFontSize)
	}
	if len(doc.TextRuns()) != 0 || doc.FontCount() != 0 || doc.ColorCount() != 0 {
		t.Error("empty document carries content")
	}
}

func TestPlainTextDeterministic(t *testing.T) {
	doc := parseString(t, tableRTF)
	first := doc.PlainText()
	for i := 0; i < 3; i++ {
		if got := doc.PlainText(); got != first {
			t.Fatalf("plain text changed between calls: %q vs %q", first, got)
		}
	}
}

func TestHiddenTextStaysInRuns(t *testing.T) {
	doc := parseString(t, `{\rtf1 a{\v secret}b}`)
	var hidden bool
	for _, run := range doc.TextRuns() {
		if run.Char.Hidden && run.Text == "secret" {
			hidden = true
		}
	}
	if !hidden {
		t.Error("hidden run not marked")
	}
}

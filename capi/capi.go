// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package main exports the RTF parser over a C ABI. Build with
//
//	go build -buildmode=c-shared -o librtf.so ./capi
//
// Handles are opaque integers backed by a registry, never Go
// pointers, per the cgo pointer-passing rules. Every returned pointer
// stays valid until rtf_free(handle). The error message buffer is a C
// thread-local; each caller thread sees only its own last message.
package main

/*
#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>

// Result codes.
enum {
	RTF_OK      = 0,
	RTF_ERROR   = 1,
	RTF_NOMEM   = 2,
	RTF_INVALID = 3,
	RTF_TOOBIG  = 4
};

// Character formatting bits in rtf_run_t.flags.
enum {
	RTF_RUN_BOLD      = 1 << 0,
	RTF_RUN_ITALIC    = 1 << 1,
	RTF_RUN_UNDERLINE = 1 << 2,
	RTF_RUN_STRIKE    = 1 << 3,
	RTF_RUN_SUPER     = 1 << 4,
	RTF_RUN_SUB       = 1 << 5
};

typedef struct rtf_run {
	uint32_t    flags;
	int32_t     font_id;      // -1 when the run sets no font
	int32_t     font_size;    // half-points, -1 when unset
	int32_t     color_id;     // -1 when unset
	uint32_t    rgb;          // resolved 0xRRGGBB, 0 for auto
	int32_t     alignment;    // 0 left, 1 center, 2 right, 3 justify
	int32_t     left_indent;  // twips
	int32_t     right_indent; // twips
	int32_t     first_indent; // twips
	int32_t     space_before; // twips
	int32_t     space_after;  // twips
	const char *text;
} rtf_run_t;

typedef struct rtf_reader {
	void *ctx;
	ptrdiff_t (*read)(void *ctx, char *buf, size_t len);
} rtf_reader_t;

extern void rtfabi_set_error(const char *msg);
extern const char *rtfabi_error(void);
extern ptrdiff_t rtfabi_call_read(rtf_reader_t *r, char *buf, size_t len);
*/
import "C"

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unsafe"

	rtf "github.com/saferwall/rtf"
)

// docHandle owns a parsed document plus every C string handed out for
// it, freed together in rtf_free.
type docHandle struct {
	doc   *rtf.Document
	cstrs map[string]*C.char
	cptrs []unsafe.Pointer
}

var (
	mu      sync.Mutex
	handles         = map[uintptr]*docHandle{}
	nextID  uintptr = 1
)

func setError(msg string) {
	cs := C.CString(msg)
	C.rtfabi_set_error(cs)
	C.free(unsafe.Pointer(cs))
}

func register(doc *rtf.Document) C.uintptr_t {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	handles[id] = &docHandle{doc: doc, cstrs: map[string]*C.char{}}
	return C.uintptr_t(id)
}

func lookup(h C.uintptr_t) *docHandle {
	mu.Lock()
	defer mu.Unlock()
	dh := handles[uintptr(h)]
	if dh == nil {
		setError("Null document")
	}
	return dh
}

// cstr returns a C string for s, cached per handle so repeated
// accessor calls hand back the same stable pointer.
func (dh *docHandle) cstr(s string) *C.char {
	mu.Lock()
	defer mu.Unlock()
	if cs, ok := dh.cstrs[s]; ok {
		return cs
	}
	cs := C.CString(s)
	dh.cstrs[s] = cs
	return cs
}

//export rtf_parse
func rtf_parse(data *C.char, length C.size_t) C.uintptr_t {
	if data == nil || length == 0 {
		setError(rtf.ErrEmptyInput.Error())
		return 0
	}
	buf := C.GoBytes(unsafe.Pointer(data), C.int(length))
	doc, err := rtf.ParseBytes(buf, nil)
	if err != nil {
		setError(err.Error())
		return 0
	}
	return register(doc)
}

//export rtf_parse_file
func rtf_parse_file(path *C.char) C.uintptr_t {
	if path == nil {
		setError("Null path")
		return 0
	}
	doc, err := rtf.ParseFile(C.GoString(path), nil)
	if err != nil {
		setError(err.Error())
		return 0
	}
	return register(doc)
}

// cReader adapts the C reader callback struct to io.Reader.
type cReader struct {
	r *C.rtf_reader_t
}

func (c cReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := C.rtfabi_call_read(c.r, (*C.char)(unsafe.Pointer(&p[0])), C.size_t(len(p)))
	if n < 0 {
		return 0, errors.New("reader callback failed")
	}
	if n == 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

//export rtf_parse_stream
func rtf_parse_stream(reader *C.rtf_reader_t) C.uintptr_t {
	if reader == nil {
		setError("Null reader")
		return 0
	}
	doc, err := rtf.ParseReader(cReader{r: reader}, nil)
	if err != nil {
		setError(err.Error())
		return 0
	}
	return register(doc)
}

//export rtf_free
func rtf_free(h C.uintptr_t) {
	if h == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	dh := handles[uintptr(h)]
	if dh == nil {
		return
	}
	for _, cs := range dh.cstrs {
		C.free(unsafe.Pointer(cs))
	}
	for _, p := range dh.cptrs {
		C.free(p)
	}
	delete(handles, uintptr(h))
}

//export rtf_get_text
func rtf_get_text(h C.uintptr_t) *C.char {
	dh := lookup(h)
	if dh == nil {
		return nil
	}
	return dh.cstr(dh.doc.PlainText())
}

//export rtf_get_text_length
func rtf_get_text_length(h C.uintptr_t) C.size_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.size_t(len(dh.doc.PlainText()))
}

//export rtf_get_run_count
func rtf_get_run_count(h C.uintptr_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.int32_t(len(dh.doc.TextRuns()))
}

//export rtf_get_run
func rtf_get_run(h C.uintptr_t, i C.int32_t, out *C.rtf_run_t) C.int32_t {
	dh := lookup(h)
	if dh == nil || out == nil {
		return C.RTF_ERROR
	}
	runs := dh.doc.TextRuns()
	if i < 0 || int(i) >= len(runs) {
		setError("run index out of range")
		return C.RTF_INVALID
	}
	run := runs[i]

	var flags C.uint32_t
	if run.Char.Bold {
		flags |= C.RTF_RUN_BOLD
	}
	if run.Char.Italic {
		flags |= C.RTF_RUN_ITALIC
	}
	if run.Char.Underline {
		flags |= C.RTF_RUN_UNDERLINE
	}
	if run.Char.Strikethrough {
		flags |= C.RTF_RUN_STRIKE
	}
	if run.Char.Superscript {
		flags |= C.RTF_RUN_SUPER
	}
	if run.Char.Subscript {
		flags |= C.RTF_RUN_SUB
	}
	out.flags = flags

	out.font_id = -1
	if run.Char.HasFont {
		out.font_id = C.int32_t(run.Char.FontID)
	}
	out.font_size = -1
	if run.Char.HasFontSize {
		out.font_size = C.int32_t(run.Char.FontSize)
	}
	out.color_id = -1
	out.rgb = 0
	if run.Char.HasColor {
		out.color_id = C.int32_t(run.Char.ColorID)
		if col, ok := dh.doc.Color(int(run.Char.ColorID)); ok {
			out.rgb = C.uint32_t(col.RGB())
		}
	}
	out.alignment = C.int32_t(run.Para.Alignment)
	out.left_indent = C.int32_t(run.Para.LeftIndent)
	out.right_indent = C.int32_t(run.Para.RightIndent)
	out.first_indent = C.int32_t(run.Para.FirstLineIndent)
	out.space_before = C.int32_t(run.Para.SpaceBefore)
	out.space_after = C.int32_t(run.Para.SpaceAfter)
	out.text = dh.cstr(run.Text)
	return C.RTF_OK
}

//export rtf_get_image_count
func rtf_get_image_count(h C.uintptr_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.int32_t(dh.doc.ImageCount())
}

//export rtf_get_image
func rtf_get_image(h C.uintptr_t, i C.int32_t, format, width, height *C.int32_t, length *C.size_t) *C.uchar {
	dh := lookup(h)
	if dh == nil {
		return nil
	}
	img := dh.doc.Image(int(i))
	if img == nil {
		setError("image index out of range")
		return nil
	}
	if format != nil {
		*format = C.int32_t(img.Format)
	}
	if width != nil {
		*width = C.int32_t(img.Width)
	}
	if height != nil {
		*height = C.int32_t(img.Height)
	}
	if length != nil {
		*length = C.size_t(len(img.Data))
	}
	if len(img.Data) == 0 {
		return nil
	}
	p := C.CBytes(img.Data)
	mu.Lock()
	dh.cptrs = append(dh.cptrs, p)
	mu.Unlock()
	return (*C.uchar)(p)
}

//export rtf_get_table_count
func rtf_get_table_count(h C.uintptr_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.int32_t(dh.doc.TableCount())
}

//export rtf_table_get_row_count
func rtf_table_get_row_count(h C.uintptr_t, table C.int32_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	t := dh.doc.Table(int(table))
	if t == nil {
		setError("table index out of range")
		return 0
	}
	return C.int32_t(t.RowCount())
}

//export rtf_table_get_cell_count
func rtf_table_get_cell_count(h C.uintptr_t, table, row C.int32_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	t := dh.doc.Table(int(table))
	if t == nil {
		setError("table index out of range")
		return 0
	}
	return C.int32_t(t.CellCount(int(row)))
}

func tableCell(dh *docHandle, table, row, cell C.int32_t) *rtf.TableCell {
	t := dh.doc.Table(int(table))
	if t == nil || int(row) < 0 || int(row) >= t.RowCount() {
		setError("table index out of range")
		return nil
	}
	cells := t.Rows[row].Cells
	if int(cell) < 0 || int(cell) >= len(cells) {
		setError("cell index out of range")
		return nil
	}
	return cells[cell]
}

//export rtf_table_get_cell_text
func rtf_table_get_cell_text(h C.uintptr_t, table, row, cell C.int32_t) *C.char {
	dh := lookup(h)
	if dh == nil {
		return nil
	}
	c := tableCell(dh, table, row, cell)
	if c == nil {
		return nil
	}
	var sb strings.Builder
	for _, el := range c.Content {
		if run, ok := el.(*rtf.TextRun); ok {
			sb.WriteString(run.Text)
		}
	}
	return dh.cstr(sb.String())
}

//export rtf_table_get_cell_width
func rtf_table_get_cell_width(h C.uintptr_t, table, row, cell C.int32_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	c := tableCell(dh, table, row, cell)
	if c == nil {
		return 0
	}
	return C.int32_t(c.Width)
}

//export rtf_get_font_count
func rtf_get_font_count(h C.uintptr_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.int32_t(dh.doc.FontCount())
}

//export rtf_get_font_name
func rtf_get_font_name(h C.uintptr_t, id C.int32_t) *C.char {
	dh := lookup(h)
	if dh == nil {
		return nil
	}
	font, ok := dh.doc.Font(int(id))
	if !ok {
		setError("font not found")
		return nil
	}
	return dh.cstr(font.Name)
}

//export rtf_get_color_count
func rtf_get_color_count(h C.uintptr_t) C.int32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	return C.int32_t(dh.doc.ColorCount())
}

//export rtf_get_color_rgb
func rtf_get_color_rgb(h C.uintptr_t, id C.int32_t) C.uint32_t {
	dh := lookup(h)
	if dh == nil {
		return 0
	}
	col, ok := dh.doc.Color(int(id))
	if !ok {
		return 0
	}
	return C.uint32_t(col.RGB())
}

//export rtf_errmsg
func rtf_errmsg() *C.char {
	return C.rtfabi_error()
}

//export rtf_clear_error
func rtf_clear_error() {
	C.rtfabi_set_error(nil)
}

func main() {}

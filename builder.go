// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

// builderFrame snapshots the builder cursors at a group start so the
// surrounding structural context is restored at the matching group
// end, without the parser knowing anything about document topology.
type builderFrame struct {
	dest  Destination
	table *Table
	row   *TableRow
	cell  *TableCell
	link  *Hyperlink
}

// cellBorders accumulates the \clbrdr* flags of one cell definition.
type cellBorders struct {
	top, bottom, left, right bool
}

// DocumentBuilder consumes parser events and produces a Document. It
// coalesces adjacent equally-formatted text into single runs, assembles
// tables from row/cell markers, and runs the font table, color table,
// picture and field sub-parsers off the destination events.
type DocumentBuilder struct {
	doc     *Document
	handler EventHandler

	// Pending text run.
	runBuf  []byte
	runChar CharFormat
	runPara ParaFormat
	haveRun bool

	// Structural cursors.
	frames []builderFrame
	dest   Destination
	table  *Table
	row    *TableRow
	cell   *TableCell
	link   *Hyperlink

	// Row definition state.
	cellBounds  []int32
	cellIndex   int
	borderDefs  []cellBorders
	pendBorders cellBorders
	rowHeight   int32

	// Destination sub-parser state.
	curFont  *FontInfo
	fontName []byte
	colR     int
	colG     int
	colB     int
	colorIdx int
	pict     pictState
	instBuf  []byte
}

// NewDocumentBuilder returns a builder with an empty document.
func NewDocumentBuilder() *DocumentBuilder {
	b := &DocumentBuilder{
		doc:  newDocument(),
		colR: -1,
		colG: -1,
		colB: -1,
	}
	b.handler = EventHandler{
		UserData:     b,
		OnGroupStart: func(*EventHandler) { b.groupStart() },
		OnGroupEnd:   func(*EventHandler) { b.groupEnd() },
		OnText:       func(_ *EventHandler, t []byte, cf CharFormat, pf ParaFormat) { b.text(t, cf, pf) },
		OnCharacter:  func(_ *EventHandler, c byte, cf CharFormat, pf ParaFormat) { b.text([]byte{c}, cf, pf) },
		OnBinary:     func(_ *EventHandler, data []byte, length int64) { b.binary(data) },
		OnError: func(_ *EventHandler, pos Position, msg string) {
			b.doc.Errors = append(b.doc.Errors, ParseError{Pos: pos, Message: msg})
		},
		OnControlWord:     func(_ *EventHandler, name string, param int32, hasParam bool) { b.controlWord(name, param, hasParam) },
		OnDestination:     func(_ *EventHandler, dest Destination) { b.destinationEnter(dest) },
		OnDestinationText: func(_ *EventHandler, dest Destination, text []byte) { b.destinationText(dest, text) },
	}
	return b
}

// Handler returns the event handler to hand to the parser.
func (b *DocumentBuilder) Handler() *EventHandler {
	return &b.handler
}

// Detach transfers ownership of the built Document to the caller. The
// plain text and flattened runs are materialized here so reads on the
// returned document never mutate it and are safe to share.
func (b *DocumentBuilder) Detach() *Document {
	b.flushRun()
	doc := b.doc
	b.doc = nil
	doc.PlainText()
	doc.TextRuns()
	return doc
}

// appendElement places el in the innermost structural sink: the
// current table cell, or the top-level content list.
func (b *DocumentBuilder) appendElement(el ContentElement) {
	if b.cell != nil {
		b.cell.Content = append(b.cell.Content, el)
		return
	}
	b.doc.Content = append(b.doc.Content, el)
}

func (b *DocumentBuilder) text(text []byte, cf CharFormat, pf ParaFormat) {
	if len(text) == 0 {
		return
	}
	if pf.InTable && b.cell == nil && b.link == nil {
		b.ensureCell()
	}
	if b.haveRun && (cf != b.runChar || pf != b.runPara) {
		b.flushRun()
	}
	if !b.haveRun {
		b.runChar = cf
		b.runPara = pf
		b.haveRun = true
	}
	b.runBuf = append(b.runBuf, text...)
}

// flushRun finalizes the pending text run into the current sink.
func (b *DocumentBuilder) flushRun() {
	if !b.haveRun {
		return
	}
	b.haveRun = false
	if len(b.runBuf) == 0 {
		return
	}
	run := &TextRun{
		Text: b.doc.arena.internString(b.runBuf),
		Char: b.runChar,
		Para: b.runPara,
	}
	b.runBuf = b.runBuf[:0]
	if b.link != nil {
		b.link.Runs = append(b.link.Runs, run)
		return
	}
	b.appendElement(run)
}

func (b *DocumentBuilder) binary(data []byte) {
	if b.dest == DestPict {
		b.pict.data = append(b.pict.data, data...)
	}
	// Loose \bin payloads carry no document content.
}

func (b *DocumentBuilder) groupStart() {
	b.flushRun()
	b.frames = append(b.frames, builderFrame{
		dest:  b.dest,
		table: b.table,
		row:   b.row,
		cell:  b.cell,
		link:  b.link,
	})
}

func (b *DocumentBuilder) groupEnd() {
	b.flushRun()
	n := len(b.frames)
	if n == 0 {
		return
	}
	frame := b.frames[n-1]
	b.frames = b.frames[:n-1]
	leaving := b.dest

	if leaving == DestFontTable {
		// a font entry subgroup may end without its ';'
		b.finalizeFont()
	}

	var img *Image
	if leaving == DestPict && frame.dest != DestPict {
		img = b.finalizePict()
	}
	var field *Hyperlink
	if leaving == DestField && frame.dest != DestField {
		field = b.link
	}

	b.dest = frame.dest
	b.table = frame.table
	b.row = frame.row
	b.cell = frame.cell
	b.link = frame.link

	if img != nil {
		b.appendElement(img)
	}
	if field != nil {
		b.finalizeField(field)
	}
}

func (b *DocumentBuilder) destinationEnter(dest Destination) {
	b.dest = dest
	switch dest {
	case DestPict:
		b.pict = pictState{}
	case DestField:
		b.flushRun()
		b.link = &Hyperlink{}
	case DestFldInst:
		b.instBuf = b.instBuf[:0]
	case DestColorTable:
		b.colorIdx = 0
		b.colR, b.colG, b.colB = -1, -1, -1
	}
}

func (b *DocumentBuilder) controlWord(name string, param int32, hasParam bool) {
	switch b.dest {
	case DestFontTable:
		b.fontTableWord(name, param, hasParam)
		return
	case DestColorTable:
		b.colorTableWord(name, param)
		return
	case DestPict:
		b.pictWord(name, param)
		return
	}

	switch name {
	case "rtf":
		b.doc.Version = int(param)
		if !hasParam {
			b.doc.Version = 1
		}
	case "deff":
		if hasParam {
			b.doc.DefaultFont = int16(param)
		}
	case "ansicpg":
		if hasParam {
			b.doc.CodePage = int(param)
		}
	case "ansi":
		b.doc.CodePage = defaultCodePage
	case "mac":
		b.doc.CodePage = 10000
	case "pc":
		b.doc.CodePage = 437
	case "pca":
		b.doc.CodePage = 850

	case "par", "sect":
		b.flushRun()
		b.appendElement(ParagraphBreak{})
	case "line":
		b.flushRun()
		b.appendElement(LineBreak{})
	case "page":
		b.flushRun()
		b.appendElement(PageBreak{})

	case "pard":
		// paragraph reset outside a cell ends the table scope
		if b.cell == nil {
			b.flushRun()
			b.table = nil
			b.row = nil
		}

	case "trowd":
		b.flushRun()
		b.ensureTable()
		b.row = &TableRow{}
		b.cellBounds = b.cellBounds[:0]
		b.borderDefs = b.borderDefs[:0]
		b.pendBorders = cellBorders{}
		b.cellIndex = 0
		b.rowHeight = 0
	case "trrh":
		b.rowHeight = param
	case "cellx":
		b.cellBounds = append(b.cellBounds, param)
		b.borderDefs = append(b.borderDefs, b.pendBorders)
		b.pendBorders = cellBorders{}
	case "clbrdrt":
		b.pendBorders.top = true
	case "clbrdrb":
		b.pendBorders.bottom = true
	case "clbrdrl":
		b.pendBorders.left = true
	case "clbrdrr":
		b.pendBorders.right = true
	case "intbl":
		b.ensureCell()
	case "cell":
		b.flushRun()
		b.ensureCell()
		b.finalizeCell()
	case "row":
		b.flushRun()
		if b.cell != nil {
			b.finalizeCell()
		}
		b.finalizeRow()
	}
}

func (b *DocumentBuilder) ensureTable() {
	if b.table == nil {
		b.table = &Table{}
		b.doc.Content = append(b.doc.Content, b.table)
	}
}

func (b *DocumentBuilder) ensureRow() {
	b.ensureTable()
	if b.row == nil {
		b.row = &TableRow{}
	}
}

func (b *DocumentBuilder) ensureCell() {
	b.ensureRow()
	if b.cell == nil {
		b.cell = &TableCell{}
	}
}

func (b *DocumentBuilder) finalizeCell() {
	if b.cell == nil || b.row == nil {
		b.cell = nil
		return
	}
	if b.cellIndex < len(b.cellBounds) {
		w := b.cellBounds[b.cellIndex]
		if b.cellIndex > 0 {
			w -= b.cellBounds[b.cellIndex-1]
		}
		b.cell.Width = w
	}
	if b.cellIndex < len(b.borderDefs) {
		def := b.borderDefs[b.cellIndex]
		b.cell.BorderTop = def.top
		b.cell.BorderBottom = def.bottom
		b.cell.BorderLeft = def.left
		b.cell.BorderRight = def.right
	}
	b.row.Cells = append(b.row.Cells, b.cell)
	b.cell = nil
	b.cellIndex++
}

func (b *DocumentBuilder) finalizeRow() {
	if b.row != nil && len(b.row.Cells) > 0 {
		b.row.Height = b.rowHeight
		b.ensureTable()
		b.table.Rows = append(b.table.Rows, b.row)
	}
	b.row = nil
	b.cellIndex = 0
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

// destinationWords maps a control word to the destination it opens.
// The parser stops emitting document text inside all of them except
// \fldrslt, whose display text flows as document text; the capturing
// ones stream their raw contents to the consumer instead (see
// Destination.emitsText and Destination.captures).
var destinationWords = map[string]Destination{
	"fonttbl":    DestFontTable,
	"colortbl":   DestColorTable,
	"stylesheet": DestStylesheet,
	"info":       DestInfo,
	"pict":       DestPict,
	"field":      DestField,
	"fldinst":    DestFldInst,
	"fldrslt":    DestFldRslt,
	"header":     DestHeader,
	"headerl":    DestHeader,
	"headerr":    DestHeader,
	"headerf":    DestHeader,
	"footer":     DestFooter,
	"footerl":    DestFooter,
	"footerr":    DestFooter,
	"footerf":    DestFooter,
	"footnote":   DestFootnote,

	// Embedded objects: the payload is captured for the consumer but
	// renders as empty text.
	"object":  DestObject,
	"objdata": DestObject,
	"objemb":  DestObject,

	// Skipped wholesale: structured contents nobody asked for, plus
	// the fallback picture so images are not collected twice.
	"generator":          DestSkip,
	"objclass":           DestSkip,
	"nonshppict":         DestSkip,
	"themedata":          DestSkip,
	"datastore":          DestSkip,
	"latentstyles":       DestSkip,
	"listtable":          DestSkip,
	"listoverridetable":  DestSkip,
	"revtbl":             DestSkip,
	"xmlnstbl":           DestSkip,
	"colorschememapping": DestSkip,
}

// specialRunes are control words that stand for a single character.
var specialRunes = map[string]rune{
	"emdash":    '\u2014',
	"endash":    '\u2013',
	"lquote":    '\u2018',
	"rquote":    '\u2019',
	"ldblquote": '\u201c',
	"rdblquote": '\u201d',
	"bullet":    '\u2022',
	"enspace":   '\u2002',
	"emspace":   '\u2003',
	"qmspace":   '\u2005',
	"zwj":       '\u200d',
	"zwnj":      '\u200c',
}

// dispatchControlWord applies the semantic effect of a control word
// on the parser state. Unknown words are silently ignored; the
// consumer has already seen them through OnControlWord.
func (p *Parser) dispatchControlWord(tok Token) error {
	cf := &p.state.format.Char
	pf := &p.state.format.Para

	// Toggle convention: parameter 0 clears, absent or non-zero sets.
	on := !tok.HasParam || tok.Param != 0

	if d, ok := destinationWords[tok.Name]; ok {
		p.enterDestination(d)
		return nil
	}
	if r, ok := specialRunes[tok.Name]; ok {
		p.emitRune(r)
		return nil
	}

	switch tok.Name {

	// Character formatting toggles.
	case "b":
		cf.Bold = on
	case "i":
		cf.Italic = on
	case "ul", "uldb", "ulw", "ulth":
		cf.Underline = on
	case "ulnone":
		cf.Underline = false
	case "strike", "striked":
		cf.Strikethrough = on
	case "super":
		cf.Superscript = on
		if on {
			cf.Subscript = false
		}
	case "sub":
		cf.Subscript = on
		if on {
			cf.Superscript = false
		}
	case "nosupersub":
		cf.Superscript = false
		cf.Subscript = false
	case "scaps":
		cf.SmallCaps = on
	case "caps":
		cf.AllCaps = on
	case "v":
		cf.Hidden = on

	// Character formatting values.
	case "f":
		if tok.HasParam {
			cf.FontID = int16(tok.Param)
			cf.HasFont = true
		}
	case "fs":
		if tok.HasParam {
			cf.FontSize = int16(tok.Param)
			cf.HasFontSize = true
		}
	case "cf":
		if tok.HasParam {
			cf.ColorID = int16(tok.Param)
			cf.HasColor = true
		}
	case "cb", "highlight", "chcbpat":
		if tok.HasParam {
			cf.BackColorID = int16(tok.Param)
			cf.HasBack = true
		}

	case "plain":
		// Clears the toggles; font, size and colors are kept.
		cf.clearToggles()

	// Paragraph controls.
	case "pard":
		*pf = ParaFormat{}
	case "ql":
		pf.Alignment = AlignLeft
	case "qc":
		pf.Alignment = AlignCenter
	case "qr":
		pf.Alignment = AlignRight
	case "qj", "qd":
		pf.Alignment = AlignJustify
	case "li":
		if tok.HasParam {
			pf.LeftIndent = tok.Param
		}
	case "ri":
		if tok.HasParam {
			pf.RightIndent = tok.Param
		}
	case "fi":
		if tok.HasParam {
			pf.FirstLineIndent = tok.Param
		}
	case "sb":
		if tok.HasParam && tok.Param >= 0 {
			pf.SpaceBefore = uint32(tok.Param)
		}
	case "sa":
		if tok.HasParam && tok.Param >= 0 {
			pf.SpaceAfter = uint32(tok.Param)
		}
	case "sl":
		if tok.HasParam && tok.Param != 0 {
			pf.Spacing = LineSpacingExact
		} else {
			pf.Spacing = LineSpacingSingle
		}
	case "slmult":
		if on {
			pf.Spacing = LineSpacingMultiple
		}

	// Structural markers. The document builder reacts to these
	// through OnControlWord; the parser only tracks table scope.
	case "par", "line", "page", "sect", "sectd", "row", "cell", "trowd",
		"cellx", "trrh":
	case "intbl":
		pf.InTable = true
	case "tab":
		p.emitChar('\t')

	// Document attributes.
	case "ansi":
		p.state.charset = CharsetANSI
		p.state.codePage = charsetCodePage(CharsetANSI)
	case "mac":
		p.state.charset = CharsetMac
		p.state.codePage = charsetCodePage(CharsetMac)
	case "pc":
		p.state.charset = CharsetPC
		p.state.codePage = charsetCodePage(CharsetPC)
	case "pca":
		p.state.charset = CharsetPCA
		p.state.codePage = charsetCodePage(CharsetPCA)
	case "ansicpg":
		if tok.HasParam {
			p.state.charset = CharsetANSICPG
			p.state.codePage = int(tok.Param)
		}
	case "deff", "rtf":
		// recorded by the builder

	// Unicode.
	case "uc":
		if tok.HasParam {
			n := int(tok.Param)
			if n < 0 {
				n = 0
			}
			p.state.ucSkip = n
		}
	case "u":
		return p.unicodeEscape(tok)
	}
	return nil
}

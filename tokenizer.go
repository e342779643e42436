// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"fmt"
	"math"
)

// maxControlWordLen caps control word names. Longer names are
// truncated at the cap and the remaining letters consumed silently.
const maxControlWordLen = 32

// Tokenizer converts an RTF byte stream into tokens. It owns a
// reusable accumulation buffer; every emitted Text slice and control
// word name is a fresh copy the caller may retain.
type Tokenizer struct {
	bs            *ByteStream
	text          []byte
	pending       *Token
	captureBinary bool
	ioErrReported bool
}

// NewTokenizer returns a tokenizer over bs. When captureBinary is set,
// \bin payloads are kept in the BinaryData token; otherwise the bytes
// are consumed from the stream and discarded.
func NewTokenizer(bs *ByteStream, captureBinary bool) *Tokenizer {
	return &Tokenizer{bs: bs, captureBinary: captureBinary}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// NextToken returns the next lexical unit, yielding TokenEOF once the
// stream is drained. An IO failure in reader mode is surfaced once as
// a TokenError, then TokenEOF.
func (t *Tokenizer) NextToken() Token {
	if t.pending != nil {
		tok := *t.pending
		t.pending = nil
		return tok
	}

	pos := t.bs.Position()
	b, ok := t.bs.Peek()
	if !ok {
		if err := t.bs.Err(); err != nil && !t.ioErrReported {
			t.ioErrReported = true
			return Token{Kind: TokenError, Pos: pos,
				Message: fmt.Sprintf("stream read error: %v", err)}
		}
		return Token{Kind: TokenEOF, Pos: pos}
	}

	switch b {
	case '{':
		t.bs.Consume()
		return Token{Kind: TokenGroupStart, Pos: pos}
	case '}':
		t.bs.Consume()
		return Token{Kind: TokenGroupEnd, Pos: pos}
	case '\\':
		return t.lexControl(pos)
	default:
		return t.lexText(pos)
	}
}

// lexText accumulates bytes until a group delimiter or backslash is
// peeked, then emits a fresh copy.
func (t *Tokenizer) lexText(pos Position) Token {
	t.text = t.text[:0]
	for {
		b, ok := t.bs.Peek()
		if !ok || b == '{' || b == '}' || b == '\\' {
			break
		}
		t.bs.Consume()
		t.text = append(t.text, b)
	}
	return Token{Kind: TokenText, Pos: pos, Text: append([]byte(nil), t.text...)}
}

func (t *Tokenizer) lexControl(pos Position) Token {
	t.bs.Consume() // backslash

	b, ok := t.bs.Peek()
	if !ok {
		return Token{Kind: TokenError, Pos: pos,
			Message: "unexpected end of input after '\\'"}
	}

	switch {
	case isAlpha(b):
		return t.lexControlWord(pos)

	case b == '\'':
		t.bs.Consume()
		return t.lexHexEscape(pos)

	case b == '*':
		// \*\bin is a binary region; any other \*\word stays a
		// ControlSymbol so the parser can arm its skip-destination
		// state. The next control word is stashed and handed out on
		// the following NextToken call.
		t.bs.Consume()
		if nb, ok := t.bs.Peek(); ok && nb == '\\' {
			if ab, ok := t.bs.PeekAt(1); ok && isAlpha(ab) {
				t.bs.Consume() // backslash
				word := t.lexControlWord(t.bs.Position())
				if word.Kind == TokenBinaryData {
					word.Pos = pos
					return word
				}
				t.pending = &word
			}
		}
		return Token{Kind: TokenControlSymbol, Pos: pos, Symbol: '*'}

	default:
		t.bs.Consume()
		return Token{Kind: TokenControlSymbol, Pos: pos, Symbol: b}
	}
}

// lexHexEscape reads the two hex digits of \'HH. The leading \' has
// been consumed.
func (t *Tokenizer) lexHexEscape(pos Position) Token {
	b1, ok := t.bs.Peek()
	if !ok {
		return Token{Kind: TokenError, Pos: pos,
			Message: "unterminated hex escape"}
	}
	hi, ok := hexVal(b1)
	if !ok {
		return Token{Kind: TokenError, Pos: pos,
			Message: fmt.Sprintf("invalid hex digit %q in \\' escape", b1)}
	}
	t.bs.Consume()

	b2, ok := t.bs.Peek()
	if !ok {
		return Token{Kind: TokenError, Pos: pos,
			Message: "unterminated hex escape"}
	}
	lo, ok := hexVal(b2)
	if !ok {
		return Token{Kind: TokenError, Pos: pos,
			Message: fmt.Sprintf("invalid hex digit %q in \\' escape", b2)}
	}
	t.bs.Consume()

	return Token{Kind: TokenHexChar, Pos: pos, Symbol: hi<<4 | lo}
}

// lexControlWord reads the alphabetic name and optional signed decimal
// parameter. The backslash has been consumed and the next byte is a
// letter. A single trailing space is a delimiter and is consumed.
func (t *Tokenizer) lexControlWord(pos Position) Token {
	t.text = t.text[:0]
	for {
		b, ok := t.bs.Peek()
		if !ok || !isAlpha(b) {
			break
		}
		t.bs.Consume()
		if len(t.text) < maxControlWordLen {
			t.text = append(t.text, b)
		}
	}
	tok := Token{Kind: TokenControlWord, Pos: pos, Name: string(t.text)}

	neg := false
	if b, ok := t.bs.Peek(); ok && (b == '-' || b == '+') {
		neg = b == '-'
		t.bs.Consume()
	}
	var val int64
	for {
		b, ok := t.bs.Peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		t.bs.Consume()
		tok.HasParam = true
		// Saturate instead of overflowing; real-world RTF embeds
		// parameters far beyond 32 bits.
		if val <= math.MaxInt32 {
			val = val*10 + int64(b-'0')
		}
	}
	if tok.HasParam {
		if neg {
			val = -val
		}
		switch {
		case val > math.MaxInt32:
			tok.Param = math.MaxInt32
		case val < math.MinInt32:
			tok.Param = math.MinInt32
		default:
			tok.Param = int32(val)
		}
	}

	t.bs.ConsumeIf(' ')

	if tok.Name == "bin" {
		if !tok.HasParam {
			return Token{Kind: TokenError, Pos: pos,
				Message: "missing \\bin length"}
		}
		return t.lexBinary(tok)
	}
	return tok
}

// lexBinary consumes the declared number of raw payload bytes of a
// \binN region. A region truncated by end of stream yields a
// TokenError that still carries the declared length, payload offset
// and whatever bytes were read, so a tolerant parser can keep the
// partial payload.
func (t *Tokenizer) lexBinary(word Token) Token {
	length := int64(word.Param)
	if length < 0 {
		length = 0
	}
	tok := Token{
		Kind:      TokenBinaryData,
		Pos:       word.Pos,
		BinLength: length,
		BinOffset: t.bs.Position().Offset,
	}
	if t.captureBinary && length > 0 {
		// the declared length is untrusted; let the buffer grow with
		// the bytes that actually arrive
		capHint := length
		if capHint > 1<<16 {
			capHint = 1 << 16
		}
		tok.Text = make([]byte, 0, capHint)
	}
	var consumed int64
	for consumed < length {
		b, ok := t.bs.Consume()
		if !ok {
			tok.Kind = TokenError
			tok.Message = fmt.Sprintf(
				"unterminated \\bin: want %d bytes, got %d", length, consumed)
			return tok
		}
		if t.captureBinary {
			tok.Text = append(tok.Text, b)
		}
		consumed++
	}
	return tok
}

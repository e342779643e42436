// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saferwall/rtf/log"
)

// DefaultMaxDepth is the group nesting limit applied when
// Options.MaxDepth is zero.
const DefaultMaxDepth = 100

// understoodStarredDestinations are \*-prefixed destinations the
// parser handles itself. Every other \*\word skips its whole group.
var understoodStarredDestinations = map[string]bool{
	"pict":    true,
	"shppict": true,
	"fldinst": true,
	"objdata": true,
}

// syncBoundaryWords end a tolerant-mode synchronization run.
var syncBoundaryWords = map[string]bool{
	"par":   true,
	"pard":  true,
	"sect":  true,
	"sectd": true,
	"page":  true,
	"plain": true,
}

// Parser drives the tokenizer to exhaustion while maintaining a group
// stack of state snapshots and emitting events to the handler.
type Parser struct {
	tok      *Tokenizer
	bs       *ByteStream
	handler  *EventHandler
	logger   *log.Helper
	recovery RecoveryMode
	maxDepth int

	state parserState
	stack []parserState
	depth int
	// Groups beyond maxDepth are counted here instead of pushed so a
	// hostile input cannot grow the stack without bound.
	overflow    int
	pendingSkip bool
	errs        []ParseError
}

// NewParser returns a parser reading from bs and reporting to handler.
func NewParser(bs *ByteStream, handler *EventHandler, opts *Options) *Parser {
	opts = opts.normalized()
	return &Parser{
		tok:      NewTokenizer(bs, !opts.DisableBinaryCapture),
		bs:       bs,
		handler:  handler,
		logger:   opts.helper(),
		recovery: opts.Recovery,
		maxDepth: opts.MaxDepth,
		state:    defaultParserState(),
	}
}

// Errors returns the non-fatal diagnostics recorded so far.
func (p *Parser) Errors() []ParseError {
	return p.errs
}

// Run parses the stream to completion. In tolerant and permissive
// modes only semantic and resource errors are returned; everything
// else is repaired. Tolerant mode records every repair; permissive
// mode records unclosed and unbalanced groups but not lexical errors
// or depth overflows. In strict mode the first error of any kind
// aborts.
func (p *Parser) Run() error {
	tok := p.tok.NextToken()
	for tok.Kind == TokenText && len(bytes.TrimSpace(tok.Text)) == 0 {
		tok = p.tok.NextToken()
	}
	if tok.Kind != TokenGroupStart {
		if err := p.bs.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
		return ErrInvalidRTF
	}
	p.pushGroup()

	word := p.tok.NextToken()
	if word.Kind != TokenControlWord || word.Name != "rtf" {
		return ErrInvalidRTF
	}
	p.handler.controlWord(word.Name, word.Param, word.HasParam)

	for p.depth > 0 {
		tok = p.tok.NextToken()
		if tok.Kind == TokenEOF {
			if err := p.bs.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRead, err)
			}
			if p.recovery == RecoveryStrict {
				return ErrUnclosedGroup
			}
			p.recordError(tok.Pos,
				fmt.Sprintf("%d unclosed group(s) at end of input", p.depth))
			for p.depth > 0 {
				p.popGroup()
			}
			break
		}
		if err := p.processToken(tok); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) pushGroup() {
	p.stack = append(p.stack, p.state)
	p.depth++
	p.handler.groupStart()
}

func (p *Parser) popGroup() {
	if n := len(p.stack); n > 0 {
		p.state = p.stack[n-1]
		p.stack = p.stack[:n-1]
	}
	p.depth--
	p.handler.groupEnd()
}

func (p *Parser) processToken(tok Token) error {
	switch tok.Kind {
	case TokenGroupStart:
		if p.depth >= p.maxDepth {
			if p.recovery == RecoveryStrict {
				return ErrTooDeep
			}
			p.overflow++
			if p.recovery == RecoveryTolerant {
				p.recordError(tok.Pos, "group nesting exceeds maximum depth")
			}
			return nil
		}
		p.pushGroup()

	case TokenGroupEnd:
		if p.overflow > 0 {
			p.overflow--
			return nil
		}
		if p.depth == 0 {
			if p.recovery == RecoveryStrict {
				return ErrUnbalancedGroup
			}
			p.recordError(tok.Pos, "unbalanced closing brace")
			return nil
		}
		p.popGroup()

	case TokenControlWord:
		return p.controlWordToken(tok)

	case TokenControlSymbol:
		p.controlSymbol(tok)

	case TokenText:
		p.emitTextBytes(tok.Text)

	case TokenHexChar:
		p.hexToken(tok)

	case TokenBinaryData:
		if p.state.dest != DestSkip {
			p.handler.binary(tok.Text, tok.BinLength)
		}

	case TokenError:
		return p.errorToken(tok)
	}
	return nil
}

func (p *Parser) controlWordToken(tok Token) error {
	if p.state.dest == DestSkip {
		p.pendingSkip = false
		return nil
	}
	if p.pendingSkip {
		p.pendingSkip = false
		if !understoodStarredDestinations[tok.Name] {
			p.state.dest = DestSkip
			return nil
		}
	}
	p.handler.controlWord(tok.Name, tok.Param, tok.HasParam)
	return p.dispatchControlWord(tok)
}

func (p *Parser) controlSymbol(tok Token) {
	if p.state.dest == DestSkip {
		return
	}
	switch tok.Symbol {
	case '*':
		p.pendingSkip = true
	case '\\', '{', '}':
		p.emitChar(tok.Symbol)
	case '~':
		p.emitRune('\u00a0') // non-breaking space
	case '_':
		p.emitRune('\u2011') // non-breaking hyphen
	case '-':
		// optional hyphen, dropped in plain text
	case '\r', '\n':
		// a backslash followed by a raw newline is a paragraph break
		p.handler.controlWord("par", 0, false)
	}
}

// emitTextBytes routes a literal text run to the consumer, dropping
// raw CR/LF bytes, which are lexical noise in RTF. Each emitted chunk
// is a contiguous substring of the input.
func (p *Parser) emitTextBytes(text []byte) {
	d := p.state.dest
	if !d.emitsText() && !d.captures() {
		return
	}
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\r' && text[i] != '\n' {
			continue
		}
		if i > start {
			chunk := text[start:i]
			if d.emitsText() {
				p.handler.text(chunk, p.state.format.Char, p.state.format.Para)
			} else {
				p.handler.destinationText(d, chunk)
			}
		}
		start = i + 1
	}
}

func (p *Parser) emitChar(b byte) {
	d := p.state.dest
	switch {
	case d.emitsText():
		p.handler.character(b, p.state.format.Char, p.state.format.Para)
	case d.captures():
		p.handler.destinationText(d, []byte{b})
	}
}

func (p *Parser) emitRune(r rune) {
	d := p.state.dest
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	switch {
	case d.emitsText():
		p.handler.text(buf[:n], p.state.format.Char, p.state.format.Para)
	case d.captures() && !d.binaryStream():
		// payload-stream destinations take raw bytes, not decoded
		// runes
		p.handler.destinationText(d, buf[:n])
	}
}

func (p *Parser) hexToken(tok Token) {
	d := p.state.dest
	if d == DestSkip {
		return
	}
	if d.binaryStream() {
		// inside \pict or \objdata a \'HH escape contributes its
		// literal byte to the payload stream
		p.handler.destinationText(d, []byte{tok.Symbol})
		return
	}
	p.emitRune(decodeCodePageByte(p.state.codePage, tok.Symbol))
}

// unicodeEscape handles \uN: emit the scalar, then discard the
// following ucSkip fallback units. One unit is one byte of literal
// text, one hex escape, one control symbol or one control word,
// whichever comes first.
func (p *Parser) unicodeEscape(tok Token) error {
	if !tok.HasParam {
		return nil
	}
	scalar := int64(tok.Param)
	if scalar < 0 {
		scalar += 65536
	}
	r := rune(scalar)
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	p.emitRune(r)
	return p.skipFallback(p.state.ucSkip)
}

func (p *Parser) skipFallback(n int) error {
	for n > 0 {
		tok := p.tok.NextToken()
		switch tok.Kind {
		case TokenText:
			i := 0
			for i < len(tok.Text) && n > 0 {
				// raw CR/LF bytes are lexical noise, not units
				if tok.Text[i] != '\r' && tok.Text[i] != '\n' {
					n--
				}
				i++
			}
			if i < len(tok.Text) {
				p.emitTextBytes(tok.Text[i:])
				return nil
			}
		case TokenHexChar, TokenControlSymbol, TokenControlWord:
			n--
		case TokenEOF:
			return nil
		default:
			// group structure ends the fallback run
			return p.processToken(tok)
		}
	}
	return nil
}

func (p *Parser) enterDestination(d Destination) {
	p.state.dest = d
	p.handler.destination(d)
}

func (p *Parser) errorToken(tok Token) error {
	if err := p.bs.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRead, err)
	}
	if p.recovery == RecoveryStrict {
		return fmt.Errorf("%w: %s at %s", ErrLexical, tok.Message, tok.Pos)
	}
	if tok.BinLength > 0 && p.state.dest != DestSkip {
		// truncated \bin region, keep the partial payload
		p.handler.binary(tok.Text, int64(len(tok.Text)))
	}
	if p.recovery == RecoveryPermissive {
		// unknown constructs pass as literal text, no resync
		return nil
	}
	p.recordError(tok.Pos, tok.Message)
	return p.synchronize()
}

// synchronize discards tokens after a lexical error until either the
// enclosing group closes (bringing the depth below the pre-error
// depth) or a paragraph/section boundary control word arrives. Groups
// opened during the run are swallowed whole so the event stream stays
// balanced.
func (p *Parser) synchronize() error {
	skipped := 0
	for {
		tok := p.tok.NextToken()
		switch tok.Kind {
		case TokenEOF:
			// the main loop re-reads EOF and repairs open groups
			return nil
		case TokenGroupStart:
			skipped++
		case TokenGroupEnd:
			if skipped > 0 {
				skipped--
				continue
			}
			return p.processToken(tok)
		case TokenControlWord:
			if skipped == 0 && syncBoundaryWords[tok.Name] {
				return p.processToken(tok)
			}
		}
	}
}

func (p *Parser) recordError(pos Position, msg string) {
	p.logger.Warnf("%s at %s", msg, pos)
	p.errs = append(p.errs, ParseError{Pos: pos, Message: msg})
	p.handler.errorAt(pos, msg)
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

// EventHandler is the consumer surface of the parser: a record of
// function pointers plus a user-data slot rather than an interface,
// so the contract stays trivially portable across the C ABI and
// trivially mockable in tests. Any field may be nil.
//
// Text and byte slices handed to callbacks are borrowed and valid
// only for the duration of the call; consumers that retain them must
// copy (the document builder interns them into the document arena).
type EventHandler struct {
	// UserData is an opaque slot for the consumer.
	UserData interface{}

	OnGroupStart func(h *EventHandler)
	OnGroupEnd   func(h *EventHandler)
	OnText       func(h *EventHandler, text []byte, cf CharFormat, pf ParaFormat)
	OnCharacter  func(h *EventHandler, b byte, cf CharFormat, pf ParaFormat)
	OnBinary     func(h *EventHandler, data []byte, length int64)
	OnError      func(h *EventHandler, pos Position, msg string)

	// Structured extensions. The parser forwards every dispatched
	// control word, destination entry and raw destination content so
	// a consumer can run sub-parsers for font tables, color tables,
	// pictures and fields without re-lexing. The DocumentBuilder is
	// built on these; plain text consumers may leave them nil.
	OnControlWord     func(h *EventHandler, name string, param int32, hasParam bool)
	OnDestination     func(h *EventHandler, dest Destination)
	OnDestinationText func(h *EventHandler, dest Destination, text []byte)
}

func (h *EventHandler) groupStart() {
	if h != nil && h.OnGroupStart != nil {
		h.OnGroupStart(h)
	}
}

func (h *EventHandler) groupEnd() {
	if h != nil && h.OnGroupEnd != nil {
		h.OnGroupEnd(h)
	}
}

func (h *EventHandler) text(text []byte, cf CharFormat, pf ParaFormat) {
	if h != nil && h.OnText != nil && len(text) > 0 {
		h.OnText(h, text, cf, pf)
	}
}

func (h *EventHandler) character(b byte, cf CharFormat, pf ParaFormat) {
	if h != nil && h.OnCharacter != nil {
		h.OnCharacter(h, b, cf, pf)
	}
}

func (h *EventHandler) binary(data []byte, length int64) {
	if h != nil && h.OnBinary != nil {
		h.OnBinary(h, data, length)
	}
}

func (h *EventHandler) errorAt(pos Position, msg string) {
	if h != nil && h.OnError != nil {
		h.OnError(h, pos, msg)
	}
}

func (h *EventHandler) controlWord(name string, param int32, hasParam bool) {
	if h != nil && h.OnControlWord != nil {
		h.OnControlWord(h, name, param, hasParam)
	}
}

func (h *EventHandler) destination(dest Destination) {
	if h != nil && h.OnDestination != nil {
		h.OnDestination(h, dest)
	}
}

func (h *EventHandler) destinationText(dest Destination, text []byte) {
	if h != nil && h.OnDestinationText != nil && len(text) > 0 {
		h.OnDestinationText(h, dest, text)
	}
}

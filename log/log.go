// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a minimal leveled, structured logging facade.
// It mirrors the go-kratos log API so callers can plug in any backend
// that satisfies the Logger interface.
package log

// Logger is the logger interface.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// DefaultMessageKey is the key used by Helper for the log message.
var DefaultMessageKey = "msg"

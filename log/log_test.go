// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		LevelFatal: "FATAL",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("level string assertion failed, got %v, want %v", got, want)
		}
	}
}

func TestFilterDropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFilter(NewStdLogger(&buf), FilterLevel(LevelError))
	helper := NewHelper(logger)

	helper.Debugf("dropped %d", 1)
	helper.Warn("dropped too")
	helper.Errorf("kept %s", "message")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("filtered entry leaked: %q", out)
	}
	if !strings.Contains(out, "kept message") {
		t.Errorf("error entry missing: %q", out)
	}
}

func TestHelperFormatsKeyvals(t *testing.T) {
	var buf bytes.Buffer
	helper := NewHelper(NewStdLogger(&buf))
	helper.Infof("count=%d", 42)

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "msg=count=42") {
		t.Errorf("unexpected output: %q", out)
	}
}

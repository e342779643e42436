// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, in string) []Token {
	t.Helper()
	tok := NewTokenizer(NewMemoryStream([]byte(in)), true)
	var out []Token
	for {
		tk := tok.NextToken()
		out = append(out, tk)
		if tk.Kind == TokenEOF || tk.Kind == TokenError {
			return out
		}
	}
}

func TestTokenizerGroupsAndText(t *testing.T) {
	toks := tokenize(t, "{abc}")
	require.Len(t, toks, 4)
	require.Equal(t, TokenGroupStart, toks[0].Kind)
	require.Equal(t, TokenText, toks[1].Kind)
	require.Equal(t, []byte("abc"), toks[1].Text)
	require.Equal(t, TokenGroupEnd, toks[2].Kind)
	require.Equal(t, TokenEOF, toks[3].Kind)
}

func TestTokenizerControlWords(t *testing.T) {

	tests := []struct {
		in        string
		name      string
		param     int32
		hasParam  bool
		wantAfter string // text token expected right after, "" for none
	}{
		{`\par`, "par", 0, false, ""},
		{`\b0`, "b", 0, true, ""},
		{`\f12`, "f", 12, true, ""},
		{`\li-340`, "li", -340, true, ""},
		// the single trailing space is a delimiter, not content
		{`\par x`, "par", 0, false, "x"},
		// only one space is consumed
		{`\par  x`, "par", 0, false, " x"},
		// saturation instead of overflow
		{"\\u2147483648", "u", math.MaxInt32, true, ""},
		{`\u-2147483649`, "u", math.MinInt32, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks := tokenize(t, tt.in)
			require.Equal(t, TokenControlWord, toks[0].Kind)
			require.Equal(t, tt.name, toks[0].Name)
			require.Equal(t, tt.hasParam, toks[0].HasParam)
			if tt.hasParam {
				require.Equal(t, tt.param, toks[0].Param)
			}
			if tt.wantAfter != "" {
				require.Equal(t, TokenText, toks[1].Kind)
				require.Equal(t, tt.wantAfter, string(toks[1].Text))
			}
		})
	}
}

func TestTokenizerControlWordNameCap(t *testing.T) {
	long := strings.Repeat("a", 40)
	toks := tokenize(t, "\\"+long+"7")
	require.Equal(t, TokenControlWord, toks[0].Kind)
	// truncated at the cap, remaining letters consumed silently
	require.Equal(t, strings.Repeat("a", maxControlWordLen), toks[0].Name)
	require.True(t, toks[0].HasParam)
	require.Equal(t, int32(7), toks[0].Param)
}

func TestTokenizerControlSymbols(t *testing.T) {
	toks := tokenize(t, `\~\{\}\\`)
	for i, want := range []byte{'~', '{', '}', '\\'} {
		require.Equal(t, TokenControlSymbol, toks[i].Kind)
		require.Equal(t, want, toks[i].Symbol)
	}
}

func TestTokenizerHexEscape(t *testing.T) {
	toks := tokenize(t, `\'e9\'FF`)
	require.Equal(t, TokenHexChar, toks[0].Kind)
	require.Equal(t, byte(0xE9), toks[0].Symbol)
	require.Equal(t, TokenHexChar, toks[1].Kind)
	require.Equal(t, byte(0xFF), toks[1].Symbol)
}

func TestTokenizerBadHexEscape(t *testing.T) {
	toks := tokenize(t, `\'ZZ`)
	require.Equal(t, TokenError, toks[0].Kind)
	require.Contains(t, toks[0].Message, "hex")

	toks = tokenize(t, `\'`)
	require.Equal(t, TokenError, toks[0].Kind)
}

func TestTokenizerBinary(t *testing.T) {
	toks := tokenize(t, "\\bin5 XXXXXrest")
	require.Equal(t, TokenBinaryData, toks[0].Kind)
	require.Equal(t, int64(5), toks[0].BinLength)
	require.Equal(t, []byte("XXXXX"), toks[0].Text)
	require.Equal(t, TokenText, toks[1].Kind)
	require.Equal(t, "rest", string(toks[1].Text))
}

func TestTokenizerStarredBinary(t *testing.T) {
	// \*\bin is one binary region, the star is swallowed
	toks := tokenize(t, "{\\*\\bin3 ABC}")
	require.Equal(t, TokenGroupStart, toks[0].Kind)
	require.Equal(t, TokenBinaryData, toks[1].Kind)
	require.Equal(t, int64(3), toks[1].BinLength)
	require.Equal(t, TokenGroupEnd, toks[2].Kind)
}

func TestTokenizerStarredDestination(t *testing.T) {
	// \*\foo stays a symbol + control word pair
	toks := tokenize(t, `\*\foo`)
	require.Equal(t, TokenControlSymbol, toks[0].Kind)
	require.Equal(t, byte('*'), toks[0].Symbol)
	require.Equal(t, TokenControlWord, toks[1].Kind)
	require.Equal(t, "foo", toks[1].Name)
}

func TestTokenizerBinaryMissingLength(t *testing.T) {
	toks := tokenize(t, `\bin x`)
	require.Equal(t, TokenError, toks[0].Kind)
	require.Contains(t, toks[0].Message, "bin")
}

func TestTokenizerTruncatedBinary(t *testing.T) {
	toks := tokenize(t, "\\bin10 ABC")
	last := toks[len(toks)-1]
	require.Equal(t, TokenError, last.Kind)
	require.Equal(t, int64(10), last.BinLength)
	require.Equal(t, []byte("ABC"), last.Text)
	require.Contains(t, last.Message, "bin")
}

func TestTokenizerTextStopsAtDelimiters(t *testing.T) {
	toks := tokenize(t, `one\two{three`)
	require.Equal(t, TokenText, toks[0].Kind)
	require.Equal(t, "one", string(toks[0].Text))
	require.Equal(t, TokenControlWord, toks[1].Kind)
	require.Equal(t, TokenGroupStart, toks[2].Kind)
	require.Equal(t, TokenText, toks[3].Kind)
	require.Equal(t, "three", string(toks[3].Text))
}

func TestTokenizerTextIsACopy(t *testing.T) {
	tok := NewTokenizer(NewMemoryStream([]byte(`first\par second`)), false)
	first := tok.NextToken()
	tok.NextToken() // \par
	second := tok.NextToken()
	// earlier copies must survive later accumulation
	require.Equal(t, "first", string(first.Text))
	require.Equal(t, "second", string(second.Text))
}

func TestTokenizerPositions(t *testing.T) {
	toks := tokenize(t, "{\\b x}")
	require.Equal(t, int64(0), toks[0].Pos.Offset)
	require.Equal(t, int64(1), toks[1].Pos.Offset) // \b
	require.Equal(t, int64(4), toks[2].Pos.Offset) // "x"
	require.Equal(t, 1, toks[0].Pos.Line)
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import "golang.org/x/text/encoding/charmap"

// defaultCodePage is Windows-1252, the code page assumed when the
// header carries no \ansicpg.
const defaultCodePage = 1252

// codePageCharmap maps an RTF code page to its single-byte decoder.
// Multi-byte code pages (932, 936, 949, 950, 1200...) cannot be
// decoded bytewise; \'HH escapes under those pages fall back to
// Windows-1252 like most extractors do.
func codePageCharmap(cp int) *charmap.Charmap {
	switch cp {
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 852:
		return charmap.CodePage852
	case 855:
		return charmap.CodePage855
	case 858:
		return charmap.CodePage858
	case 860:
		return charmap.CodePage860
	case 862:
		return charmap.CodePage862
	case 863:
		return charmap.CodePage863
	case 865:
		return charmap.CodePage865
	case 866:
		return charmap.CodePage866
	case 874:
		return charmap.Windows874
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1252:
		return charmap.Windows1252
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	case 10000:
		return charmap.Macintosh
	case 20866:
		return charmap.KOI8R
	case 21866:
		return charmap.KOI8U
	case 28591:
		return charmap.ISO8859_1
	case 28592:
		return charmap.ISO8859_2
	case 28595:
		return charmap.ISO8859_5
	case 28597:
		return charmap.ISO8859_7
	case 28599:
		return charmap.ISO8859_9
	default:
		return charmap.Windows1252
	}
}

// charsetCodePage returns the code page implied by a header charset
// control word.
func charsetCodePage(cs Charset) int {
	switch cs {
	case CharsetMac:
		return 10000
	case CharsetPC:
		return 437
	case CharsetPCA:
		return 850
	default:
		return defaultCodePage
	}
}

// decodeCodePageByte decodes one \'HH byte under cp to a Unicode
// scalar. Undefined bytes map to U+FFFD.
func decodeCodePageByte(cp int, b byte) rune {
	return codePageCharmap(cp).DecodeByte(b)
}

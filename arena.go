// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import "unsafe"

const arenaBlockSize = 8192

// arena is a bump allocator. Every string or byte payload reachable
// from a Document is interned here, so dropping the Document releases
// everything at once and no element owns its own allocation.
type arena struct {
	blocks [][]byte
	used   int64
}

// alloc returns a fresh slice of length n inside the arena.
func (a *arena) alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	if len(a.blocks) > 0 {
		cur := a.blocks[len(a.blocks)-1]
		if len(cur)+n <= cap(cur) {
			off := len(cur)
			cur = cur[:off+n]
			a.blocks[len(a.blocks)-1] = cur
			a.used += int64(n)
			return cur[off : off+n : off+n]
		}
	}
	size := arenaBlockSize
	if n > size {
		size = n
	}
	block := make([]byte, n, size)
	a.blocks = append(a.blocks, block)
	a.used += int64(n)
	return block[0:n:n]
}

// internBytes copies b into the arena.
func (a *arena) internBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := a.alloc(len(b))
	copy(out, b)
	return out
}

// internString copies b into the arena and returns a string header
// over the arena bytes. The bytes are never written again, so the
// aliasing is safe.
func (a *arena) internString(b []byte) string {
	ib := a.internBytes(b)
	if len(ib) == 0 {
		return ""
	}
	return unsafe.String(&ib[0], len(ib))
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

// This file carries the C definitions backing the ABI: the per-thread
// error buffer and the reader-callback trampoline. They live apart
// from the exporting file because a preamble in a file with //export
// directives may only contain declarations.

/*
#include <stddef.h>
#include <string.h>

__thread char rtf_err_buf[256];

void rtfabi_set_error(const char *msg) {
	if (!msg) {
		rtf_err_buf[0] = 0;
		return;
	}
	strncpy(rtf_err_buf, msg, sizeof(rtf_err_buf)-1);
	rtf_err_buf[sizeof(rtf_err_buf)-1] = 0;
}

const char *rtfabi_error(void) {
	return rtf_err_buf;
}

typedef struct rtf_reader {
	void *ctx;
	ptrdiff_t (*read)(void *ctx, char *buf, size_t len);
} rtf_reader_t;

ptrdiff_t rtfabi_call_read(rtf_reader_t *r, char *buf, size_t len) {
	return r->read(r->ctx, buf, len);
}
*/
import "C"

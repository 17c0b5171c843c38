// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"io"

	"git.lukeshu.com/go/lowmemjson"
)

// writeJSONFile buffers the write and re-encodes through lowmemjson
// with a consistent indent/compaction policy. Catalog decoding
// (with its progress-reporting RuneScanner) lives in
// lib/armor/decode.go, built on lib/streamio; this file keeps only
// the write-side helper the CLI needs for --format=json.
func writeJSONFile(w io.Writer, obj any, cfg lowmemjson.ReEncoder) (err error) {
	buffer := bufio.NewWriter(w)
	defer func() {
		if _err := buffer.Flush(); err == nil && _err != nil {
			err = _err
		}
	}()
	cfg.Out = buffer
	return lowmemjson.Encode(&cfg, obj)
}

// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	rtfparser "github.com/saferwall/rtf"
	"github.com/spf13/cobra"
)

var (
	wantJSON   bool
	wantRuns   bool
	wantFonts  bool
	wantColors bool
	wantTables bool
	strict     bool
)

func prettyPrint(v interface{}) string {
	buff, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, buff, "", "\t"); err != nil {
		return string(buff)
	}
	return prettyJSON.String()
}

func dumpRTF(filename string) error {
	opts := rtfparser.Options{}
	if strict {
		opts.Recovery = rtfparser.RecoveryStrict
	}

	doc, err := rtfparser.ParseFile(filename, &opts)
	if err != nil {
		return fmt.Errorf("parsing %s failed: %w", filename, err)
	}

	switch {
	case wantJSON:
		fmt.Println(prettyPrint(doc))
	case wantRuns:
		fmt.Println(prettyPrint(doc.TextRuns()))
	case wantFonts:
		fmt.Println(prettyPrint(doc.Fonts))
	case wantColors:
		fmt.Println(prettyPrint(doc.Colors))
	case wantTables:
		fmt.Println(prettyPrint(doc.Tables()))
	default:
		if err := doc.WriteText(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "rtfdump <file.rtf>",
		Short: "Extract text and structure from RTF documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpRTF(args[0])
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&wantJSON, "json", false, "Dump the whole document as JSON")
	rootCmd.Flags().BoolVar(&wantRuns, "runs", false, "Dump the flattened text runs")
	rootCmd.Flags().BoolVar(&wantFonts, "fonts", false, "Dump the font table")
	rootCmd.Flags().BoolVar(&wantColors, "colors", false, "Dump the color table")
	rootCmd.Flags().BoolVar(&wantTables, "tables", false, "Dump the tables")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Abort on the first malformed construct")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rtfdump: %v\n", err)
		os.Exit(1)
	}
}

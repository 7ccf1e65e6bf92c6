package cmd

import (
	"fmt"
	"io"

	"androidsnap/pkg/scanner"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type clipboardStatus int

const (
	clipboardSkipped clipboardStatus = iota
	clipboardCopied
	clipboardFailed
)

var (
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func printSummary(w io.Writer, r scanner.Result, status clipboardStatus) {
	colorGreen.Fprint(w, "Done.")
	fmt.Fprintf(w, " Output: %s\n", r.Output)

	files := "files"
	if r.Sections == 1 {
		files = "file"
	}
	colorCyan.Fprintf(w, "  %s %s, %s\n", humanize.Comma(int64(r.Sections)), files, humanize.Bytes(uint64(r.Bytes)))
	if r.Stats.Failed > 0 {
		colorYellow.Fprintf(w, "  %d unreadable file(s) skipped, see log\n", r.Stats.Failed)
	}

	switch status {
	case clipboardCopied:
		colorGreen.Fprintln(w, "  Copied to clipboard.")
	case clipboardFailed:
		colorYellow.Fprintln(w, "  Clipboard unavailable, copy the file manually.")
	}
}

package jsondefaults

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const minNameWidth = 13

// WriteTable prints r as a markdown-style comparison table:
//
//	Method        | Time    | Time /JSON Cached
//	------------- | ------- | -----------------
//	JSON asdict   |  1.234  |   2.50
//
// Times are seconds for all iterations of a method. When r carries previous
// timings a Prev column is appended; methods without one show "-".
func WriteTable(w io.Writer, r Report) error {
	width := minNameWidth
	for _, res := range r.Results {
		width = max(width, len(res.Name))
	}
	ratioHead := "Time /" + r.Baseline
	withPrev := r.Previous != nil

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%-*s | Time    | %s", width, "Method", ratioHead)
	if withPrev {
		fmt.Fprint(bw, " | Prev")
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%s | ------- | %s", strings.Repeat("-", width), strings.Repeat("-", len(ratioHead)))
	if withPrev {
		fmt.Fprint(bw, " | -------")
	}
	fmt.Fprintln(bw)

	for _, res := range r.Results {
		fmt.Fprintf(bw, "%-*s |  %.3f  |  %5.2f", width, res.Name, res.Elapsed.Seconds(), res.Ratio)
		if withPrev {
			if prev, ok := r.Previous[res.Name]; ok {
				fmt.Fprintf(bw, " |  %.3f", prev.Seconds())
			} else {
				fmt.Fprint(bw, " |  -")
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

func extractCmd(a *app) *cobra.Command {
	var out string
	var explain bool
	var tree bool

	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Print the outline of one PDF as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, closeFn, err := a.convertConfig(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()
			conf.Explain = explain

			res, err := convert.Run(cmd.Context(), args[0], conf)
			if err != nil {
				return err
			}
			if res.Trace != nil {
				writeExplain(cmd.ErrOrStderr(), res.Trace)
			}

			var buf bytes.Buffer
			if tree {
				err = outline.WriteTree(&buf, res.Document)
			} else {
				err = outline.WriteJSON(&buf, res.Document)
			}
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the style map and each line's verdict to stderr (bypasses the cache)")
	cmd.Flags().BoolVar(&tree, "tree", false, "print an indented heading tree instead of JSON")
	return cmd
}

func writeExplain(w io.Writer, t *outline.Trace) {
	fmt.Fprintf(w, "lines: %d assembled, %d after merge\n", len(t.Lines), len(t.Merged))
	for _, size := range t.Levels.Sizes() {
		lv, _ := t.Levels.Lookup(size)
		fmt.Fprintf(w, "size %5.1f -> %s\n", size, lv)
	}
	for _, c := range t.Classified {
		fmt.Fprintf(w, "p%-3d %-6s %-14s %5.1f %q\n", c.Line.Page, c.Verdict.Level, c.Verdict.Rule, c.Line.Size, c.Line.Text)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Azure/mypl/internal/analysis"
)

func newCheckCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate MyPL sources and report the first error of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := a.cfg.Output.Format
			if cmd.Flags().Changed("output") {
				format = output
			}

			analyzer := a.analyzer()
			var views []*analysis.ResultView
			invalid := 0
			for _, name := range args {
				res, err := a.checkFile(cmd, analyzer, name)
				if err != nil {
					return err
				}
				if !res.Valid() {
					invalid++
					if format == "text" {
						fmt.Fprintln(a.stdout, diagnostic(res))
					}
				}
				views = append(views, res.View())
			}

			if format != "text" {
				if err := encode(a.stdout, format, views); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func (a *app) checkFile(cmd *cobra.Command, analyzer *analysis.Analyzer, name string) (*analysis.Result, error) {
	f, err := a.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return analyzer.Check(cmd.Context(), name, f)
}

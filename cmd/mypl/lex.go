package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLexCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "lex FILE|-",
		Short: "Print the token stream of a MyPL source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := a.cfg.Output.Format
			if cmd.Flags().Changed("output") {
				format = output
			}

			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.analyzer().Tokens(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}

			if format == "text" {
				for _, tok := range res.Stream {
					fmt.Fprintln(a.stdout, tok)
				}
			} else if err := encode(a.stdout, format, res.View()); err != nil {
				return err
			}

			if !res.Valid() {
				fmt.Fprintln(a.stderr, diagnostic(res))
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/fractionator"
)

func newPagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <file>",
		Short: "Print the number of pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := fractionator.Open(args[0], a.options())
			if err != nil {
				return err
			}
			defer doc.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.PageCount())
			return err
		},
	}
}

package main

import (
	"fmt"

	"github.com/grez-lucas/pageobject/internal/har"
	"github.com/spf13/cobra"
)

func newRedactCmd(a *app) *cobra.Command {
	var (
		output string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "redact <recording.har.json>",
		Short: "Strip credentials, tokens and cookies from a HAR recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := output
			if out == "" {
				out = in
			}

			rec, err := har.Load(in)
			if err != nil {
				return err
			}
			clean, n := har.Redact(rec)

			a.log.WithField("entries", len(rec.Entries)).WithField("redacted", n).Info("recording redacted")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %d values redacted\n", in, len(rec.Entries), n)
			if dryRun {
				return nil
			}
			return har.Save(out, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the result (default: overwrite the input)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without writing")
	return cmd
}

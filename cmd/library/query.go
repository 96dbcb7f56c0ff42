package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/library"
)

func queryCmd(c *cli) *cobra.Command {
	var (
		ids        []string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question across the library or selected documents",
		Long: `Ask a question. With --pdf the question is scoped to the given
documents; without it the whole library is searched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			composer := library.NewComposer(c.client, c.logger)
			v, err := c.view(library.Options{Mode: library.ModeSelect, Owner: composer})
			if err != nil {
				return err
			}
			defer v.Close()

			for _, id := range ids {
				if composer.Selection().Contains(id) {
					continue
				}
				if _, err := v.Toggle(id); err != nil {
					c.notify(v)
					return err
				}
			}

			composer.SetText(strings.Join(args, " "))
			result, err := composer.Submit(ctx)
			if err != nil {
				v.Report("run query", err)
				c.notify(v)
				return err
			}

			if outputJSON {
				return writeJSON(c.out, result)
			}

			fmt.Fprintln(c.out, result.Answer)
			if len(result.Sources) > 0 {
				fmt.Fprintln(c.out, "\nSources:")
				for _, s := range result.Sources {
					fmt.Fprintf(c.out, "  - %s\n", s.Label())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ids, "pdf", nil, "Document id to scope the question to (repeatable)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the answer as JSON")
	return cmd
}

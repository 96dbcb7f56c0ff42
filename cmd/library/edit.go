package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/library"
)

func editCmd(c *cli) *cobra.Command {
	var (
		title       string
		description string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a document's title, description, or tags",
		Long: `Edit document metadata. Fields without a flag keep their current
values. Pass --tags "" to clear all tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			v, err := c.view(library.Options{})
			if err != nil {
				return err
			}
			defer v.Close()

			if err := v.Load(ctx); err != nil {
				c.notify(v)
				return err
			}

			if err := v.BeginEdit(args[0]); err != nil {
				c.notify(v)
				return err
			}

			draft := v.Dialog().Draft
			flags := cmd.Flags()
			if flags.Changed("title") {
				draft.Title = title
			}
			if flags.Changed("description") {
				draft.Description = description
			}
			if flags.Changed("tags") {
				draft.TagsRaw = tags
			}

			if err := v.UpdateDraft(draft); err != nil {
				c.notify(v)
				return err
			}

			err = v.CommitDraft(ctx)
			c.notify(v)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	return cmd
}

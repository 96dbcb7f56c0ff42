package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/library"
)

func draftsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage research drafts saved to the shelf",
	}

	cmd.AddCommand(
		draftsListCmd(c),
		draftsShowCmd(c),
		draftsSaveCmd(c),
		draftsCopyCmd(c),
		draftsEditCmd(c),
		draftsDeleteCmd(c),
	)
	return cmd
}

func draftsListCmd(c *cli) *cobra.Command {
	var (
		tag        string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.client.Drafts(ctx, strings.TrimSpace(tag))
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(c.out, result.Drafts)
			}
			printDrafts(c.out, result.Drafts, tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list drafts with this tag")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output drafts as JSON")
	return cmd
}

func draftsShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one draft with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			d, err := c.client.Draft(ctx, args[0])
			if err != nil {
				return err
			}
			printDraft(c.out, d)
			return nil
		},
	}
}

func draftsSaveCmd(c *cli) *cobra.Command {
	var (
		title       string
		tags        string
		contentFile string
	)

	cmd := &cobra.Command{
		Use:   "save <research-id>",
		Short: "Save a completed research run as a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			var content *string
			if contentFile != "" {
				text, err := readContent(cmd, contentFile)
				if err != nil {
					return err
				}
				content = &text
			}

			result, err := c.shelf().Save(ctx, args[0], title, tags, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Saved draft %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Draft title")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Replace the generated text with this file (- for stdin)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func draftsCopyCmd(c *cli) *cobra.Command {
	var (
		title string
		tags  string
		style string
	)

	cmd := &cobra.Command{
		Use:   "copy <file>",
		Short: "Save edited content as a new draft (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			content, err := readContent(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := c.shelf().SaveCopy(ctx, title, content, style, tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Saved draft %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Draft title")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&style, "style", "", "Content style label")
	cmd.MarkFlagRequired("title")
	return cmd
}

func draftsEditCmd(c *cli) *cobra.Command {
	var title, tags string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a draft's title or tags",
		Long: `Change a draft's title or tags. Only the flags given are sent;
--tags "" clears every tag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			var titlePtr, tagsPtr *string
			if cmd.Flags().Changed("title") {
				titlePtr = &title
			}
			if cmd.Flags().Changed("tags") {
				tagsPtr = &tags
			}

			d, err := c.shelf().Retag(ctx, args[0], titlePtr, tagsPtr)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated %q [%s]\n", d.Title, library.RenderTags(d.Tags))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	return cmd
}

func draftsDeleteCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft and remove it from every playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			if !yes && !c.confirm(cmd, fmt.Sprintf("Delete draft %s? This cannot be undone.", args[0])) {
				return nil
			}

			result, err := c.client.DeleteDraft(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, deletedMessage(result, "Draft deleted."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func playlistsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "Group saved drafts into playlists",
	}

	cmd.AddCommand(
		playlistsListCmd(c),
		playlistsShowCmd(c),
		playlistsCreateCmd(c),
		playlistsAddCmd(c),
		playlistsRemoveCmd(c),
		playlistsDeleteCmd(c),
	)
	return cmd
}

func playlistsListCmd(c *cli) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.client.Playlists(ctx)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(c.out, result.Playlists)
			}

			if len(result.Playlists) == 0 {
				fmt.Fprintln(c.out, "No playlists yet.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDRAFTS\tUPDATED")
			for _, p := range result.Playlists {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, clip(p.Name, titleWidth), p.DraftCount, formatDate(p.UpdatedAt.Time))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output playlists as JSON")
	return cmd
}

func playlistsShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a playlist and its drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			p, err := c.client.Playlist(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s (%s)\n", p.Name, p.ID)
			if p.Description != "" {
				fmt.Fprintln(c.out, p.Description)
			}
			fmt.Fprintln(c.out)
			printDrafts(c.out, p.Drafts, "")
			return nil
		},
	}
}

func playlistsCreateCmd(c *cli) *cobra.Command {
	var (
		description string
		drafts      []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.shelf().CreatePlaylist(ctx, args[0], description, drafts)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created playlist %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Playlist description")
	cmd.Flags().StringArrayVar(&drafts, "draft", nil, "Draft to include (repeatable)")
	return cmd
}

func playlistsAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlist-id> <draft-id>...",
		Short: "Add drafts to a playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.shelf().AddToPlaylist(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Playlist %s now holds %d draft(s)\n", args[0], result.DraftCount)
			return nil
		},
	}
}

func playlistsRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <playlist-id> <draft-id>",
		Short: "Remove a draft from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.client.RemoveFromPlaylist(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Playlist %s now holds %d draft(s)\n", args[0], result.DraftCount)
			return nil
		},
	}
}

func playlistsDeleteCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a playlist; its drafts are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			if !yes && !c.confirm(cmd, fmt.Sprintf("Delete playlist %s?", args[0])) {
				return nil
			}

			result, err := c.client.DeletePlaylist(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, deletedMessage(result, "Playlist deleted."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func tagsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag used on saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.client.DraftTags(ctx)
			if err != nil {
				return err
			}
			for _, t := range result.Tags {
				fmt.Fprintln(c.out, t)
			}
			return nil
		},
	}
}

func (c *cli) shelf() *library.Shelf {
	return library.NewShelf(c.client, c.logger)
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func (c *cli) confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(c.errOut, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if a := strings.ToLower(strings.TrimSpace(answer)); a == "y" || a == "yes" {
		return true
	}
	fmt.Fprintln(c.errOut, "Cancelled.")
	return false
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func deletedMessage(result *backend.DeleteResult, fallback string) string {
	if result.Message != "" {
		return result.Message
	}
	return fallback
}

func printDrafts(w io.Writer, drafts []backend.Draft, tag string) {
	if len(drafts) == 0 {
		if tag != "" {
			fmt.Fprintf(w, "No drafts are tagged %q.\n", tag)
		} else {
			fmt.Fprintln(w, "No drafts yet.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tUPDATED")
	for _, d := range drafts {
		updated := d.UpdatedAt
		if !d.AddedAt.IsZero() {
			updated = d.AddedAt
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, clip(d.Title, titleWidth), library.RenderTags(d.Tags), formatDate(updated.Time))
	}
	tw.Flush()
}

func printDraft(w io.Writer, d *backend.Draft) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", d.ID)
	fmt.Fprintf(tw, "Title\t%s\n", d.Title)
	fmt.Fprintf(tw, "Tags\t%s\n", library.RenderTags(d.Tags))
	if d.ResearchID != "" {
		fmt.Fprintf(tw, "Research\t%s\n", d.ResearchID)
	}
	if d.Query != "" {
		fmt.Fprintf(tw, "Query\t%s\n", d.Query)
	}
	if d.ContentStyle != "" {
		fmt.Fprintf(tw, "Style\t%s\n", d.ContentStyle)
	}
	fmt.Fprintf(tw, "Updated\t%s\n", formatDate(d.UpdatedAt.Time))
	tw.Flush()

	if d.Content != "" {
		fmt.Fprintf(w, "\n%s\n", d.Content)
	}
}

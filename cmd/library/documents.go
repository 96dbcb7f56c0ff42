package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/library"
)

const titleWidth = 40

func listCmd(c *cli) *cobra.Command {
	var (
		tag        string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			v, err := c.view(library.Options{})
			if err != nil {
				return err
			}
			defer v.Close()

			loadErr := v.SetTagFilter(ctx, tag)
			m := c.notify(v)
			if loadErr != nil {
				return loadErr
			}

			if outputJSON {
				return writeJSON(c.out, c.store.Documents())
			}
			printCards(c.out, m)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list documents with this tag")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output documents as JSON")
	return cmd
}

func showCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			doc, err := c.client.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printDocument(c.out, doc)
			return nil
		},
	}
}

func urlCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "url <id>",
		Short: "Print the download URL of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, c.client.DownloadURL(args[0]))
			return nil
		},
	}
}

func researchCmd(c *cli) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "research <research-id>",
		Short: "List the documents attached to a research run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := c.client.ResearchDocuments(ctx, args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(c.out, result)
			}

			fmt.Fprintf(c.out, "Research %s: %d document(s)\n", result.ResearchID, result.Count)
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, d := range result.Documents {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, clip(d.Title, titleWidth), d.Filename)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output documents as JSON")
	return cmd
}

func versionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version and backend location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.out, "library %s\nbackend %s\n", c.cfg.Version, c.client.BaseURL())
			return nil
		},
	}
}

func printCards(w io.Writer, m library.LibraryModel) {
	if m.Empty() {
		if m.Tag != "" {
			fmt.Fprintf(w, "No documents are tagged %q.\n", m.Tag)
		} else {
			fmt.Fprintln(w, "No documents yet.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tUPLOADED\tCHUNKS")
	for _, card := range m.Cards {
		chunks := "-"
		if card.ChunkCount != nil {
			chunks = fmt.Sprint(*card.ChunkCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			card.ID,
			clip(card.Title, titleWidth),
			library.RenderTags(card.Tags),
			formatDate(card.UploadedAt),
			chunks,
		)
	}
	tw.Flush()
}

func printDocument(w io.Writer, d *backend.Document) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", d.ID)
	fmt.Fprintf(tw, "Title\t%s\n", d.Title)
	fmt.Fprintf(tw, "Filename\t%s\n", d.Filename)
	if d.Metadata.OriginalFilename != "" && d.Metadata.OriginalFilename != d.Filename {
		fmt.Fprintf(tw, "Original\t%s\n", d.Metadata.OriginalFilename)
	}
	fmt.Fprintf(tw, "Uploaded\t%s\n", formatDate(d.UploadedAt.Time))
	fmt.Fprintf(tw, "Tags\t%s\n", library.RenderTags(d.Tags))
	if d.Metadata.ChunkCount != nil {
		fmt.Fprintf(tw, "Chunks\t%d\n", *d.Metadata.ChunkCount)
	}
	tw.Flush()

	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
}

func clip(s string, width int) string {
	return runewidth.Truncate(strings.TrimSpace(s), width, "…")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

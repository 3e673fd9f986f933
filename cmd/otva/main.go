// Command otva is the terminal front end of the listing aggregator: it
// manages the source registry and renders normalized listings as a grid whose
// column count comes from the layout selector.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chenxi-v/otva/internal/client"
	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/layout"
	"github.com/chenxi-v/otva/internal/models"
	"github.com/chenxi-v/otva/internal/parser"
	"github.com/chenxi-v/otva/internal/userdata"
)

var (
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func main() {
	root := &cobra.Command{
		Use:           "otva",
		Short:         "Aggregate video catalog listings from multiple upstream sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSourcesCmd(), newListCmd(), newHistoryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage the upstream source registry",
	}

	add := &cobra.Command{
		Use:   "add <id> <name> <url>",
		Short: "Register or replace a source",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			return userdata.AddSource(models.Source{ID: args[0], Name: args[1], URL: args[2]})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return userdata.RemoveSource(args[0])
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List configured sources",
		RunE: func(_ *cobra.Command, _ []string) error {
			sources, err := userdata.SourceList()
			if err != nil {
				return err
			}
			for _, src := range sources {
				fmt.Printf("%s\t%s\t%s\n", src.ID, src.Name, src.URL)
			}
			return nil
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		sourceID string
		typeID   int
		page     int
		width    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch one category page and render it as a grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, ok := userdata.ResolveSource(sourceID)
			if !ok {
				return fmt.Errorf("unknown source %q, register it with 'otva sources add'", sourceID)
			}

			if page < 1 {
				page = userdata.CurrentPage(typeID)
			}

			listingClient := client.NewClient(config.GetConfig(), client.WithPageStore(userdata.PageTracker{}))
			defer listingClient.Close()

			result := listingClient.FetchListing(cmd.Context(), src, models.Category{TypeID: typeID}, page)
			if result.State != models.StateSuccess {
				// Render-nothing contract: a failed or empty listing shows
				// nothing instead of an error dialog.
				return nil
			}

			_ = userdata.SetCurrentPage(typeID, result.Page.Page)

			fmt.Println(renderGrid(result.Page, width))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "source id to query")
	cmd.Flags().IntVarP(&typeID, "type", "t", 0, "upstream category type id")
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page number (default: last visited page)")
	cmd.Flags().IntVarP(&width, "width", "w", 120, "render width in cells")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recently watched videos, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			records, err := userdata.RecentHistory()
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Printf("%s\t%s\t%s\n", r.WatchedAt.Format("2006-01-02 15:04"), r.SourceName, r.Name)
			}
			return nil
		},
	}
}

// renderGrid lays the page's records out in the column count the layout
// selector picked for this record count at the given width.
func renderGrid(page *models.ListingPage, width int) string {
	columns := layout.SelectColumns(len(page.Records))
	n := columns.ForWidth(width)
	if n < 1 {
		n = 1
	}

	cellWidth := width/n - 4
	if cellWidth < 10 {
		cellWidth = 10
	}
	cell := cellStyle.Width(cellWidth)

	var rows []string
	for start := 0; start < len(page.Records); start += n {
		end := start + n
		if end > len(page.Records) {
			end = len(page.Records)
		}

		cells := make([]string, 0, n)
		for _, v := range page.Records[start:end] {
			cells = append(cells, cell.Render(renderCard(v)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	footer := dimStyle.Render(fmt.Sprintf("page %d/%d · %d records · grid %s",
		page.Page, page.PageCount, len(page.Records), columns.Token()))

	return strings.Join(append(rows, footer), "\n")
}

func renderCard(v models.Video) string {
	lines := []string{titleStyle.Render(v.Name)}

	var meta []string
	if v.Year != "" {
		meta = append(meta, v.Year)
	}
	if v.Area != "" {
		meta = append(meta, v.Area)
	}
	if v.Remarks != "" {
		meta = append(meta, v.Remarks)
	}
	if len(meta) > 0 {
		lines = append(lines, dimStyle.Render(strings.Join(meta, " · ")))
	}

	if v.Content != "" {
		blurb := parser.StripMarkup(v.Content)
		if r := []rune(blurb); len(r) > 80 {
			blurb = string(r[:80]) + "…"
		}
		lines = append(lines, blurb)
	}

	if len(v.PlaySources) > 0 {
		lines = append(lines, dimStyle.Render("play: "+strings.Join(v.PlaySources, ", ")))
	}

	return strings.Join(lines, "\n")
}

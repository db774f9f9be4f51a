package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/pkg/archive"
)

// historyCommand creates the history command for past renders.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show renders recorded with --archive",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent renders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), func(db archive.Archive) error {
				recs, err := db.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("No renders recorded yet")
					printNextStep("Record one with", "g6viz render <graph6> --archive")
					return nil
				}
				writeHistoryTable(cmd.OutOrStdout(), recs, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of renders to show")

	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), func(db archive.Archive) error {
				rec, err := db.Get(cmd.Context(), args[0])
				if errors.Is(err, archive.ErrNotFound) {
					return fmt.Errorf("no render with id %s", args[0])
				}
				if err != nil {
					return err
				}
				printKeyValue("ID", rec.ID)
				printKeyValue("graph6", rec.Graph6)
				printKeyValue("Vertices", strconv.Itoa(rec.Vertices))
				printKeyValue("Edges", strconv.Itoa(rec.Edges))
				if rec.Highlight != "" {
					printKeyValue("Highlight", rec.Highlight)
				}
				printKeyValue("Format", rec.Format)
				printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				return nil
			})
		},
	}
}

// withHistory opens the history database for the duration of fn.
func withHistory(ctx context.Context, fn func(archive.Archive) error) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	db, err := archive.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()
	loggerFromContext(ctx).Debug("history opened", "path", path)
	return fn(db)
}

func writeHistoryTable(w io.Writer, recs []archive.Record, now time.Time) {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID[:min(8, len(r.ID))],
			truncate(r.Graph6, browseColumns),
			strconv.Itoa(r.Vertices),
			strconv.Itoa(r.Edges),
			r.Format,
			formatRelativeTime(now.Sub(r.CreatedAt)),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "graph6", "n", "m", "Format", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 || col == 5 {
				return listDimStyle
			}
			return listNormalStyle
		})
	fmt.Fprintln(w, t.Render())
}

// formatRelativeTime renders an age like "5m ago" or "3d ago".
func formatRelativeTime(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	case age < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(age.Hours()/24/30))
	}
	return fmt.Sprintf("%dy ago", int(age.Hours()/24/365))
}

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/pkg/graph6"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// browseColumns is the width of the truncated graph6 column.
const browseColumns = 32

// =============================================================================
// GraphListModel - Interactive graph selection
// =============================================================================

// browseEntry is one graph of a multi-graph file with its decoded size.
type browseEntry struct {
	Index    int // 1-based position among non-blank lines
	Entry    graph6.Entry
	Vertices int
	Edges    int
	Err      error
}

// newBrowseEntries decodes every entry once so the list can show sizes.
func newBrowseEntries(entries []graph6.Entry) []browseEntry {
	out := make([]browseEntry, len(entries))
	for i, e := range entries {
		out[i] = browseEntry{Index: i + 1, Entry: e}
		g, err := graph6.Decode(e.Text)
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Vertices = g.VertexCount()
		out[i].Edges = g.EdgeCount()
	}
	return out
}

// GraphListModel is the bubbletea model for picking a graph from a file.
type GraphListModel struct {
	Title    string
	Entries  []browseEntry
	Cursor   int
	Selected *browseEntry
	Height   int
	Offset   int
}

// NewGraphListModel creates a new graph list model.
func NewGraphListModel(title string, entries []browseEntry) GraphListModel {
	return GraphListModel{
		Title:   title,
		Entries: entries,
		Height:  15,
	}
}

func (m GraphListModel) Init() tea.Cmd {
	return nil
}

func (m GraphListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Entries) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			if len(m.Entries) == 0 {
				return m, nil
			}
			e := m.Entries[m.Cursor]
			if e.Err != nil {
				return m, nil
			}
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GraphListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		n, size := strconv.Itoa(e.Vertices), strconv.Itoa(e.Edges)
		if e.Err != nil {
			n, size = "—", "—"
		}
		rows = append(rows, []string{cursor, strconv.Itoa(e.Index), strconv.Itoa(e.Entry.Line), n, size, truncate(e.Entry.Text, browseColumns)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Line", "n", "m", "graph6").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			switch {
			case m.Entries[idx].Err != nil:
				return listErrorStyle
			case idx == m.Cursor:
				return listSelectedStyle
			case col == 2:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// =============================================================================
// Command
// =============================================================================

// browseCommand creates the browse command for picking a graph interactively.
func (c *CLI) browseCommand() *cobra.Command {
	opts := renderOpts{formats: "svg", labels: true}

	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Pick a graph from a multi-graph file and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			entries, err := graph6.ReadLines(f)
			f.Close()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("%s: no graphs found", path)
			}

			m := NewGraphListModel(fmt.Sprintf("%s · %d graphs", path, len(entries)), newBrowseEntries(entries))
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(GraphListModel)
			if !ok || fm.Selected == nil {
				printDetail("No selection made")
				return nil
			}

			opts.index = fm.Selected.Index
			in := input{Text: fm.Selected.Entry.Text, Name: path, File: true}
			if opts.output == "" {
				opts.output = fmt.Sprintf("%s-%d", basePath("", in), fm.Selected.Index)
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), in, opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: <file>-<index>)")
	f.StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg, json, dot, png (comma-separated)")
	f.StringVar(&opts.styleFile, "style", "", "style file (.toml, .yaml or .json)")
	f.StringVar(&opts.grid, "grid", "none", "snap vertices to a grid: none, square, circle")

	return cmd
}

package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/g6viz/pkg/archive"
	"github.com/matzehuels/g6viz/pkg/graph6"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewBrowseEntries(t *testing.T) {
	entries := newBrowseEntries([]graph6.Entry{
		{Line: 1, Text: "Bw"},
		{Line: 3, Text: "C"},
		{Line: 4, Text: "IheA@GUAo"},
	})
	if entries[0].Vertices != 3 || entries[0].Edges != 3 || entries[0].Err != nil {
		t.Errorf("entry 1 = %+v", entries[0])
	}
	if entries[1].Err == nil {
		t.Error("malformed entry should carry its decode error")
	}
	if entries[2].Index != 3 || entries[2].Vertices != 10 || entries[2].Edges != 15 {
		t.Errorf("entry 3 = %+v", entries[2])
	}
}

func TestGraphListModelNavigation(t *testing.T) {
	entries := newBrowseEntries([]graph6.Entry{
		{Line: 1, Text: "A_"},
		{Line: 2, Text: "C"},
		{Line: 3, Text: "Bw"},
	})
	var m tea.Model = NewGraphListModel("graphs.g6", entries)

	m, _ = m.Update(key("up"))
	if got := m.(GraphListModel).Cursor; got != 0 {
		t.Errorf("cursor moved above the first entry: %d", got)
	}

	m, _ = m.Update(key("down"))
	m, cmd := m.Update(key("enter"))
	if m.(GraphListModel).Selected != nil || cmd != nil {
		t.Error("an undecodable entry should not be selectable")
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("down"))
	if got := m.(GraphListModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}

	m, cmd = m.Update(key("enter"))
	sel := m.(GraphListModel).Selected
	if sel == nil || sel.Entry.Text != "Bw" || sel.Index != 3 {
		t.Fatalf("Selected = %+v, want the Bw entry", sel)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestGraphListModelView(t *testing.T) {
	m := NewGraphListModel("graphs.g6", newBrowseEntries([]graph6.Entry{{Line: 1, Text: "Dhc"}}))
	view := m.View()
	for _, want := range []string{"graphs.g6", "Dhc", "[1/1]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Dhc", 8); got != "Dhc" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("IheA@GUAo", 5); got != "IheA…" {
		t.Errorf("truncate long = %q", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{60 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.age); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestWriteHistoryTable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recs := []archive.Record{
		{ID: "0123456789abcdef", Graph6: "Dhc", Vertices: 5, Edges: 5, Format: "svg", CreatedAt: now.Add(-2 * time.Hour)},
	}
	var b strings.Builder
	writeHistoryTable(&b, recs, now)
	for _, want := range []string{"01234567", "Dhc", "svg", "2h ago"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("history table missing %q:\n%s", want, b.String())
		}
	}
	if strings.Contains(b.String(), "89abcdef") {
		t.Error("history table should shorten IDs")
	}
}

package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
)

func pickerResults(names ...string) []catalog.Scored {
	out := make([]catalog.Scored, len(names))
	for i, n := range names {
		out[i] = catalog.Scored{Package: catalog.Package{
			Name:    n,
			Version: "1.0-1",
			Origin:  catalog.Official{Repo: archlinux.RepoExtra},
		}}
	}
	return out
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestPickerSelect(t *testing.T) {
	var m tea.Model = newPickerModel(pickerResults("linux", "linux-lts", "linux-zen"))

	m = press(m, "down")
	m = press(m, "j")
	m = press(m, "k")
	m = press(m, "enter")

	got := m.(pickerModel).selected
	if got == nil || got.Name != "linux-lts" {
		t.Fatalf("selected = %+v, want linux-lts", got)
	}
}

func TestPickerBounds(t *testing.T) {
	var m tea.Model = newPickerModel(pickerResults("a", "b"))

	m = press(m, "up")
	if c := m.(pickerModel).cursor; c != 0 {
		t.Errorf("cursor after up at top = %d", c)
	}
	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "down")
	if c := m.(pickerModel).cursor; c != 1 {
		t.Errorf("cursor after down at bottom = %d", c)
	}
}

func TestPickerQuit(t *testing.T) {
	m := newPickerModel(pickerResults("a"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if next.(pickerModel).selected != nil {
		t.Error("quitting should not select anything")
	}
}

func TestPickerScrolls(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = "pkg" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	var m tea.Model = newPickerModel(pickerResults(names...))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	for i := 0; i < 20; i++ {
		m = press(m, "down")
	}
	pm := m.(pickerModel)
	if pm.cursor != 20 || pm.offset != 20-pm.height+1 {
		t.Errorf("cursor=%d offset=%d height=%d", pm.cursor, pm.offset, pm.height)
	}
	if !strings.Contains(pm.View(), names[20]) {
		t.Error("view should contain the focused package")
	}
}

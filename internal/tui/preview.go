package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/notesload/internal/model"
)

const excerptWidth = 60

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	borderStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// noteItem adapts a note to bubbles/list.Item
type noteItem struct {
	index int // 1-based position in the file
	note  model.Note
}

func (i noteItem) Title() string {
	t := i.note.Title()
	if t == "" {
		t = "(untitled)"
	}
	return t
}

func (i noteItem) Description() string {
	return excerpt(i.note.Content(), excerptWidth)
}

func (i noteItem) FilterValue() string { return i.note.Title() }

// single line: "  3. Title  excerpt"
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%s %s  %s",
		mutedStyle.Render(fmt.Sprintf("%3d.", it.index)),
		it.Title(),
		mutedStyle.Render(it.Description()))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

type keyMap struct {
	Details key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:    key.NewBinding(key.WithKeys("esc", "enter", "q"), key.WithHelp("esc", "back")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
}

type previewModel struct {
	list   list.Model
	detail bool
	width  int
	height int
}

func newModel(notes []model.Note, file string) previewModel {
	items := make([]list.Item, 0, len(notes))
	for i, n := range notes {
		items = append(items, noteItem{index: i + 1, note: n})
	}

	l := list.New(items, itemDelegate{}, 80, 20)
	l.Title = fmt.Sprintf("%s   %s %d",
		titleStyle.Render(file),
		accentStyle.Render("notes"), len(notes))
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("note", "notes")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.Details} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{keys.Details} }

	return previewModel{list: l, width: 80, height: 24}
}

// Run opens the read-only preview and blocks until the user quits.
func Run(notes []model.Note, file string) error {
	p := tea.NewProgram(newModel(notes, file), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.detail {
			if key.Matches(msg, keys.Back) {
				m.detail = false
			}
			return m, nil
		}
		// keys belong to the filter input while it is open
		if m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit) && m.list.FilterState() == list.Unfiltered:
			return m, tea.Quit
		case key.Matches(msg, keys.Details):
			if _, ok := m.list.SelectedItem().(noteItem); ok {
				m.detail = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m previewModel) View() string {
	if m.detail {
		if it, ok := m.list.SelectedItem().(noteItem); ok {
			return borderStyle.Render(detailView(it))
		}
	}
	return borderStyle.Render(m.list.View())
}

func detailView(it noteItem) string {
	b, err := json.MarshalIndent(it.note, "", "  ")
	body := string(b)
	if err != nil {
		body = "cannot render: " + err.Error()
	}
	return strings.Join([]string{
		titleStyle.Render(fmt.Sprintf("#%d  %s", it.index, it.Title())),
		"",
		body,
		"",
		helpStyle.Render("esc back"),
	}, "\n")
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= max {
		return s
	}
	return model.Truncate(s, max-1) + "…"
}

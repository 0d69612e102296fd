package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/settings"
	"github.com/MrJamesThe3rd/factura/internal/templates"
)

// TemplatesModel browses the template registry and sets the default template.
type TemplatesModel struct {
	CommonModel
	settingsService *settings.Service

	list    list.Model
	current string
	status  string
	err     error
}

func NewTemplatesModel(settingsSvc *settings.Service) TemplatesModel {
	all := templates.List()

	items := make([]list.Item, len(all))
	for i, t := range all {
		items[i] = templateItem{tpl: t}
	}

	delegate := &templateDelegate{}

	l := list.New(items, delegate, 80, 24)
	l.Title = "Templates"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return TemplatesModel{
		settingsService: settingsSvc,
		list:            l,
	}
}

func (m TemplatesModel) Title() string { return "Templates" }

func (m TemplatesModel) ShortHelp() string {
	return "Esc: back | Enter: make default"
}

func (m TemplatesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TemplatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case currentTemplateMsg:
		m.err = msg.err
		if msg.err == nil {
			m.current = msg.id
			m.status = msg.status
			m.list.SetDelegate(&templateDelegate{current: msg.id})
			m.list.Title = templatesTitle(msg.id)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if item, ok := m.list.SelectedItem().(templateItem); ok {
				return m, m.saveCmd(item.tpl.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TemplatesModel) View() string {
	content := m.list.View()

	switch {
	case m.err != nil:
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + content
	case m.status != "":
		content = successStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func templatesTitle(current string) string {
	n, total := templates.Position(current)
	return fmt.Sprintf("Templates (default %d of %d)", n, total)
}

type currentTemplateMsg struct {
	id     string
	status string
	err    error
}

func (m TemplatesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.settingsService.Resolve(ctx, UserID)

		return currentTemplateMsg{id: d.TemplateID, err: err}
	}
}

func (m TemplatesModel) saveCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, err := m.settingsService.Get(ctx, UserID)
		if err != nil {
			return currentTemplateMsg{err: err}
		}

		st.TemplateID = id
		if err := m.settingsService.Save(ctx, UserID, st); err != nil {
			return currentTemplateMsg{err: err}
		}

		return currentTemplateMsg{id: id, status: "New documents will use " + id + "."}
	}
}

type templateItem struct {
	tpl templates.Template
}

func (i templateItem) Title() string       { return i.tpl.DisplayName }
func (i templateItem) Description() string { return i.tpl.Description }
func (i templateItem) FilterValue() string { return i.tpl.ID }

type templateDelegate struct {
	current string
}

func (d *templateDelegate) Height() int                             { return 3 }
func (d *templateDelegate) Spacing() int                            { return 1 }
func (d *templateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d *templateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(templateItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	name := item.tpl.DisplayName
	if item.tpl.ID == d.current {
		name += " (default)"
	}

	fmt.Fprintf(w, "%s%s\n  %s\n  %s",
		cursor,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(item.tpl.Tokens.Primary)).Render(name),
		swatches(item.tpl.Tokens),
		lipgloss.NewStyle().Faint(true).Render(item.tpl.Description),
	)
}

// swatches renders the palette of a token set, the header band first.
func swatches(t templates.TokenSet) string {
	band := lipgloss.NewStyle().
		Background(lipgloss.Color(t.HeaderGradient.From)).
		Foreground(lipgloss.Color(t.HeaderForeground())).
		Padding(0, 1).
		Render("FACTURE")

	band += lipgloss.NewStyle().
		Background(lipgloss.Color(t.HeaderGradient.To)).
		Render("   ")

	chips := make([]string, 0, 5)
	for _, hex := range []string{t.Primary, t.Secondary, t.Accent, t.Background, t.Border} {
		chips = append(chips, lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
	}

	return band + "  " + strings.Join(chips, " ")
}

package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/settings"
	"github.com/MrJamesThe3rd/factura/internal/templates"
)

const (
	pdfDir       = "./exports"
	printTimeout = 30 * time.Second
)

type documentsState int

const (
	documentsStateBrowse documentsState = iota
	documentsStateEdit
)

var statusOptions = []*document.Status{
	nil,
	new(document.StatusDraft),
	new(document.StatusSent),
	new(document.StatusPaid),
	new(document.StatusOverdue),
	new(document.StatusCancelled),
}

type DocumentsModel struct {
	CommonModel
	docService      *document.Service
	settingsService *settings.Service
	exportService   *export.Service
	printer         *Printer

	state    documentsState
	table    table.Model
	docs     []*document.Document
	currency string
	form     *huh.Form

	kindIdx   int
	statusIdx int
	dateIdx   int

	filter  document.ListFilter
	loading bool
	err     error
	status  string

	edit *documentEdit
}

// documentEdit holds the form bindings. It lives on the heap so the bound
// pointers survive the model being copied between updates.
type documentEdit struct {
	counterparty string
	notes        string
	template     string
	status       document.Status
}

func NewDocumentsModel(docSvc *document.Service, settingsSvc *settings.Service, exportSvc *export.Service, printer *Printer) DocumentsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Kind", Width: 15},
		{Title: "Number", Width: 16},
		{Title: "Counterparty", Width: 28},
		{Title: "Total", Width: 16},
		{Title: "Status", Width: 10},
		{Title: "Template", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DocumentsModel{
		docService:      docSvc,
		settingsService: settingsSvc,
		exportService:   exportSvc,
		printer:         printer,
		table:           t,
		filter:          document.ListFilter{UserID: UserID},
	}
}

func (m DocumentsModel) Title() string { return "Documents" }

func (m DocumentsModel) ShortHelp() string {
	if m.state == documentsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | p: pdf | o: print | m: paid | k/s/d: filters | r: refresh"
}

func (m DocumentsModel) Init() tea.Cmd {
	return m.loadDocsCmd()
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDocsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.docs = msg.docs
		m.currency = msg.currency
		m.refreshTable()

		return m, nil

	case documentActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = documentsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.reload {
			return m, m.loadDocsCmd()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case documentsStateBrowse:
		return m.updateBrowse(msg)
	case documentsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m DocumentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDocsCmd()
		case "e":
			return m.enterEditMode()
		case "p":
			return m, m.savePDFCmd()
		case "o":
			return m, m.printCmd()
		case "m":
			return m, m.markPaidCmd()
		case "k":
			m.kindIdx = (m.kindIdx + 1) % len(kindOptions)
			m.applyFilter()

			return m, m.loadDocsCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(statusOptions)
			m.applyFilter()

			return m, m.loadDocsCmd()
		case "d":
			m.dateIdx = (m.dateIdx + 1) % 3
			m.applyFilter()

			return m, m.loadDocsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DocumentsModel) selected() *document.Document {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return nil
	}

	return m.docs[idx]
}

func templateOptions() []huh.Option[string] {
	list := templates.List()

	opts := make([]huh.Option[string], len(list))
	for i, t := range list {
		opts[i] = huh.NewOption(t.DisplayName, t.ID)
	}

	return opts
}

func (m DocumentsModel) enterEditMode() (tea.Model, tea.Cmd) {
	doc := m.selected()
	if doc == nil {
		return m, nil
	}

	m.edit = &documentEdit{
		counterparty: doc.Counterparty.Name,
		notes:        doc.Notes,
		template:     doc.Template,
		status:       doc.Status,
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("counterparty").
			Title("Counterparty").
			Value(&m.edit.counterparty).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name cannot be empty")
				}
				return nil
			}),

		huh.NewText().
			Key("notes").
			Title("Notes").
			Value(&m.edit.notes),

		huh.NewSelect[string]().
			Key("template").
			Title("Template").
			Options(templateOptions()...).
			Value(&m.edit.template),
	}

	if doc.Kind.Payable() {
		statuses := make([]huh.Option[document.Status], len(document.Statuses))
		for i, s := range document.Statuses {
			statuses[i] = huh.NewOption(string(s), s)
		}

		fields = append(fields, huh.NewSelect[document.Status]().
			Key("status").
			Title("Status").
			Options(statuses...).
			Value(&m.edit.status))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)

	m.state = documentsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m DocumentsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = documentsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m DocumentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	dateLabels := []string{"All Time", "This Month", "Last Month"}

	statusLabel := "All"
	if s := statusOptions[m.statusIdx]; s != nil {
		statusLabel = string(*s)
	}

	header := fmt.Sprintf(
		"Filter: [k] Kind: %s | [s] Status: %s | [d] Date: %s",
		activeStyle(kindLabel(kindOptions[m.kindIdx])),
		activeStyle(statusLabel),
		activeStyle(dateLabels[m.dateIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == documentsStateEdit && m.form != nil {
		title := ""
		if doc := m.selected(); doc != nil {
			title = render.Title(doc.Kind) + " " + doc.Number
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DocumentsModel) applyFilter() {
	m.filter.Kind = kindOptions[m.kindIdx]
	m.filter.Status = statusOptions[m.statusIdx]

	now := time.Now()

	switch m.dateIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *DocumentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.docs))
	for _, doc := range m.docs {
		rows = append(rows, table.Row{
			FormatDate(doc.Date),
			render.Title(doc.Kind),
			doc.Number,
			doc.Counterparty.Name,
			FormatTotal(doc, m.currency),
			string(doc.Status),
			doc.Template,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadDocsMsg struct {
	docs     []*document.Document
	currency string
	err      error
}

func (m DocumentsModel) loadDocsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		defaults, err := m.settingsService.Resolve(ctx, UserID)
		if err != nil {
			return loadDocsMsg{err: err}
		}

		docs, err := m.docService.List(ctx, filter)

		return loadDocsMsg{docs: docs, currency: defaults.Currency, err: err}
	}
}

// documentActionMsg reports the outcome of an action on the selected document.
type documentActionMsg struct {
	status string
	reload bool
	err    error
}

func (m DocumentsModel) saveCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil || m.edit == nil {
		return nil
	}

	edited := doc.Clone()
	edited.Counterparty.Name = m.edit.counterparty
	edited.Notes = m.edit.notes
	edited.Template = m.edit.template
	edited.Status = m.edit.status

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.docService.Update(ctx, edited); err != nil {
			return documentActionMsg{err: err, reload: true}
		}

		status := "Saved " + edited.Number
		if w := TotalsWarning(edited); w != "" {
			status += " (warning: " + w + ")"
		}

		return documentActionMsg{status: status, reload: true}
	}
}

func (m DocumentsModel) savePDFCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.exportService.Render(ctx, doc, "")
		if err != nil {
			return documentActionMsg{err: err}
		}

		if err := os.MkdirAll(pdfDir, 0o755); err != nil {
			return documentActionMsg{err: err}
		}

		path := filepath.Join(pdfDir, export.Filename(doc))
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: "Wrote " + path}
	}
}

func (m DocumentsModel) printCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), printTimeout)
		defer cancel()

		tree, err := m.exportService.Tree(ctx, doc, "")
		if err != nil {
			return documentActionMsg{err: err}
		}

		if err := m.printer.Print(ctx, tree); err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: "Sent " + doc.Number + " to the printer"}
	}
}

func (m DocumentsModel) markPaidCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil || !doc.Kind.Payable() {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		paid, err := m.docService.MarkPaid(ctx, UserID, doc.ID, "")
		if err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: fmt.Sprintf("%s paid on %s", paid.Number, FormatDate(paid.PaidDate)), reload: true}
	}
}

package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/importer"
	"github.com/MrJamesThe3rd/factura/internal/render"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateKindSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

// ImportModel creates a draft document from the lines of a spreadsheet export.
type ImportModel struct {
	CommonModel
	docService    *document.Service
	importService *importer.Service

	state        importState
	filePicker   filepicker.Model
	selectedKind document.Kind
	kindCursor   int

	status string
	err    error
}

func NewImportModel(docSvc *document.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		docService:    docSvc,
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Lines" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateKindSelect {
			return m.updateKindSelect(msg)
		}

	case importResultMsg:
		m.state = importStateResult

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.err = nil
		m.status = describeDraft(msg.doc, msg.lines)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateKindSelect
		return m, nil
	case importStateResult:
		m.state = importStateKindSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateKindSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.kindCursor > 0 {
			m.kindCursor--
		}
	case tea.KeyDown:
		if m.kindCursor < len(document.Kinds)-1 {
			m.kindCursor++
		}
	case tea.KeyEnter:
		m.selectedKind = document.Kinds[m.kindCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateKindSelect:
		return m.viewKindSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewKindSelect() string {
	s := "Create a draft from a CSV file:\n\n"

	for i, kind := range document.Kinds {
		cursor := " "
		if i == m.kindCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, render.Title(kind))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", render.Title(m.selectedKind), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

func describeDraft(doc *document.Document, lines int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Created %s %s with %d line(s).", render.Title(doc.Kind), doc.Number, lines)

	if doc.Kind.Priced() {
		fmt.Fprintf(&sb, "\nTotal: %s", render.Money(doc.Total, ""))
	}

	if w := TotalsWarning(doc); w != "" {
		fmt.Fprintf(&sb, "\nWarning: %s", w)
	}

	return sb.String()
}

// Messages

type importResultMsg struct {
	doc   *document.Document
	lines int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	kind := m.selectedKind

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Import(importer.FormatCSV, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		params := document.CreateParams{
			UserID: UserID,
			Kind:   kind,
			Notes:  "Importé depuis " + filepath.Base(path),
		}

		if kind.Priced() {
			params.Items = importer.Items(rows)
		} else {
			params.DeliveryItems = importer.DeliveryItems(rows)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		doc, err := m.docService.Create(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{doc: doc, lines: len(rows)}
	}
}

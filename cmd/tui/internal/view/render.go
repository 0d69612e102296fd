package view

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/render/markup"
)

type renderState int

const (
	renderStatePick renderState = iota
	renderStateOptions
	renderStateResult
)

// renderChoice holds the form bindings on the heap so they survive model copies.
type renderChoice struct {
	template string
	formats  []string
}

// RenderModel renders a document described in a JSON file, without storing it.
type RenderModel struct {
	CommonModel
	exportService *export.Service
	html          *markup.Renderer

	state      renderState
	filePicker filepicker.Model
	form       *huh.Form
	choice     *renderChoice

	path   string
	doc    *document.Document
	status string
	err    error
}

func NewRenderModel(exportSvc *export.Service) RenderModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return RenderModel{
		exportService: exportSvc,
		html:          markup.New(markup.Options{}),
		filePicker:    fp,
	}
}

func (m RenderModel) Title() string { return "Render JSON Document" }

func (m RenderModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m RenderModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m RenderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == renderStatePick {
			return m, Back
		}

		m.state = renderStatePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	if res, ok := msg.(renderResultMsg); ok {
		m.state = renderStateResult
		m.err = res.err
		m.status = strings.Join(res.written, "\n")

		return m, nil
	}

	switch m.state {
	case renderStatePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			return m.loadDocument(path)
		}

		return m, cmd

	case renderStateOptions:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		return m, m.renderCmd(m.doc, m.path, *m.choice)
	}

	return m, nil
}

func (m RenderModel) loadDocument(path string) (tea.Model, tea.Cmd) {
	doc, err := readDocument(path)
	if err != nil {
		m.state = renderStateResult
		m.err = err

		return m, nil
	}

	m.path = path
	m.doc = doc
	m.choice = &renderChoice{template: doc.Template, formats: []string{"pdf"}}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("template").
				Title("Template").
				Options(templateOptions()...).
				Value(&m.choice.template),

			huh.NewMultiSelect[string]().
				Key("formats").
				Title("Formats").
				Options(huh.NewOption("PDF", "pdf"), huh.NewOption("HTML", "html")).
				Value(&m.choice.formats),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = renderStateOptions

	return m, m.form.Init()
}

// readDocument decodes a document file and establishes its derived totals.
func readDocument(path string) (*document.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	if !doc.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownKind, doc.Kind)
	}

	doc.UserID = UserID
	doc.Recalculate()

	return &doc, nil
}

func (m RenderModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case renderStatePick:
		return style.Render("Select a document JSON file:\n\n" + m.filePicker.View())
	case renderStateOptions:
		return style.Render(fmt.Sprintf("%s %s\n\n%s", m.doc.Kind, m.doc.Number, m.form.View()))
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render("Written:") + "\n" + m.status + "\n\n(Esc to go back)")
}

type renderResultMsg struct {
	written []string
	err     error
}

func (m RenderModel) renderCmd(doc *document.Document, path string, choice renderChoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tree, err := m.exportService.Tree(ctx, doc, choice.template)
		if err != nil {
			return renderResultMsg{err: err}
		}

		dir := filepath.Dir(path)
		base := strings.TrimSuffix(export.Filename(doc), ".pdf")

		var written []string

		for _, format := range choice.formats {
			var b []byte

			switch format {
			case "pdf":
				b, err = m.exportService.Render(ctx, doc, choice.template)
			case "html":
				b, err = m.html.RenderPage(tree)
			}

			if err != nil {
				return renderResultMsg{written: written, err: err}
			}

			out := filepath.Join(dir, base+"."+format)
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return renderResultMsg{written: written, err: err}
			}

			written = append(written, out)
		}

		return renderResultMsg{written: written}
	}
}

package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker

	startDate time.Time
	endDate   time.Time
	allTime   bool

	form    *huh.Form
	opts    *exportOptions
	spinner spinner.Model
	summary string
}

// exportOptions holds the form bindings on the heap so they survive model copies.
type exportOptions struct {
	path     string
	kind     string
	template string
	archive  bool
}

func (o exportOptions) kindFilter() *document.Kind {
	if o.kind == "" {
		return nil
	}

	return new(document.Kind(o.kind))
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		opts:            &exportOptions{path: "./exports"},
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export Documents" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.startDate = tfMsg.Start
		m.endDate = tfMsg.End
		m.allTime = tfMsg.All
		m.form = m.buildPathForm()
		m.state = exportStatePath
		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()
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

	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.opts))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		if result.err != nil {
			m.err = result.err
		}
		m.summary = result.body
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ExportModel) buildPathForm() *huh.Form {
	kinds := []huh.Option[string]{huh.NewOption("All kinds", "")}
	for _, k := range document.Kinds {
		kinds = append(kinds, huh.NewOption(string(k), string(k)))
	}

	tpls := append([]huh.Option[string]{huh.NewOption("Each document's own", "")}, templateOptions()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.opts.path),

			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Options(kinds...).
				Value(&m.opts.kind),

			huh.NewSelect[string]().
				Key("template").
				Title("Template").
				Options(tpls...).
				Value(&m.opts.template),

			huh.NewConfirm().
				Key("archive").
				Title("Bundle into a single zip?").
				Value(&m.opts.archive),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering documents...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Summary:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(opts exportOptions) tea.Cmd {
	tf := TimeframeSelectedMsg{Start: m.startDate, End: m.endDate, All: m.allTime}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		filter := documentFilter(tf, opts.kindFilter())

		if opts.archive {
			return m.archive(ctx, filter, opts)
		}

		items, err := m.exportService.Export(ctx, filter, opts.template, opts.path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if len(items) == 0 {
			return exportResultMsg{body: "No documents in this range."}
		}

		return exportResultMsg{body: m.exportService.GenerateSummary(items)}
	}
}

func (m ExportModel) archive(ctx context.Context, filter document.ListFilter, opts exportOptions) tea.Msg {
	if err := os.MkdirAll(opts.path, 0o755); err != nil {
		return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
	}

	path := filepath.Join(opts.path, fmt.Sprintf("export_%s.zip", time.Now().Format("20060102")))

	f, err := os.Create(path)
	if err != nil {
		return exportResultMsg{err: fmt.Errorf("creating archive: %w", err)}
	}

	n, err := m.exportService.Archive(ctx, filter, opts.template, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(path)
		return exportResultMsg{err: err}
	}

	return exportResultMsg{body: fmt.Sprintf("%d document(s) written to %s", n, path)}
}

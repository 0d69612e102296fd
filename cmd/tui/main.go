package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/factura/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/factura/internal/config"
	"github.com/MrJamesThe3rd/factura/internal/database"
	"github.com/MrJamesThe3rd/factura/internal/document"
	documentStore "github.com/MrJamesThe3rd/factura/internal/document/store"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/importer"
	"github.com/MrJamesThe3rd/factura/internal/importer/csvitems"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/logo/memstore"
	"github.com/MrJamesThe3rd/factura/internal/logo/redisstore"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/render/pdf"
	"github.com/MrJamesThe3rd/factura/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/factura/internal/settings/store"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

type model struct {
	docService      *document.Service
	settingsService *settings.Service
	logoService     *logo.Service
	importService   *importer.Service
	exportService   *export.Service
	printer         *view.Printer

	currentView View

	documentsView view.DocumentsModel
	importView    view.ImportModel
	templatesView view.TemplatesModel
	logoView      view.LogoModel
	exportView    view.ExportModel
	renderView    view.RenderModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDocuments View = 1
	ViewImport    View = 2
	ViewTemplates View = 3
	ViewLogo      View = 4
	ViewExport    View = 5
	ViewRender    View = 6
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	ctx := context.Background()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		fatal("failed to migrate database", err)
	}

	var logoStore logo.Store = memstore.New(cfg.Logo.StoreCeiling)
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			fatal("failed to connect to redis", err)
		}

		logoStore = redisstore.New(client)
	}

	rates, err := cfg.AllowedRates()
	if err != nil {
		fatal("invalid allowed rates", err)
	}

	allowed := totals.NewRateValidator(rates)

	settingsSvc := settings.NewService(settingsStore.New(db), settings.Fallback{
		TemplateID: cfg.Render.DefaultTemplate,
		TaxRate:    cfg.Render.TaxRate,
		Currency:   cfg.Render.Currency,
	}, allowed)
	docSvc := document.NewService(documentStore.New(db), settingsSvc, allowed)
	logoSvc := logo.NewService(logoStore, logo.Options{
		Budget:    cfg.Logo.Budget,
		MaxRaw:    cfg.Logo.MaxUpload,
		MaxPixels: cfg.Logo.MaxPixels,
	}, cfg.Logo.StoreCeiling)
	expSvc := export.NewService(docSvc, logoSvc, settingsSvc, pdf.New(pdf.Options{}), render.Options{
		Currency:    cfg.Render.Currency,
		Attribution: cfg.Render.Attribution,
	})
	impSvc := importer.NewService(map[importer.Format]importer.Importer{importer.FormatCSV: csvitems.NewParser()})
	printer := view.NewPrinter()

	return model{
		docService:      docSvc,
		settingsService: settingsSvc,
		logoService:     logoSvc,
		importService:   impSvc,
		exportService:   expSvc,
		printer:         printer,
		currentView:     ViewMenu,
		documentsView:   view.NewDocumentsModel(docSvc, settingsSvc, expSvc, printer),
		importView:      view.NewImportModel(docSvc, impSvc),
		templatesView:   view.NewTemplatesModel(settingsSvc),
		logoView:        view.NewLogoModel(logoSvc),
		exportView:      view.NewExportModel(expSvc),
		renderView:      view.NewRenderModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDocuments
				m.documentsView = view.NewDocumentsModel(m.docService, m.settingsService, m.exportService, m.printer)

				return m, m.documentsView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.docService, m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewTemplates
				m.templatesView = view.NewTemplatesModel(m.settingsService)

				return m, m.templatesView.Init()
			case "4":
				m.currentView = ViewLogo
				m.logoView = view.NewLogoModel(m.logoService)

				return m, m.logoView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			case "6":
				m.currentView = ViewRender
				m.renderView = view.NewRenderModel(m.exportService)

				return m, m.renderView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDocuments:
		var newModel tea.Model
		newModel, cmd = m.documentsView.Update(msg)
		m.documentsView = newModel.(view.DocumentsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewTemplates:
		var newModel tea.Model
		newModel, cmd = m.templatesView.Update(msg)
		m.templatesView = newModel.(view.TemplatesModel)
	case ViewLogo:
		var newModel tea.Model
		newModel, cmd = m.logoView.Update(msg)
		m.logoView = newModel.(view.LogoModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewRender:
		var newModel tea.Model
		newModel, cmd = m.renderView.Update(msg)
		m.renderView = newModel.(view.RenderModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Factura TUI\n\n" +
				"1. Documents\n" +
				"2. Import Lines from CSV\n" +
				"3. Templates\n" +
				"4. Logo\n" +
				"5. Export Documents\n" +
				"6. Render a JSON Document\n\n" +
				"q. Quit",
		)
	case ViewDocuments:
		return m.documentsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewTemplates:
		return m.templatesView.View()
	case ViewLogo:
		return m.logoView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewRender:
		return m.renderView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

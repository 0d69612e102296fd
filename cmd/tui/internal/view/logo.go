package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/factura/internal/logo"
)

type logoState int

const (
	logoStateShow logoState = iota
	logoStatePick
	logoStateUploading
)

type LogoModel struct {
	CommonModel
	logoService *logo.Service

	state      logoState
	filePicker filepicker.Model
	asset      *logo.Asset

	loading bool
	status  string
	err     error
}

func NewLogoModel(logoSvc *logo.Service) LogoModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return LogoModel{
		logoService: logoSvc,
		filePicker:  fp,
		loading:     true,
	}
}

func (m LogoModel) Title() string { return "Logo" }

func (m LogoModel) ShortHelp() string {
	if m.state == logoStatePick {
		return "Esc: cancel | Enter: upload"
	}

	return "Esc: back | u: upload | d: delete"
}

func (m LogoModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LogoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLogoMsg:
		m.loading = false
		m.state = logoStateShow
		m.asset = msg.asset
		m.err = msg.err

		if msg.status != "" {
			m.status = msg.status
		}

		return m, nil

	case tea.KeyMsg:
		if m.state == logoStateShow {
			switch msg.String() {
			case "esc":
				return m, Back
			case "u":
				m.state = logoStatePick
				m.status = ""

				return m, m.filePicker.Init()
			case "d":
				if m.asset != nil {
					return m, m.removeCmd()
				}
			}

			return m, nil
		}

		if m.state == logoStatePick && msg.Type == tea.KeyEsc {
			m.state = logoStateShow
			return m, nil
		}
	}

	if m.state != logoStatePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = logoStateUploading
		m.status = fmt.Sprintf("Compressing %s...", filepath.Base(path))

		return m, m.uploadCmd(path)
	}

	return m, cmd
}

func (m LogoModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch {
	case m.loading:
		return style.Render("Loading logo...")
	case m.state == logoStatePick:
		return lipgloss.NewStyle().Padding(1).Render("Select an image:\n\n" + m.filePicker.View())
	case m.state == logoStateUploading:
		return style.Render(m.status)
	}

	var body string

	switch {
	case m.err != nil:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.asset == nil:
		body = "No logo stored. Documents render without one."
	default:
		info := m.asset.Info
		body = fmt.Sprintf(
			"File:       %s\nSource:     %s, %s\nStored:     %s, %dx%d px\nQuality:    %.0f %%\nUploaded:   %s",
			info.Name,
			info.SourceMimeType, humanBytes(info.OriginalSize),
			humanBytes(info.CompressedSize), info.Width, info.Height,
			info.CompressionQuality*100,
			info.UploadDate.Local().Format("02/01/2006 15:04"),
		)
	}

	if m.status != "" {
		body = successStyle.Render(m.status) + "\n\n" + body
	}

	return style.Render(body + "\n\n(u to upload, d to delete, Esc to back)")
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f Mo", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f Ko", float64(n)/(1<<10))
	}

	return fmt.Sprintf("%d o", n)
}

type loadLogoMsg struct {
	asset  *logo.Asset
	status string
	err    error
}

func (m LogoModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		asset, err := m.logoService.Find(ctx, UserID)

		return loadLogoMsg{asset: asset, err: err}
	}
}

func (m LogoModel) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return loadLogoMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		asset, err := m.logoService.Upload(ctx, UserID, filepath.Base(path), raw)
		if err != nil {
			// the previous logo is untouched on failure
			prev, _ := m.logoService.Find(ctx, UserID)
			return loadLogoMsg{asset: prev, err: uploadError(err)}
		}

		return loadLogoMsg{asset: asset, status: "Logo updated."}
	}
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, logo.ErrUnsupportedType):
		return fmt.Errorf("not an image we can read: %w", err)
	case errors.Is(err, logo.ErrTooLarge):
		return fmt.Errorf("file too large: %w", err)
	case errors.Is(err, logo.ErrCompressionExhausted):
		return fmt.Errorf("image too detailed to fit the storage budget: %w", err)
	}

	return err
}

func (m LogoModel) removeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.logoService.Remove(ctx, UserID); err != nil {
			return loadLogoMsg{err: err}
		}

		return loadLogoMsg{status: "Logo removed."}
	}
}

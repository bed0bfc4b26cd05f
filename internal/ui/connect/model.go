// Package connect is the tracker connection wizard: credentials form,
// connection validation, and project selection.
package connect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/credential"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source"
	"github.com/nhle/foundry/internal/source/jira"
	"github.com/nhle/foundry/internal/theme"
)

// Mode represents the wizard step.
type Mode int

const (
	ModeForm Mode = iota
	ModeValidating
	ModeProjects
	ModeResult
)

// DoneMsg signals the wizard should close. Saved is true when a
// connection was configured.
type DoneMsg struct {
	Saved bool
}

// validatedMsg carries the result of a connection validation attempt.
type validatedMsg struct {
	info     *source.ConnectionInfo
	projects []source.ProjectInfo
	err      error
}

// Model is the Bubble Tea model for the connection wizard.
type Model struct {
	mode Mode
	cfg  *model.AppConfig

	form         *huh.Form
	projectsForm *huh.Form

	// Form field values (huh binds to these)
	formBaseURL    string
	formEmail      string
	formToken      string
	formJQL        string
	formStartField string

	selectedProjects []string
	available        []source.ProjectInfo
	accountName      string

	spinner   spinner.Model
	resultErr error
	width     int
	height    int
}

// New creates the connection wizard prefilled from the current config.
func New(cfg *model.AppConfig, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		mode:           ModeForm,
		cfg:            cfg,
		formBaseURL:    cfg.Jira.BaseURL,
		formEmail:      cfg.Jira.Email,
		formJQL:        cfg.Jira.JQL,
		formStartField: cfg.Jira.StartDateField,
		spinner:        sp,
		width:          width,
		height:         height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the credentials form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Tracker server URL (e.g., https://jira.example.com)").
				Placeholder("https://jira.example.com").
				Value(&m.formBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Description("Account email for basic auth; leave empty to use a bearer PAT").
				Placeholder("you@example.com").
				Value(&m.formEmail),
			huh.NewInput().
				Title("API Token").
				Description("API token or personal access token").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken).
				Validate(validateRequired("Token")),
			huh.NewInput().
				Title("Default JQL").
				Description("Optional custom JQL filter").
				Placeholder(`project = "ROAD" ORDER BY created ASC`).
				Value(&m.formJQL),
			huh.NewInput().
				Title("Start Date Field").
				Description("Custom field id carrying the issue start date").
				Placeholder("customfield_10015").
				Value(&m.formStartField),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildProjectsForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(m.available))
	for _, p := range m.available {
		label := fmt.Sprintf("%s - %s", p.Key, p.Name)
		opt := huh.NewOption(label, p.Key)
		for _, sel := range m.cfg.Jira.Projects {
			if sel == p.Key {
				opt = opt.Selected(true)
			}
		}
		options = append(options, opt)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Projects").
				Description("Projects to sync, fetched in selection order").
				Options(options...).
				Value(&m.selectedProjects),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w > 80 {
		w = 80
	}
	return w
}

// Update handles messages for the connection wizard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case validatedMsg:
		if msg.err != nil {
			m.mode = ModeResult
			m.resultErr = msg.err
			return m, nil
		}
		m.available = msg.projects
		m.accountName = msg.info.AccountName
		m.mode = ModeProjects
		m.projectsForm = m.buildProjectsForm()
		return m, m.projectsForm.Init()

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case ModeForm:
		return m.updateForm(msg)
	case ModeProjects:
		return m.updateProjectsForm(msg)
	case ModeResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() == "esc" || keyMsg.String() == "enter" {
				return m, func() tea.Msg { return DoneMsg{} }
			}
		}
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.validate()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

func (m Model) updateProjectsForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.projectsForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.projectsForm = f
	}

	if m.projectsForm.State == huh.StateCompleted {
		return m.save()
	}
	if m.projectsForm.State == huh.StateAborted {
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// validate stores the token in the keyring and tests the connection.
func (m Model) validate() (Model, tea.Cmd) {
	if err := credential.Set(credential.KeyJiraToken, m.formToken); err != nil {
		m.mode = ModeResult
		m.resultErr = fmt.Errorf("saving credential: %w", err)
		return m, nil
	}

	baseURL := strings.TrimRight(m.formBaseURL, "/")
	email := m.formEmail
	token := m.formToken
	startField := m.formStartField

	m.mode = ModeValidating
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			adapter := jira.NewAdapter(baseURL, email, token, startField)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			info, err := adapter.ValidateConnection(ctx)
			if err != nil {
				return validatedMsg{err: err}
			}
			projects, err := adapter.GetProjects(ctx)
			if err != nil {
				return validatedMsg{err: err}
			}
			return validatedMsg{info: info, projects: projects}
		},
	)
}

// save persists the connection settings and closes the wizard.
func (m Model) save() (Model, tea.Cmd) {
	m.cfg.Jira.BaseURL = strings.TrimRight(m.formBaseURL, "/")
	m.cfg.Jira.Email = m.formEmail
	m.cfg.Jira.JQL = m.formJQL
	if m.formStartField != "" {
		m.cfg.Jira.StartDateField = m.formStartField
	}
	m.cfg.Jira.Projects = m.selectedProjects

	if err := model.SaveConfig(model.DefaultConfigPath(), m.cfg); err != nil {
		m.mode = ModeResult
		m.resultErr = err
		return m, nil
	}

	return m, func() tea.Msg { return DoneMsg{Saved: true} }
}

// View renders the current wizard step.
func (m Model) View() string {
	var content string

	switch m.mode {
	case ModeForm:
		content = m.form.View()

	case ModeValidating:
		content = fmt.Sprintf("%s Validating connection...", m.spinner.View())

	case ModeProjects:
		header := theme.HelpStyle.Render(
			fmt.Sprintf("Connected as %s", m.accountName),
		)
		content = lipgloss.JoinVertical(lipgloss.Left, header, m.projectsForm.View())

	case ModeResult:
		if m.resultErr != nil {
			content = lipgloss.NewStyle().
				Foreground(theme.ColorRed).
				Render(fmt.Sprintf("Connection failed:\n%v\n\nPress esc to close.", m.resultErr))
		}
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the wizard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// validateRequired returns a huh validator that rejects empty values.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateURL rejects values that do not parse as absolute http(s) URLs.
func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be a valid URL (e.g., https://jira.example.com)")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https")
	}
	return nil
}

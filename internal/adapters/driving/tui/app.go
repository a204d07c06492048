package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/views/report"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// App is the report browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	reportView *report.View
	statusBar  *status.Bar

	// session holds the browsed run; pending the options of an in-flight re-run.
	session Session
	pending domain.LocateOptions
	running bool

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser for session.
func NewApp(ports *Ports, session Session) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if session.Report == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingReport)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reportView:  report.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		session:     session,
		currentView: messages.ViewReport,
	}
	a.reportView.SetReport(session.Report)
	a.statusBar.SetMessage(summary(session.Report))
	return a, nil
}

// WithContext sets the context re-runs are bound to.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("bmap - "+a.session.Report.RunID),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.LocateRequested:
		return a, a.locate(msg.Options)

	case messages.LocateCompleted:
		a.running = false
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.session.Options = a.pending
		a.session.Report = msg.Report
		a.reportView.SetReport(msg.Report)
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage(summary(msg.Report))
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.reportView, cmd = a.reportView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = messages.ViewReport
		} else if keymap.Matches(k, a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.currentView = messages.ViewHelp
		return a, nil
	case keymap.Matches(k, a.keymap.Rerun):
		return a, a.locate(a.session.Options)
	case keymap.Matches(k, a.keymap.Multiples):
		opts := a.session.Options
		opts.ShowMultiples = !opts.ShowMultiples
		return a, a.locate(opts)
	case keymap.Matches(k, a.keymap.Sort):
		opts := a.session.Options
		opts.Sort = a.nextSort()
		return a, a.locate(opts)
	}

	var cmd tea.Cmd
	a.reportView, cmd = a.reportView.Update(msg)
	return a, cmd
}

// nextSort flips the unit the shown map was sorted by.
func (a *App) nextSort() domain.SortUnit {
	results := a.session.Report.Results
	i := a.reportView.Current()
	if i < len(results) && results[i].Unit == domain.SortCM {
		return domain.SortBP
	}
	return domain.SortCM
}

// locate returns a command re-running the pipeline with opts. Requests
// made while a run is in flight are dropped.
func (a *App) locate(opts domain.LocateOptions) tea.Cmd {
	if a.running {
		return nil
	}
	a.running = true
	a.pending = opts
	a.statusBar.SetState(status.StateRunning)

	ctx, input, service := a.ctx, a.session.Input, a.ports.Locate
	return func() tea.Msg {
		r, err := service.Locate(ctx, input, opts)
		return messages.LocateCompleted{Report: r, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.reportView.View() + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("[esc] back to report"))
	return b.String()
}

// summary is the status line of a finished run.
func summary(r *domain.LocateReport) string {
	s := fmt.Sprintf("run %s: %d queries on %d maps", shortID(r.RunID), len(r.Queries), len(r.Results))
	if failed := len(r.Failed()); failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Session returns the browsed run.
func (a *App) Session() Session {
	return a.session
}

// ReportView returns the report view.
func (a *App) ReportView() *report.View {
	return a.reportView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Running reports whether a re-run is in flight.
func (a *App) Running() bool {
	return a.running
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.reportView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

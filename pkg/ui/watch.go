package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/business/yield/infra/render"
)

// ScanFunc performs one scan refresh.
type ScanFunc func(ctx context.Context) ([]domain.Pool, error)

// Model is the Bubble Tea model for watch mode. It refreshes the
// opportunity table on an interval and on demand.
type Model struct {
	scan       ScanFunc
	interval   time.Duration
	chainLabel string
	onRefresh  func() // invoked after every successful refresh

	keys    KeyMap
	spinner spinner.Model

	pools       []domain.Pool
	lastRefresh time.Time
	loading     bool
	errMsg      string
	quitting    bool
	width       int
}

// Option configures the watch model.
type Option func(*Model)

// WithChainLabel sets the chain shown in the header.
func WithChainLabel(label string) Option {
	return func(m *Model) {
		m.chainLabel = label
	}
}

// WithOnRefresh registers a callback for successful refreshes.
func WithOnRefresh(fn func()) Option {
	return func(m *Model) {
		m.onRefresh = fn
	}
}

// New creates a watch model that refreshes via scan every interval.
func New(scan ScanFunc, interval time.Duration, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := Model{
		scan:       scan,
		interval:   interval,
		chainLabel: strings.Join(domain.SupportedChains, " + "),
		keys:       DefaultKeyMap(),
		spinner:    sp,
		loading:    true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m Model) refreshCmd() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		pools, err := scan(context.Background())
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return PoolsMsg{Pools: pools, At: time.Now()}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if !m.loading {
				m.loading = true
				m.errMsg = ""
				return m, tea.Batch(m.spinner.Tick, m.refreshCmd())
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case PoolsMsg:
		m.pools = msg.Pools
		m.lastRefresh = msg.At
		m.loading = false
		m.errMsg = ""
		if m.onRefresh != nil {
			m.onRefresh()
		}
		return m, m.tickCmd()

	case ErrorMsg:
		m.loading = false
		m.errMsg = msg.Error.Error()
		// Keep the stale table visible and retry on the next tick.
		return m, m.tickCmd()

	case TickMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the watch dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Yield Scout — USDC Watch (%s)", m.chainLabel)))
	b.WriteString("\n\n")

	if m.loading && len(m.pools) == 0 {
		b.WriteString(fmt.Sprintf("%s fetching pools...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString(BoxStyle.Render(m.renderTable()))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render("refresh failed: " + m.errMsg))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("last refresh %s · next in %s",
		m.lastRefresh.Format("15:04:05"), m.interval)
	if m.loading {
		status = m.spinner.View() + " refreshing..."
	}
	b.WriteString(MutedStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q quit · r refresh"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderTable() string {
	if len(m.pools) == 0 {
		return "No USDC pools matched the filters."
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf(" %2s  %-20s %-10s %7s  %9s  %-5s",
		"#", "Protocol", "Chain", "APY", "TVL", "Risk")))
	b.WriteString("\n")

	for i, p := range m.pools {
		risk := riskStyle(p.Risk).Render(fmt.Sprintf("%-5s", p.Risk))
		b.WriteString(fmt.Sprintf(" %2d  %-20s %-10s %7s  %9s  %s\n",
			i+1,
			p.Protocol,
			p.Chain,
			render.FormatPct(p.APY),
			render.FormatUSD(p.TVLUsd),
			risk,
		))
	}

	return strings.TrimRight(b.String(), "\n")
}

func riskStyle(tier domain.RiskTier) lipgloss.Style {
	switch tier {
	case domain.RiskLow:
		return RiskLowStyle
	case domain.RiskMedium:
		return RiskMediumStyle
	default:
		return RiskHighStyle
	}
}

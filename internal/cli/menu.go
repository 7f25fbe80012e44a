package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sysward/internal/sysinfo"
)

// Menu panel indices.
const (
	panelHealth = iota
	panelFindings
	panelBackups
	panelCount
)

type menuModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	snapshot *sysinfo.Snapshot
	findings []sysinfo.Finding
	backups  []backupSnapshot

	// State.
	loading bool
	err     error
}

type backupSnapshot struct {
	name string
	size string
	when string
}

// menuDataMsg carries loaded data back to the model.
type menuDataMsg struct {
	snapshot *sysinfo.Snapshot
	findings []sysinfo.Finding
	backups  []backupSnapshot
	err      error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	findingCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	findingWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	healthyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newMenuModel() menuModel {
	return menuModel{
		activePanel: panelHealth,
		loading:     true,
	}
}

func (m menuModel) Init() tea.Cmd {
	return loadMenuData
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadMenuData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case menuDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.findings = msg.findings
		m.backups = msg.backups
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m menuModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" sysward ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Sampling host...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	healthPanel := m.renderHealthPanel()
	findingsPanel := m.renderFindingsPanel()
	backupsPanel := m.renderBackupsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		healthPanel = m.applyPanelStyle(panelHealth, healthPanel, colWidth-4)
		findingsPanel = m.applyPanelStyle(panelFindings, findingsPanel, colWidth-4)
		backupsPanel = m.applyPanelStyle(panelBackups, backupsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, healthPanel, findingsPanel, backupsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		healthPanel = m.applyPanelStyle(panelHealth, healthPanel, panelWidth)
		findingsPanel = m.applyPanelStyle(panelFindings, findingsPanel, panelWidth)
		backupsPanel = m.applyPanelStyle(panelBackups, backupsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, healthPanel, findingsPanel, backupsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m menuModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m menuModel) renderHealthPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Health"))
	b.WriteString("\n")

	if m.snapshot == nil {
		b.WriteString("  No snapshot available.")
		return b.String()
	}

	s := m.snapshot
	b.WriteString(fmt.Sprintf("  %-8s %.1f%%\n", "cpu", s.CPUPercent))
	b.WriteString(fmt.Sprintf("  %-8s %.1f%%\n", "memory", s.MemoryPercent))
	b.WriteString(fmt.Sprintf("  %-8s %.2f %.2f %.2f\n", "load", s.Load1, s.Load5, s.Load15))
	for _, d := range s.Disks {
		b.WriteString(fmt.Sprintf("  %-8s %s %.1f%%\n", "disk", d.Mount, d.Percent))
	}

	return b.String()
}

func (m menuModel) renderFindingsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Findings"))
	b.WriteString("\n")

	if len(m.findings) == 0 {
		b.WriteString(healthyStyle.Render("  All checks passed."))
		return b.String()
	}

	for _, f := range m.findings {
		sev := styleForSeverity(f.Severity).Render(fmt.Sprintf("[%s]", f.Severity))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, f.Message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d finding(s)", len(m.findings)))

	return b.String()
}

func (m menuModel) renderBackupsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Backups"))
	b.WriteString("\n")

	if len(m.backups) == 0 {
		b.WriteString("  No backups found.")
		return b.String()
	}

	for _, bk := range m.backups {
		b.WriteString(fmt.Sprintf("  %s  %8s  %s\n", bk.when, bk.size, bk.name))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d backup(s)", len(m.backups)))

	return b.String()
}

func styleForSeverity(severity sysinfo.Severity) lipgloss.Style {
	switch severity {
	case sysinfo.SeverityCritical:
		return findingCritical
	case sysinfo.SeverityWarning:
		return findingWarning
	default:
		return lipgloss.NewStyle()
	}
}

func loadMenuData() tea.Msg {
	var result menuDataMsg

	// Sample host metrics from the Prober.
	if Prober != nil {
		snap, err := Prober.Snapshot(context.Background())
		if err != nil {
			result.err = fmt.Errorf("sampling host: %w", err)
			return result
		}
		result.snapshot = snap

		if Settings != nil {
			result.findings = sysinfo.Check(snap, configuredThresholds())
		}
	}

	// Load backup listing from the Manager.
	if Backups != nil {
		archives, err := Backups.List()
		if err != nil {
			result.err = fmt.Errorf("listing backups: %w", err)
			return result
		}
		// Keep the panel scannable; newest entries come first.
		if len(archives) > 8 {
			archives = archives[:8]
		}
		for _, a := range archives {
			result.backups = append(result.backups, backupSnapshot{
				name: filepath.Base(a.Path),
				size: fmt.Sprintf("%.1f MB", float64(a.Size)/(1<<20)),
				when: a.ModTime.Format("2006-01-02 15:04"),
			})
		}
	}

	return result
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive TUI with health, findings, and backup panels",
	Long: `Launch an interactive terminal view showing host health, threshold
findings, and recent backups.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Prober == nil {
			return fmt.Errorf("prober not initialized")
		}
		p := tea.NewProgram(newMenuModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenRegression
	screenSuites
	screenProbeRun
	screenDetail
)

type menuAction int

const (
	actionRegression menuAction = iota
	actionSuites
	actionInit
	actionQuit
)

type menuItem struct {
	title  string
	desc   string
	action menuAction
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type checkItem struct {
	res domain.CheckResult
	ran bool
}

func (c checkItem) Title() string {
	status := "·"
	if c.ran {
		status = string(c.res.Status)
	}
	return fmt.Sprintf("[%s] %s %s", status, c.res.ID, c.res.Description)
}

func (c checkItem) Description() string {
	return fmt.Sprintf("%s • %s", c.res.Category, c.res.Severity)
}

func (c checkItem) FilterValue() string { return c.res.ID + " " + c.res.Description }

type suiteItem struct {
	ref domain.ProbeSuiteRef
}

func (s suiteItem) Title() string       { return s.ref.Name }
func (s suiteItem) Description() string { return filepath.Base(s.ref.Path) }
func (s suiteItem) FilterValue() string { return s.ref.Name }

type probeItem struct {
	res domain.ProbeResult
}

func (p probeItem) Title() string {
	return fmt.Sprintf("[%s] %s", p.res.Status, p.res.Name)
}

func (p probeItem) Description() string {
	if p.res.Error != nil {
		return fmt.Sprintf("%s • %s", p.res.Error.Kind, clampString(p.res.Error.Message, 60))
	}
	return fmt.Sprintf("HTTP %d • %dms • %s", p.res.Response.StatusCode, p.res.Response.LatencyMS, p.res.Severity)
}

func (p probeItem) FilterValue() string { return p.res.Name }

type model struct {
	theme Theme
	deps  Deps

	scr  screen
	back screen

	menu   list.Model
	checks list.Model
	suites list.Model
	probes list.Model

	detailTitle string
	detail      string

	workspaceFound bool
	workspaceRoot  string
	cwd            string

	report   *domain.SuiteReport
	run      *domain.ProbeRun
	running  bool
	runnerCh chan probeRunDoneMsg
	toast    string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func newModel(deps Deps) model {
	items := []list.Item{
		menuItem{"Regression", "Run the v1/v2 migration check catalog", actionRegression},
		menuItem{"Probe suites", "Run live probes against the default environment", actionSuites},
		menuItem{"Init workspace", "Scaffold config, fixtures, envs and probes here", actionInit},
		menuItem{"Quit", "Exit ordercompat", actionQuit},
	}

	m := model{
		theme:  DefaultTheme(),
		deps:   deps,
		scr:    screenHome,
		menu:   newList(items, "ordercompat"),
		checks: newList(pendingChecks(deps.Regression), "Regression checks"),
		suites: newList(nil, "Probe suites"),
		probes: newList(nil, "Probe results"),
	}

	wd, err := os.Getwd()
	if err == nil {
		m.cwd = wd
		if deps.WorkspaceLocator != nil {
			if root, findErr := deps.WorkspaceLocator.FindRoot(wd); findErr == nil {
				m.workspaceFound = true
				m.workspaceRoot = root
			}
		}
	}

	return m
}

func pendingChecks(s RegressionSuite) []list.Item {
	if s == nil {
		return nil
	}
	out := make([]list.Item, 0, len(s.Checks()))
	for _, c := range s.Checks() {
		out = append(out, checkItem{res: domain.CheckResult{
			ID:          c.ID,
			Category:    c.Category,
			Description: c.Description,
			Severity:    c.Severity,
		}})
	}
	return out
}

func (m model) Init() tea.Cmd { return cmdRefreshWorkspace(m.deps) }

func (m model) filtering() bool {
	switch m.scr {
	case screenHome:
		return m.menu.FilterState() == list.Filtering
	case screenRegression:
		return m.checks.FilterState() == list.Filtering
	case screenSuites:
		return m.suites.FilterState() == list.Filtering
	case screenProbeRun:
		return m.probes.FilterState() == list.Filtering
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width-4, msg.Height-10
		m.menu.SetSize(w, h)
		m.checks.SetSize(w, h)
		m.suites.SetSize(w, h)
		m.probes.SetSize(w, h)
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace initialized at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case regressionDoneMsg:
		m.running = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			if len(msg.report.Results) == 0 {
				return m, nil
			}
		}
		rep := msg.report
		m.report = &rep
		items := make([]list.Item, 0, len(rep.Results))
		for _, r := range rep.Results {
			items = append(items, checkItem{res: r, ran: true})
		}
		cmd := m.checks.SetItems(items)
		if msg.err == nil {
			m.toast = fmt.Sprintf("%s (%d/%d passed)", rep.Verdict, rep.Tally.Passed, rep.Tally.Total)
			if msg.id != "" {
				m.toast += " saved " + msg.id
			}
		}
		return m, cmd

	case suitesLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, suiteItem{ref: r})
		}
		if len(items) == 0 {
			m.toast = "No probe suites found"
		}
		return m, m.suites.SetItems(items)

	case probeRunDoneMsg:
		m.running = false
		m.runnerCh = nil
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			if len(msg.run.Results) == 0 {
				return m, nil
			}
		}
		run := msg.run
		m.run = &run
		items := make([]list.Item, 0, len(run.Results))
		for _, r := range run.Results {
			items = append(items, probeItem{res: r})
		}
		m.scr = screenProbeRun
		if msg.err == nil {
			t := run.Tally
			m.toast = fmt.Sprintf("%s: %d passed, %d failed, %d warned", run.SuiteName, t.Passed, t.Failed, t.Warned)
		}
		return m, m.probes.SetItems(items)

	case tea.KeyMsg:
		if m.filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "esc", "b":
			return m.goBack(), nil

		case "r":
			if m.scr == screenRegression && !m.running {
				m.running = true
				m.toast = "Running regression catalog..."
				return m, cmdRunRegression(m.deps, m.workspaceRoot)
			}

		case "enter":
			return m.open()
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenRegression:
		m.checks, cmd = m.checks.Update(msg)
	case screenSuites:
		m.suites, cmd = m.suites.Update(msg)
	case screenProbeRun:
		m.probes, cmd = m.probes.Update(msg)
	}
	return m, cmd
}

func (m model) goBack() model {
	switch m.scr {
	case screenDetail:
		m.scr = m.back
	case screenProbeRun:
		m.scr = screenSuites
	default:
		m.scr = screenHome
	}
	return m
}

func (m model) open() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenHome:
		it, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		switch it.action {
		case actionQuit:
			return m, tea.Quit
		case actionRegression:
			m.scr = screenRegression
			if m.report == nil && !m.running {
				m.running = true
				m.toast = "Running regression catalog..."
				return m, cmdRunRegression(m.deps, m.workspaceRoot)
			}
			return m, nil
		case actionSuites:
			if !m.workspaceFound {
				m.toast = "Workspace not found (init one first)"
				return m, nil
			}
			m.scr = screenSuites
			return m, cmdLoadSuites(m.workspaceRoot)
		case actionInit:
			if m.workspaceFound {
				m.toast = "Already inside a workspace"
				return m, nil
			}
			return m, cmdInitWorkspaceHere(m.deps, m.cwd)
		}

	case screenRegression:
		it, ok := m.checks.SelectedItem().(checkItem)
		if !ok {
			return m, nil
		}
		m.detailTitle = it.res.ID
		m.detail = renderCheckDetails(it.res, it.ran)
		m.back = screenRegression
		m.scr = screenDetail

	case screenSuites:
		it, ok := m.suites.SelectedItem().(suiteItem)
		if !ok || m.running {
			return m, nil
		}
		m.running = true
		m.toast = "Running " + it.ref.Name + "..."
		ch, cmd := startProbeRunAsync(m.workspaceRoot, it.ref.Path, m.deps.Logger, m.deps.Debug)
		m.runnerCh = ch
		return m, cmd

	case screenProbeRun:
		it, ok := m.probes.SelectedItem().(probeItem)
		if !ok {
			return m, nil
		}
		m.detailTitle = it.res.Name
		m.detail = renderProbeDetails(it.res) + "\n" + renderProbeResponse(it.res)
		m.back = screenProbeRun
		m.scr = screenDetail
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("ordercompat") + "\n" +
		m.theme.Subtitle.Render("orders v1/v2 compatibility: regression catalog and live probes") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render("Workspace: " + m.workspaceRoot)
	} else {
		banner = m.theme.Help.Render("No workspace found (Init workspace creates one here)")
	}
	if m.toast != "" {
		banner += "\n" + m.theme.Toast.Render(m.toast)
	}

	top := header + "\n" + banner + "\n\n"

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(top + m.theme.Card.Render(m.menu.View()) + "\n" + help)

	case screenRegression:
		summary := ""
		if m.report != nil {
			t := m.report.Tally
			summary = fmt.Sprintf("Verdict: %s  passed %d  failed %d  critical %d\n",
				m.theme.StyleFor(verdictStatus(m.report.Verdict)).Render(string(m.report.Verdict)), t.Passed, t.Failed, t.CriticalFailures)
		}
		help := m.theme.Help.Render("enter details • r rerun • / search • esc back • q home")
		return wrap.Render(top + summary + m.theme.Card.Render(m.checks.View()) + "\n" + help)

	case screenSuites:
		help := m.theme.Help.Render("enter run against default env • esc back • q home")
		return wrap.Render(top + m.theme.Card.Render(m.suites.View()) + "\n" + help)

	case screenProbeRun:
		summary := ""
		if m.run != nil {
			v := m.run.Tally.Verdict()
			summary = fmt.Sprintf("%s @ %s  verdict: %s\n",
				m.run.SuiteName, m.run.BaseURL, m.theme.StyleFor(verdictStatus(v)).Render(string(v)))
		}
		help := m.theme.Help.Render("enter details • esc suites • q home")
		return wrap.Render(top + summary + m.theme.Card.Render(m.probes.View()) + "\n" + help)

	case screenDetail:
		card := m.theme.Card.Render(m.theme.Title.Render(m.detailTitle) + "\n\n" + m.detail)
		help := m.theme.Help.Render("esc/b back • q home")
		return wrap.Render(top + card + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}

func verdictStatus(v domain.Verdict) string {
	switch v {
	case domain.VerdictSafe:
		return "PASS"
	case domain.VerdictDoNotDeploy:
		return "FAIL"
	}
	return "WARN"
}

package tui

import "github.com/aalvaropc/ordercompat/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type regressionDoneMsg struct {
	report domain.SuiteReport
	id     string
	err    error
}

type suitesLoadedMsg struct {
	root string
	refs []domain.ProbeSuiteRef
	err  error
}

type probeRunDoneMsg struct {
	run domain.ProbeRun
	id  string
	err error
}

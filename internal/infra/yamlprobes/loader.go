// Package yamlprobes loads probe suites from YAML files under the workspace.
package yamlprobes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	probesDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{probesDir: "probes"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithProbesDir(dir string) Option {
	return func(l *Loader) {
		if strings.TrimSpace(dir) != "" {
			l.probesDir = dir
		}
	}
}

var _ ports.ProbeSuiteLoader = (*Loader)(nil)

func (l *Loader) LoadSuite(path string) (domain.ProbeSuite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ProbeSuite{}, &domain.OpError{
			Op:   "yamlprobes.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var ys yamlSuite
	if err := yaml.Unmarshal(b, &ys); err != nil {
		return domain.ProbeSuite{}, &domain.OpError{
			Op:   "yamlprobes.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, ys)
}

func (l *Loader) ListSuites(root string) ([]domain.ProbeSuiteRef, error) {
	dir := filepath.Join(root, l.probesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlprobes.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ProbeSuiteRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readSuiteName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.ProbeSuiteRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readSuiteName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlSuite struct {
	Name   string            `yaml:"name"`
	Vars   map[string]string `yaml:"vars"`
	Probes []yamlProbe       `yaml:"probes"`
}

type yamlProbe struct {
	Name     string            `yaml:"name"`
	Path     string            `yaml:"path"`
	Query    map[string]string `yaml:"query"`
	Headers  map[string]string `yaml:"headers"`
	Severity string            `yaml:"severity"`
	Expect   yamlExpect        `yaml:"expect"`
	Capture  map[string]string `yaml:"capture"`
}

type yamlExpect struct {
	Status *int `yaml:"status"`
	MaxMS  *int `yaml:"max_ms"`

	Deprecated     *bool `yaml:"deprecated"`
	LegacyContract bool  `yaml:"legacy_contract"`
	LegacyShape    bool  `yaml:"legacy_shape"`

	IssuesPresent []string `yaml:"issues_present"`
	IssuesAbsent  []string `yaml:"issues_absent"`

	JSONPath map[string]yamlJSONPathAssertion `yaml:"jsonpath"`
}

type yamlJSONPathAssertion struct {
	Exists   bool     `yaml:"exists"`
	Eq       *string  `yaml:"eq"`
	Contains *string  `yaml:"contains"`
	Matches  *string  `yaml:"matches"`
	Gt       *float64 `yaml:"gt"`
	Lt       *float64 `yaml:"lt"`
}

func mapAndValidate(path string, ys yamlSuite) (domain.ProbeSuite, error) {
	if strings.TrimSpace(ys.Name) == "" {
		return domain.ProbeSuite{}, invalidField(path, "name", "suite name is required")
	}

	suite := domain.ProbeSuite{
		Name:   ys.Name,
		Vars:   domain.Vars(ys.Vars),
		Probes: make([]domain.ProbeSpec, 0, len(ys.Probes)),
	}
	if suite.Vars == nil {
		suite.Vars = domain.Vars{}
	}

	for i, p := range ys.Probes {
		field := fmt.Sprintf("probes[%d]", i)

		if strings.TrimSpace(p.Name) == "" {
			return domain.ProbeSuite{}, invalidField(path, field+".name", "probe name is required")
		}
		if !strings.HasPrefix(strings.TrimSpace(p.Path), "/") {
			return domain.ProbeSuite{}, invalidField(path, field+".path", "path must start with /")
		}

		sev, err := domain.ParseSeverity(p.Severity)
		if err != nil {
			return domain.ProbeSuite{}, invalidField(path, field+".severity", err.Error())
		}

		present, err := parseKinds(p.Expect.IssuesPresent)
		if err != nil {
			return domain.ProbeSuite{}, invalidField(path, field+".expect.issues_present", err.Error())
		}
		absent, err := parseKinds(p.Expect.IssuesAbsent)
		if err != nil {
			return domain.ProbeSuite{}, invalidField(path, field+".expect.issues_absent", err.Error())
		}

		jp, err := mapJSONPath(p.Expect.JSONPath)
		if err != nil {
			return domain.ProbeSuite{}, invalidField(path, field+".expect.jsonpath", err.Error())
		}

		for name, expr := range p.Capture {
			if strings.TrimSpace(name) == "" || !strings.HasPrefix(strings.TrimSpace(expr), "$") {
				return domain.ProbeSuite{}, invalidField(path, field+".capture", fmt.Sprintf("invalid rule %q: %q", name, expr))
			}
		}

		suite.Probes = append(suite.Probes, domain.ProbeSpec{
			Name:     p.Name,
			Path:     strings.TrimSpace(p.Path),
			Query:    nonNil(p.Query),
			Headers:  nonNil(p.Headers),
			Severity: sev,
			Expect: domain.ProbeExpect{
				Status:         p.Expect.Status,
				MaxLatencyMS:   p.Expect.MaxMS,
				Deprecated:     p.Expect.Deprecated,
				LegacyContract: p.Expect.LegacyContract,
				LegacyShape:    p.Expect.LegacyShape,
				IssuesPresent:  present,
				IssuesAbsent:   absent,
				JSONPath:       jp,
			},
			Capture: domain.CaptureSpec(nonNil(p.Capture)),
		})
	}

	return suite, nil
}

func parseKinds(in []string) ([]domain.IssueKind, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]domain.IssueKind, 0, len(in))
	for _, s := range in {
		k, err := domain.ParseIssueKind(strings.ToUpper(strings.TrimSpace(s)))
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func mapJSONPath(in map[string]yamlJSONPathAssertion) (map[string]domain.JSONPathAssertion, error) {
	out := make(map[string]domain.JSONPathAssertion, len(in))
	for k, v := range in {
		if !strings.HasPrefix(k, "$") {
			return nil, fmt.Errorf("expression %q must start with $", k)
		}
		out[k] = domain.JSONPathAssertion{
			Exists:   v.Exists,
			Eq:       v.Eq,
			Contains: v.Contains,
			Matches:  v.Matches,
			Gt:       v.Gt,
			Lt:       v.Lt,
		}
	}
	return out, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlprobes.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}

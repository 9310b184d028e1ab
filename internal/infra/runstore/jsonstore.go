package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

const defaultReportsDir = "reports"
const maskValue = "********"

// Report kinds, also used as sub-directories of the reports dir.
const (
	KindProbeRun   = "probes"
	KindRegression = "regression"
)

type JSONStore struct {
	rootDir        string
	reportsDirName string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: <reports>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	reportsDir := cfg.Paths.ReportsDir
	if strings.TrimSpace(reportsDir) == "" {
		reportsDir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: reportsDir,
		maskingEnabled: cfg.Masking.Enabled,
		writeIndex:     false,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

// SaveProbeRun writes a probe run to <reports>/probes/<ts>_<suite>.json.
func (s *JSONStore) SaveProbeRun(run domain.ProbeRun) (string, error) {
	name := run.SuiteName
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(run.SuitePath), filepath.Ext(run.SuitePath))
	}

	toSave := run
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = s.now()
	}
	if s.maskingEnabled {
		toSave = maskProbeRun(toSave)
	}

	return s.save(KindProbeRun, name, toSave.StartedAt, toSave, indexEntry{
		Name:    run.SuiteName,
		Env:     run.EnvironmentName,
		Verdict: string(run.Tally.Verdict()),
	})
}

// SaveSuiteReport writes a regression report to <reports>/regression/.
// Reports carry no response data, so masking does not apply.
func (s *JSONStore) SaveSuiteReport(rep domain.SuiteReport) (string, error) {
	toSave := rep
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = s.now()
	}
	return s.save(KindRegression, rep.Name, toSave.StartedAt, toSave, indexEntry{
		Name:    rep.Name,
		Verdict: string(rep.Verdict),
	})
}

type indexEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	File      string    `json:"file"`
	Name      string    `json:"name"`
	Env       string    `json:"env,omitempty"`
	Verdict   string    `json:"verdict"`
	StartedAt time.Time `json:"started_at"`
}

func (s *JSONStore) save(kind, name string, startedAt time.Time, v any, entry indexEntry) (string, error) {
	root := filepath.Join(s.rootDir, s.reportsDirName)
	dir := filepath.Join(root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := startedAt.UTC()
	slug := slugify(name)
	if slug == "" {
		slug = "run"
	}

	id, path := uniquePath(dir, fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug))

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		entry.ID = id
		entry.Kind = kind
		entry.File = filepath.Join(kind, filepath.Base(path))
		entry.StartedAt = ts
		_ = appendIndex(root, entry)
	}

	return id, nil
}

// uniquePath picks base.json, then base_2.json, base_3.json... so two runs
// started in the same second never overwrite each other.
func uniquePath(dir, base string) (string, string) {
	id := base
	for n := 2; ; n++ {
		path := filepath.Join(dir, id+".json")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return id, path
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func appendIndex(root string, entry indexEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(root, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// maskProbeRun returns a masked copy (does NOT mutate the input).
func maskProbeRun(run domain.ProbeRun) domain.ProbeRun {
	out := run
	out.Results = make([]domain.ProbeResult, 0, len(run.Results))

	for _, pr := range run.Results {
		c := pr

		// Deep copy maps/slices we will touch.
		c.Captured = cloneVars(pr.Captured)
		c.Response = cloneResponseSnapshot(pr.Response)

		for k := range c.Captured {
			if isSensitiveKey(k) {
				c.Captured[k] = maskValue
			}
		}

		for k := range c.Response.Headers {
			if isSensitiveHeaderKey(k) {
				vals := c.Response.Headers[k]
				for i := range vals {
					vals[i] = maskValue
				}
				c.Response.Headers[k] = vals
			}
		}

		out.Results = append(out.Results, c)
	}

	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}

func isSensitiveHeaderKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}

	return isSensitiveKey(kk) ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}

func cloneVars(in domain.Vars) domain.Vars {
	if in == nil {
		return nil
	}
	out := make(domain.Vars, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneResponseSnapshot(in domain.ResponseSnapshot) domain.ResponseSnapshot {
	out := in

	if in.Headers != nil {
		out.Headers = make(map[string][]string, len(in.Headers))
		for k, v := range in.Headers {
			cp := make([]string, len(v))
			copy(cp, v)
			out.Headers[k] = cp
		}
	} else {
		out.Headers = map[string][]string{}
	}

	if in.Body != nil {
		out.Body = make([]byte, len(in.Body))
		copy(out.Body, in.Body)
	}

	return out
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

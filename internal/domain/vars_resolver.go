package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VarResolver resolves {{var}} placeholders in probe paths, queries and headers.
// It supports built-ins: {{$timestamp}} and {{$uuid}}.
type VarResolver struct {
	now     func() time.Time
	newUUID func() (string, error)
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithUUID overrides UUID generation (useful for tests).
func WithUUID(gen func() (string, error)) VarResolverOption {
	return func(r *VarResolver) { r.newUUID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{
		now: time.Now,
		newUUID: func() (string, error) {
			u, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return u.String(), nil
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver caches built-ins for one probe so repeated {{$uuid}}
// placeholders resolve to the same value.
type RuntimeResolver struct {
	vars     Vars
	builtins Vars
}

func (r *VarResolver) NewRuntime(vars Vars) (*RuntimeResolver, error) {
	u, err := r.newUUID()
	if err != nil {
		return nil, &OpError{
			Op:   "vars.builtins.uuid",
			Kind: KindExecution,
			Err:  err,
		}
	}

	return &RuntimeResolver{
		vars: Merge(vars),
		builtins: Vars{
			"$timestamp": strconv.FormatInt(r.now().Unix(), 10),
			"$uuid":      u,
		},
	}, nil
}

// ResolveProbe returns a copy of p with placeholders resolved in the path,
// query values and header values.
func (rr *RuntimeResolver) ResolveProbe(p ProbeSpec) (ProbeSpec, error) {
	out := p

	path, err := rr.ResolveString(p.Path)
	if err != nil {
		return ProbeSpec{}, wrapField(err, "probe.path")
	}
	out.Path = path

	if out.Query, err = rr.resolveMap(p.Query); err != nil {
		return ProbeSpec{}, wrapField(err, "probe.query")
	}
	if out.Headers, err = rr.resolveMap(p.Headers); err != nil {
		return ProbeSpec{}, wrapField(err, "probe.headers")
	}
	return out, nil
}

func (rr *RuntimeResolver) resolveMap(in map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		rv, err := rr.ResolveString(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = rv
	}
	return out, nil
}

// ResolveString resolves placeholders in a string.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	rest := s
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])

		closeIdx := strings.Index(rest[open+2:], "}}")
		if closeIdx < 0 {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindInvalidConfig,
				Err:  errors.New("unclosed placeholder"),
			}
		}

		name := strings.TrimSpace(rest[open+2 : open+2+closeIdx])
		if name == "" {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindInvalidConfig,
				Err:  errors.New("empty placeholder"),
			}
		}

		val, ok := rr.builtins[name]
		if !ok {
			val, ok = rr.vars[name]
		}
		if !ok {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindMissingVar,
				Err:  fmt.Errorf("%w: %s", ErrMissingVar, name),
			}
		}
		b.WriteString(val)
		rest = rest[open+2+closeIdx+2:]
	}
}

func wrapField(err error, field string) error {
	kind := KindExecution
	var oe *OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &OpError{
		Op:   "vars.resolve",
		Kind: kind,
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}

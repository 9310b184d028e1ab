package domain

import (
	"errors"
	"testing"
	"time"
)

func testRuntime(t *testing.T, vars Vars, uuidFn func() (string, error)) *RuntimeResolver {
	t.Helper()
	if uuidFn == nil {
		uuidFn = func() (string, error) { return "00000000-0000-0000-0000-000000000000", nil }
	}
	vr := NewVarResolver(
		WithNow(func() time.Time { return time.Unix(1700000000, 0) }),
		WithUUID(uuidFn),
	)
	rt, err := vr.NewRuntime(vars)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

func TestResolveString_NoPlaceholders(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil)
	got, err := rt.ResolveString("/api/v2/orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/api/v2/orders" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestResolveString_VarAndBuiltins(t *testing.T) {
	rt := testRuntime(t, Vars{"user": "123"}, nil)

	got, err := rt.ResolveString("u={{ user }} ts={{$timestamp}} id={{$uuid}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "u=123 ts=1700000000 id=00000000-0000-0000-0000-000000000000"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveString_UUIDStableWithinRuntime(t *testing.T) {
	n := 0
	rt := testRuntime(t, nil, func() (string, error) {
		n++
		return "fixed-uuid", nil
	})

	got, err := rt.ResolveString("{{$uuid}}/{{$uuid}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fixed-uuid/fixed-uuid" || n != 1 {
		t.Fatalf("expected one uuid reused, got %q (calls=%d)", got, n)
	}
}

func TestResolveString_MissingVar(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil)

	_, err := rt.ResolveString("/api/v1/orders?userId={{user}}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindMissingVar) || !errors.Is(err, ErrMissingVar) {
		t.Fatalf("expected missing var error, got %v", err)
	}
}

func TestResolveString_Malformed(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil)

	for _, in := range []string{"{{user", "{{   }}"} {
		if _, err := rt.ResolveString(in); !IsKind(err, KindInvalidConfig) {
			t.Fatalf("input %q: expected invalid config, got %v", in, err)
		}
	}
}

func TestNewRuntime_UUIDFailure(t *testing.T) {
	vr := NewVarResolver(WithUUID(func() (string, error) { return "", errors.New("entropy") }))
	if _, err := vr.NewRuntime(nil); !IsKind(err, KindExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
}

func TestResolveProbe(t *testing.T) {
	rt := testRuntime(t, Vars{"user": "456", "flag": "true"}, nil)

	in := ProbeSpec{
		Name:    "v2 with items",
		Path:    "/api/v2/orders",
		Query:   map[string]string{"userId": "{{user}}", "includeItems": "{{flag}}"},
		Headers: map[string]string{"X-Request-Id": "{{$uuid}}"},
	}
	out, err := rt.ResolveProbe(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Query["userId"] != "456" || out.Query["includeItems"] != "true" {
		t.Fatalf("unexpected query: %#v", out.Query)
	}
	if out.Headers["X-Request-Id"] != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("unexpected headers: %#v", out.Headers)
	}
	if in.Query["userId"] != "{{user}}" {
		t.Fatalf("input probe must not be mutated")
	}
}

func TestResolveProbe_MissingVarKeepsKind(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil)

	_, err := rt.ResolveProbe(ProbeSpec{Path: "/x", Query: map[string]string{"userId": "{{user}}"}})
	if !IsKind(err, KindMissingVar) {
		t.Fatalf("expected missing var kind, got %v", err)
	}
}

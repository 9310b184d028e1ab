package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

func TestProbeURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		p    domain.ProbeSpec
		want string
	}{
		{
			name: "query sorted",
			base: "http://127.0.0.1:5005",
			p:    domain.ProbeSpec{Path: "/api/v2/orders", Query: map[string]string{"userId": "789", "includeItems": "true"}},
			want: "http://127.0.0.1:5005/api/v2/orders?includeItems=true&userId=789",
		},
		{
			name: "base with prefix and trailing slash",
			base: "https://orders.example.com/gateway/",
			p:    domain.ProbeSpec{Path: "api/v1/orders"},
			want: "https://orders.example.com/gateway/api/v1/orders",
		},
		{
			name: "escaping",
			base: "http://localhost",
			p:    domain.ProbeSpec{Path: "/api/v2/orders", Query: map[string]string{"userId": "a b&c"}},
			want: "http://localhost/api/v2/orders?userId=a+b%26c",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ProbeURL(tc.base, tc.p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestProbeURL_InvalidBase(t *testing.T) {
	for _, base := range []string{"", "   ", "/relative", "127.0.0.1:5005"} {
		if _, err := ProbeURL(base, domain.ProbeSpec{Path: "/x"}); !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("base %q: expected invalid config, got %v", base, err)
		}
	}
}

func TestBuildRequest_SendsGETWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/compat/orders" || r.URL.Query().Get("userId") != "123" {
			t.Errorf("unexpected url: %s", r.URL)
		}
		if r.Header.Get("Accept") != "application/json" || r.Header.Get("X-Client") != "legacy-dashboard" {
			t.Errorf("unexpected headers: %v", r.Header)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := BuildRequest(context.Background(), server.URL, domain.ProbeSpec{
		Path:    "/api/compat/orders",
		Query:   map[string]string{"userId": "123"},
		Headers: map[string]string{"X-Client": "legacy-dashboard"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed request: %v", err)
	}
	resp.Body.Close()
}

package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// ProbeURL joins baseURL and the probe path and encodes the query. Query keys
// come out sorted, so the URL is stable across runs.
func ProbeURL(baseURL string, p domain.ProbeSpec) (string, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return "", &domain.OpError{
			Op:   "httpclient.url",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("probe %q: base url is empty", p.Name),
		}
	}

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("base url %q must be absolute", base)
		}
		return "", &domain.OpError{
			Op:   "httpclient.url",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	path := strings.TrimSpace(p.Path)
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimRight(u.Path, "/") + path

	if len(p.Query) > 0 {
		q := u.Query()
		for k, v := range p.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// BuildRequest builds the GET request for a resolved probe.
func BuildRequest(ctx context.Context, baseURL string, p domain.ProbeSpec) (*http.Request, error) {
	target, err := ProbeURL(baseURL, p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

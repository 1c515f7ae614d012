package wealthfolio

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/luoyee/wealthfolio/date"
)

// diskCache is an http.RoundTripper that caches GET responses on disk. Cache
// keys include today's date, so every entry expires at midnight: the data the
// providers serve is daily-granular, fetching it twice a day buys nothing.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL)
	key = fmt.Sprintf("wf-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		// a failed cache write only costs a refetch tomorrow
		return resp, nil
	}
	// put consumed the body, reread it from the cache
	return c.get(key, req)
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0o600)
}

// webClient is the shared HTTP front for the data providers: daily disk
// cache, client-side rate limiting, and a request timeout.
type webClient struct {
	http  *http.Client
	limit *rate.Limiter
}

// newWebClient builds a client allowing 'rps' requests per second.
func newWebClient(rps float64, timeout time.Duration) *webClient {
	return &webClient{
		http: &http.Client{
			Transport: &diskCache{base: http.DefaultTransport},
			Timeout:   timeout,
		},
		limit: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// getJSON performs a rate-limited GET and decodes the JSON response.
// Numbers are kept as json.Number so callers can parse them into decimals
// without a float round trip.
func (c *webClient) getJSON(ctx context.Context, addr string, data any) error {
	if err := c.limit.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s%s: %s", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(data)
}

package producers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"driver/internal/apperrors"

	"github.com/sony/gobreaker"
)

// FetchURL performs a GET against url through cb, the engine's network
// producer harness. HTTP-level freshness/ETag bookkeeping is left out:
// the engine's own red/green validation already decides whether
// FetchUrl needs to re-run, so the producer itself stays a plain
// fetch-and-store.
func FetchURL(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, url string) ([]byte, error) {
	call := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	b, err := RunNetworkProducer(cb, call)
	if err != nil {
		return nil, apperrors.NewIO("fetch "+url, err)
	}
	return b, nil
}

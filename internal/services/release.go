package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	domain "deskprefs/internal/domain/preferences"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// maxReleaseBody caps how much of a release response is read.
const maxReleaseBody = 1 << 20

// ReleaseClient checks a release endpoint for the latest published version.
// It understands the GitHub "latest release" document as well as the
// {success, data: {version, latest, page_url}} envelope.
type ReleaseClient struct {
	url        string
	version    string
	timeout    time.Duration
	httpClient *http.Client
	group      singleflight.Group
	logger     *slog.Logger
}

// NewReleaseClient creates a client for url reporting version as the running
// version. A zero timeout disables the per-request limit.
func NewReleaseClient(url, version string, timeout time.Duration, logger *slog.Logger) *ReleaseClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReleaseClient{
		url:        url,
		version:    version,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// CheckForUpdate fetches the latest release. Concurrent callers share one
// request, which outlives a cancelled caller and is bounded by the client
// timeout only.
func (c *ReleaseClient) CheckForUpdate(ctx context.Context) (domain.CheckResult, error) {
	ch := c.group.DoChan("latest", func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return domain.CheckResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.CheckResult{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("Shared in-flight release check")
		}
		return res.Val.(domain.CheckResult), nil
	}
}

func (c *ReleaseClient) fetch(ctx context.Context) (domain.CheckResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.CheckResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.CheckResult{}, fmt.Errorf("requesting latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CheckResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReleaseBody))
	if err != nil {
		return domain.CheckResult{}, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return domain.CheckResult{}, fmt.Errorf("release response is not valid JSON")
	}

	return c.parse(gjson.ParseBytes(body))
}

func (c *ReleaseClient) parse(doc gjson.Result) (domain.CheckResult, error) {
	if data := doc.Get("data"); data.IsObject() {
		if success := doc.Get("success"); success.Exists() && !success.Bool() {
			return domain.CheckResult{}, fmt.Errorf("release check rejected: %s", doc.Get("msg").String())
		}
		result := domain.CheckResult{
			Version: data.Get("version").String(),
			Latest:  data.Get("latest").String(),
			PageURL: data.Get("page_url").String(),
		}
		if result.Version == "" {
			result.Version = c.version
		}
		return result, nil
	}

	if doc.Get("draft").Bool() || doc.Get("prerelease").Bool() {
		return domain.CheckResult{Version: c.version}, nil
	}
	tag := doc.Get("tag_name").String()
	if tag == "" {
		return domain.CheckResult{}, fmt.Errorf("release response has no tag_name")
	}
	return domain.CheckResult{
		Version: c.version,
		Latest:  tag,
		PageURL: doc.Get("html_url").String(),
	}, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
)

// Client downloads the raw price listing. Every call is a single attempt.
type Client interface {
	Fetch(ctx context.Context) (*models.RawDocument, error)
	URL() string
}

type client struct {
	http         *resty.Client
	url          string
	maxBodyBytes int64
	now          func() time.Time
}

func NewClient(conf *config.Config) Client {
	return newClient(conf.Source)
}

func newClient(cfg config.SourceConfig) *client {
	httpClient := util.NewRestyClient().
		SetRetryCount(0).
		SetTimeout(cfg.Timeout).
		SetDoNotParseResponse(true).
		SetHeaders(map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.5",
		})

	return &client{
		http:         httpClient,
		url:          cfg.URL,
		maxBodyBytes: cfg.MaxBodyBytes,
		now:          time.Now,
	}
}

func (c *client) URL() string {
	return c.url
}

func (c *client) Fetch(ctx context.Context) (*models.RawDocument, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		return nil, c.fetchError(err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
		return nil, &models.FetchError{
			Kind:       models.FetchErrorHTTPStatus,
			URL:        c.url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("status %s", resp.Status()),
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBodyBytes+1))
	if err != nil {
		return nil, c.fetchError(fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > c.maxBodyBytes {
		return nil, &models.FetchError{
			Kind: models.FetchErrorNetwork,
			URL:  c.url,
			Err:  fmt.Errorf("body exceeds %d bytes", c.maxBodyBytes),
		}
	}

	return &models.RawDocument{
		URL:         c.url,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        data,
		FetchedAt:   c.now(),
	}, nil
}

func (c *client) fetchError(err error) error {
	kind := models.FetchErrorNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = models.FetchErrorTimeout
	}
	return &models.FetchError{Kind: kind, URL: c.url, Err: err}
}

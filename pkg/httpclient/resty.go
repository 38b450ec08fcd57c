package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

type Option func(*resty.Client)

func WithBearerToken(token string) Option {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

func WithHeader(key, value string) Option {
	return func(c *resty.Client) {
		c.SetHeader(key, value)
	}
}

// WithRetry retries transport errors and 429/5xx responses.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
			})
	}
}

func New(log *logger.Logger, baseURL string, timeout time.Duration, opts ...Option) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(client)
	}

	return &RestyClient{client: client, log: log}
}

func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}
	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(endpoint)
	return rc.wrap(ctx, "GET", endpoint, resp, err)
}

func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		SetBody(body)
	if result != nil {
		req.SetResult(result)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	return rc.wrap(ctx, "POST", endpoint, resp, err)
}

func (rc *RestyClient) wrap(ctx context.Context, method, endpoint string, resp *resty.Response, err error) (*BaseResponse, error) {
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	out := &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}
	if !out.IsSuccess() {
		rc.log.WarnContext(ctx, "Unexpected HTTP status",
			logger.StringField("method", method),
			logger.StringField("endpoint", endpoint),
			logger.IntField("status", out.StatusCode),
		)
		return out, fmt.Errorf("%s %s: unexpected status %d", method, endpoint, out.StatusCode)
	}
	return out, nil
}

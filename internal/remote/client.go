package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"notesync-web/internal/domain"
	"notesync-web/internal/metrics"
)

const maxResponseSize = 32 << 20

type Client struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		validate: domain.NewValidator(),
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	token    string
	body     interface{}
}

// do sends the call and decodes the envelope's data into out. A nil out
// means the caller only needs success or failure.
func (c *Client) do(ctx context.Context, req call, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(req.endpoint).Observe(time.Since(start).Seconds())
		metrics.RemoteRequests.WithLabelValues(req.endpoint, outcome(err)).Inc()
	}()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return &NetworkFailure{Endpoint: req.endpoint, Err: err}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &NetworkFailure{Endpoint: req.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &NetworkFailure{Endpoint: req.endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &NetworkFailure{Endpoint: req.endpoint, StatusCode: resp.StatusCode, Err: ErrUnauthorized}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &NetworkFailure{Endpoint: req.endpoint, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		}
		return &MalformedResponse{Endpoint: req.endpoint, Err: err}
	}

	if !env.Status {
		if env.Message == "" && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			return &NetworkFailure{Endpoint: req.endpoint, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		}
		return &ServerRejection{Endpoint: req.endpoint, Code: env.Code, Message: env.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkFailure{Endpoint: req.endpoint, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	if out == nil {
		return nil
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%s: %w", req.endpoint, ErrEmptyResult)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &MalformedResponse{Endpoint: req.endpoint, Err: err}
	}

	if err := c.validatePayload(out); err != nil {
		return &MalformedResponse{Endpoint: req.endpoint, Err: err}
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, req call) (*http.Request, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	return httpReq, nil
}

func (c *Client) validatePayload(out interface{}) error {
	v := reflect.Indirect(reflect.ValueOf(out))
	switch v.Kind() {
	case reflect.Struct:
		return c.validate.Struct(v.Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			elem := reflect.Indirect(v.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(elem.Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	var malformed *MalformedResponse
	if errors.As(err, &malformed) {
		return metrics.OutcomeMalformed
	}
	switch Classify(err) {
	case KindEmpty:
		return metrics.OutcomeEmpty
	case KindRejected:
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeNetwork
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("pageSize", fmt.Sprint(pageSize))
	return q
}

// Package httpclient implements services.HTTPRequestor over net/http.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/meur/battlebuddy/internal/models"
	"github.com/sirupsen/logrus"
)

// Options configures a Requestor. Zero values fall back to defaults.
type Options struct {
	Timeout       time.Duration // per attempt
	MaxRetries    uint64
	MaxBodyBytes  int64
	RetryInterval time.Duration // first backoff interval
	Client        *http.Client
}

const (
	defaultTimeout       = 10 * time.Second
	defaultMaxBodyBytes  = 1 << 20
	defaultRetryInterval = 250 * time.Millisecond
)

// Requestor sends GET requests and decodes JSON object bodies
type Requestor struct {
	client        *http.Client
	timeout       time.Duration
	maxRetries    uint64
	maxBodyBytes  int64
	retryInterval time.Duration
}

// New creates a Requestor
func New(opts Options) *Requestor {
	r := &Requestor{
		client:        opts.Client,
		timeout:       opts.Timeout,
		maxRetries:    opts.MaxRetries,
		maxBodyBytes:  opts.MaxBodyBytes,
		retryInterval: opts.RetryInterval,
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	if r.maxBodyBytes <= 0 {
		r.maxBodyBytes = defaultMaxBodyBytes
	}
	if r.retryInterval <= 0 {
		r.retryInterval = defaultRetryInterval
	}
	return r
}

// SendGetRequest performs the request on its own goroutine and calls
// completion exactly once, with nil on any failure.
func (r *Requestor) SendGetRequest(ctx context.Context, url string, headers map[string]string, completion func(models.Document)) {
	go func() {
		completion(r.Get(ctx, url, headers))
	}()
}

// Get performs the request synchronously, retrying transient failures
func (r *Requestor) Get(ctx context.Context, url string, headers map[string]string) models.Document {
	log := logrus.WithField("url", url)

	var doc models.Document
	operation := func() error {
		d, err := r.attempt(ctx, url, headers)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.retryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		log.Warnf("GET failed: %v, retrying in %s", err, wait)
	})
	if err != nil {
		log.Errorf("GET failed: %v", err)
		return nil
	}
	return doc
}

// statusError is a non-2xx response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func transient(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func (r *Requestor) attempt(ctx context.Context, url string, headers map[string]string) (models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, r.maxBodyBytes))
		err := &statusError{code: resp.StatusCode}
		if transient(resp.StatusCode) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > r.maxBodyBytes {
		return nil, backoff.Permanent(fmt.Errorf("response body exceeds %d bytes", r.maxBodyBytes))
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return doc, nil
}

// decodeDocument decodes a body holding exactly one JSON object, keeping
// numbers as json.Number
func decodeDocument(body []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return nil, fmt.Errorf("response has data after the JSON object")
	}
	return doc, nil
}

// Package netx is the outbound HTTP transport of the client. It knows two
// request shapes, a JSON POST and a multipart POST, keeps no state besides
// the underlying http.Client and never retries.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"time"
)

var (
	// ErrNetwork covers DNS failures, refused connections and timeouts.
	ErrNetwork = errors.New("network error")
	// ErrResponse is matched by every *StatusError and by undecodable bodies.
	ErrResponse = errors.New("unexpected response")
)

// StatusError reports a non-2xx reply.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return e.Status
	}
	return fmt.Sprintf("%s; body: %s", e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrResponse
}

// Part is the binary part of a multipart upload. The reader is consumed once.
type Part struct {
	FieldName   string
	FileName    string
	ContentType string
	Reader      io.Reader
}

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

type Client struct {
	http *http.Client
}

// NewClient returns a transport. A zero timeout means no deadline beyond
// the caller's context.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP wraps a preconfigured http.Client.
func NewClientWithHTTP(c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{http: c}
}

// PostJSONRaw sends body as JSON and returns the raw response body of a 2xx
// reply.
func (c *Client) PostJSONRaw(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, newStatusError(resp, data)
	}
	return data, nil
}

// PostJSON sends body as JSON and decodes a 2xx reply into out (if non-nil).
func (c *Client) PostJSON(ctx context.Context, url string, body any, out any) error {
	data, err := c.PostJSONRaw(ctx, url, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrResponse, err)
	}
	return nil
}

// PostMultipart streams fields followed by the file part to url. Fields are
// written in sorted key order before the file, as presigned POST policies
// require. Only the status is checked; the body is never parsed.
func (c *Client) PostMultipart(ctx context.Context, url string, fields map[string]string, file Part) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, file))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.CloseWithError(err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	// Unblocks the writer goroutine if the request never consumed the body.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(resp, data)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, file Part) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return err
		}
	}

	fw, err := mw.CreatePart(filePartHeader(file))
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, file.Reader); err != nil {
		return err
	}
	return mw.Close()
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(bytes.TrimSpace(body))}
}

package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBase = ts.URL
	return NewHTTPClient(cfg, nil), ts
}

func decodeBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var m map[string]string
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}

func memAttachment(name, body string) *models.Attachment {
	return &models.Attachment{
		Name:     name,
		Size:     int64(len(body)),
		MIMEType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestHTTPClient_Chat(t *testing.T) {
	var gotPath, gotPrompt string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrompt = decodeBody(t, r)["prompt"]
		_, _ = w.Write([]byte(`{"model_response":"hi"}`))
	}))

	reply, err := c.Chat(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "hello", gotPrompt)
	assert.Equal(t, "hi", reply.Text)
	assert.False(t, reply.IsMarkdown)
}

func TestHTTPClient_Chat_RootPath(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"markdown":"**ok**"}`))
	}))
	c.cfg.ChatPath = "/"

	reply, err := c.Chat(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/", gotPath)
	assert.True(t, reply.IsMarkdown)
}

func TestHTTPClient_Chat_Errors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	_, err := c.Chat(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadStatus)

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	c.cfg.APIBase = dead.URL

	_, err = c.Chat(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Presign(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantKey string
	}{
		{
			name:    "grant",
			status:  http.StatusOK,
			body:    `{"presigned":{"url":"http://s3/bucket","fields":{"key":"abc123","policy":"p"},"key":"abc123"}}`,
			wantKey: "abc123",
		},
		{name: "missing presigned", status: http.StatusOK, body: `{"error":"no"}`, wantErr: ErrNoGrant},
		{name: "grant without url", status: http.StatusOK, body: `{"presigned":{"key":"k"}}`, wantErr: ErrNoGrant},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrNoGrant},
		{name: "server error", status: http.StatusBadGateway, body: `down`, wantErr: ErrBadStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req map[string]string
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/presign", r.URL.Path)
				req = decodeBody(t, r)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			grant, err := c.Presign(context.Background(), "report.csv", "text/csv")
			assert.Equal(t, "report.csv", req["filename"])
			assert.Equal(t, "text/csv", req["content_type"])

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, grant.Key)
			assert.Equal(t, "p", grant.Fields["policy"])
		})
	}
}

func TestHTTPClient_Presign_NilFieldsBecomeEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"presigned":{"url":"http://s3","key":"k"}}`))
	}))

	grant, err := c.Presign(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.NotNil(t, grant.Fields)
}

func TestHTTPClient_Transfer(t *testing.T) {
	var fields map[string]string
	var file string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		file = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer storage.Close()

	c, _ := newTestClient(t, http.NotFoundHandler())
	grant := &models.PresignGrant{URL: storage.URL, Key: "abc123", Fields: map[string]string{"key": "abc123", "policy": "p"}}

	err := c.Transfer(context.Background(), grant, memAttachment("report.csv", "a,b"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"key": "abc123", "policy": "p"}, fields)
	assert.Equal(t, "a,b", file)
}

func TestHTTPClient_Transfer_ClosesFileOnFailure(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer storage.Close()

	closed := false
	att := &models.Attachment{Name: "x", Open: func() (io.ReadCloser, error) {
		return &closeTracker{Reader: strings.NewReader("data"), closed: &closed}, nil
	}}

	c, _ := newTestClient(t, http.NotFoundHandler())
	err := c.Transfer(context.Background(), &models.PresignGrant{URL: storage.URL, Key: "k"}, att)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.True(t, closed)
}

type closeTracker struct {
	io.Reader
	closed *bool
}

func (c *closeTracker) Close() error {
	*c.closed = true
	return nil
}

func TestHTTPClient_UploadInline(t *testing.T) {
	var req map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		req = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"path":"uploads/x.png"}`))
	}))

	res, err := c.UploadInline(context.Background(), "x.png", []byte("PNG"))
	require.NoError(t, err)

	assert.Equal(t, "x.png", req["filename"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("PNG")), req["contentBase64"])
	assert.Equal(t, "uploads/x.png", res.Path)
}

func TestHTTPClient_UploadInline_NoReference(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.UploadInline(context.Background(), "x.png", []byte("PNG"))
	assert.ErrorIs(t, err, ErrNoReference)
}

package netx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func ignoreHTTPKeepAlive() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	}
}

func TestPostJSON(t *testing.T) {
	t.Run("success decodes body", func(t *testing.T) {
		var gotCT, gotMethod string
		var gotBody []byte
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"model_response":"hi"}`))
		}))
		defer ts.Close()

		var out map[string]string
		err := NewClient(0).PostJSON(context.Background(), ts.URL+"/chat", map[string]string{"prompt": "hello"}, &out)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotCT)
		assert.JSONEq(t, `{"prompt":"hello"}`, string(gotBody))
		assert.Equal(t, "hi", out["model_response"])
	})

	t.Run("non-2xx is a response error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer ts.Close()

		err := NewClient(0).PostJSON(context.Background(), ts.URL, map[string]string{}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResponse)
		assert.NotErrorIs(t, err, ErrNetwork)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
		assert.Equal(t, "boom", se.Body)
	})

	t.Run("undecodable body is a response error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("plain text"))
		}))
		defer ts.Close()

		var out map[string]any
		err := NewClient(0).PostJSON(context.Background(), ts.URL, nil, &out)
		assert.ErrorIs(t, err, ErrResponse)
	})

	t.Run("raw body returned verbatim", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer ts.Close()

		data, err := NewClient(0).PostJSONRaw(context.Background(), ts.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, "not json", string(data))
	})

	t.Run("closed server is a network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := NewClient(0).PostJSON(context.Background(), ts.URL, nil, nil)
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("client timeout is a network error", func(t *testing.T) {
		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer ts.Close()
		defer close(release)

		err := NewClient(50*time.Millisecond).PostJSON(context.Background(), ts.URL, nil, nil)
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestPostMultipart(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreHTTPKeepAlive()...)

	t.Run("fields precede file part", func(t *testing.T) {
		var names []string
		var fileBody, fileName, fileCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mr, err := r.MultipartReader()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for {
				p, err := mr.NextPart()
				if err == io.EOF {
					break
				}
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				names = append(names, p.FormName())
				b, _ := io.ReadAll(p)
				if p.FormName() == "file" {
					fileBody = string(b)
					fileName = p.FileName()
					fileCT = p.Header.Get("Content-Type")
				}
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		fields := map[string]string{"key": "abc123", "policy": "p", "x-amz-signature": "sig"}
		err := NewClient(0).PostMultipart(context.Background(), ts.URL, fields, Part{
			FieldName:   "file",
			FileName:    "report.csv",
			ContentType: "text/csv",
			Reader:      strings.NewReader("a,b\n1,2\n"),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"key", "policy", "x-amz-signature", "file"}, names)
		assert.Equal(t, "a,b\n1,2\n", fileBody)
		assert.Equal(t, "report.csv", fileName)
		assert.Equal(t, "text/csv", fileCT)
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		err := NewClient(0).PostMultipart(context.Background(), ts.URL, nil, Part{FileName: "x", Reader: strings.NewReader("x")})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResponse)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("closed server is a network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := NewClient(0).PostMultipart(context.Background(), ts.URL, nil, Part{FileName: "x", Reader: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StatusError
		want string
	}{
		{"status only", &StatusError{StatusCode: 502, Status: "502 Bad Gateway"}, "502 Bad Gateway"},
		{"with body", &StatusError{StatusCode: 500, Status: "500 Internal Server Error", Body: "boom"}, "500 Internal Server Error; body: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrResponse)
		})
	}
}

package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return token, time.Now().Add(time.Hour), nil
	}}
}

func TestUploadObjectSuccess(t *testing.T) {
	t.Parallel()

	var gotBody string
	client := &Client{
		bucket:      "artesania-media",
		tokens:     staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodPost {
				t.Fatalf("expected POST, got %s", req.Method)
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "image/png" {
				t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
			}
			if !strings.Contains(req.URL.RawQuery, "uploadType=media") {
				t.Fatalf("expected media upload, got query %s", req.URL.RawQuery)
			}
			b, _ := io.ReadAll(req.Body)
			gotBody = string(b)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"name":"ok"}`)),
				Header:     http.Header{},
			}
		})},
	}

	url, err := client.UploadObject(context.Background(), "products/product-1/file.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	if gotBody != "png-bytes" {
		t.Fatalf("body not forwarded, got %q", gotBody)
	}
	want := "https://storage.googleapis.com/artesania-media/products/product-1/file.png"
	if url != want {
		t.Fatalf("unexpected public url %s", url)
	}
}

func TestUploadObjectFailure(t *testing.T) {
	t.Parallel()

	client := &Client{
		bucket:      "artesania-media",
		tokens:     staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusForbidden,
				Status:     "403 Forbidden",
				Body:       io.NopCloser(strings.NewReader(`{"error":"denied"}`)),
				Header:     http.Header{},
			}
		})},
	}

	if _, err := client.UploadObject(context.Background(), "products/file.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestUploadObjectValidation(t *testing.T) {
	t.Parallel()

	empty := &Client{}
	if _, err := empty.UploadObject(context.Background(), "key", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without token source")
	}

	client := &Client{bucket: "bucket", tokens: staticTokenSource("token")}
	if _, err := client.UploadObject(context.Background(), "   ", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestTokenCaching(t *testing.T) {
	t.Parallel()

	calls := 0
	ts := &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		calls++
		return "cached", time.Now().Add(time.Hour), nil
	}}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil {
			t.Fatalf("token fetch: %v", err)
		}
		if token != "cached" {
			t.Fatalf("unexpected token %s", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", calls)
	}
}

func TestPublicURLEscapesSegments(t *testing.T) {
	t.Parallel()

	client := &Client{bucket: "bucket"}
	got := client.PublicURL("products/my file.png")
	if got != "https://storage.googleapis.com/bucket/products/my%20file.png" {
		t.Fatalf("unexpected url %s", got)
	}
}

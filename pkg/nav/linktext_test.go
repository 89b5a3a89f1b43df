package nav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTitleResolverOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Release Notes v2" />
			<title>fallback title</title>
		</head><body></body></html>`))
	}))
	defer srv.Close()

	tr := &TitleResolver{Client: srv.Client()}
	if got := tr.Resolve(context.Background(), srv.URL+"/notes"); got != "Release Notes v2" {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestTitleResolverHTMLTitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Plain Title</title></head><body></body></html>`))
	}))
	defer srv.Close()

	tr := &TitleResolver{Client: srv.Client()}
	if got := tr.Resolve(context.Background(), srv.URL+"/page"); got != "Plain Title" {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestTitleResolverDegradesToLinkText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := &TitleResolver{Client: srv.Client()}
	if got := tr.Resolve(context.Background(), srv.URL+"/user-guide"); got != "Open User Guide" {
		t.Fatalf("Resolve = %q", got)
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orrery/pkg/cache"
	"github.com/matzehuels/orrery/pkg/scene"
	"github.com/matzehuels/orrery/pkg/snapshot"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Options{
		Cache:       fc,
		Logger:      log.New(io.Discard),
		ArtifactTTL: time.Minute,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestSystemPNG(t *testing.T) {
	ts := testServer(t)

	resp, body := get(t, ts, "/v1/system.png?seed=42&w=320&h=240")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	// Second request hits the cache and must serve identical bytes.
	_, cached := get(t, ts, "/v1/system.png?seed=42&w=320&h=240")
	if !bytes.Equal(body, cached) {
		t.Error("cached artifact differs from first render")
	}
}

func TestSystemSVG(t *testing.T) {
	ts := testServer(t)

	resp, body := get(t, ts, "/v1/system.svg?seed=7&planets=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), "<svg") {
		t.Error("body is not an SVG document")
	}
}

func TestSystemSnapshot(t *testing.T) {
	ts := testServer(t)

	resp, body := get(t, ts, "/v1/system.json?seed=99&planets=4")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var doc snapshot.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("body is not a snapshot: %v", err)
	}
	if doc.Seed != 99 {
		t.Errorf("seed = %d, want 99", doc.Seed)
	}
	if len(doc.Planets) != 4 {
		t.Errorf("planets = %d, want 4", len(doc.Planets))
	}
}

func TestBadQueryRejected(t *testing.T) {
	ts := testServer(t)

	for _, path := range []string{
		"/v1/system.png?seed=abc",
		"/v1/system.png?w=0",
		"/v1/system.png?w=100000",
		"/v1/system.svg?planets=x",
		"/v1/system.json?moons=perhaps",
	} {
		resp, body := get(t, ts, path)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
			continue
		}
		var e struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &e); err != nil || e.Error.Code == "" {
			t.Errorf("%s: error envelope missing code: %s", path, body)
		}
	}
}

func TestImportRoundTrip(t *testing.T) {
	ts := testServer(t)

	orig := scene.Build(5, scene.DefaultConfig())
	var buf bytes.Buffer
	if err := snapshot.Write(orig, &buf); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(ts.URL+"/v1/import", "application/json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var doc snapshot.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Seed != 5 {
		t.Errorf("seed = %d, want 5", doc.Seed)
	}
	if len(doc.Planets) != len(orig.Planets) {
		t.Errorf("planets = %d, want %d", len(doc.Planets), len(orig.Planets))
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/v1/import", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSurfaceDimensionBounds(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{"/v1/system.png?seed=1&w=16&h=16", http.StatusOK},
		{"/v1/system.png?h=-5", http.StatusBadRequest},
	}
	ts := testServer(t)
	for _, tt := range tests {
		resp, _ := get(t, ts, tt.path)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

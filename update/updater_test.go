package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newReleaseServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/GoCodeAlone/timetable/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatest_NewerRelease(t *testing.T) {
	srv := newReleaseServer(t, `{"tag_name":"v1.3.0","assets":[]}`)
	c := New("v1.2.0")
	c.BaseURL = srv.URL

	rel, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rel == nil || rel.Version != "v1.3.0" {
		t.Fatalf("Latest = %+v, want v1.3.0", rel)
	}
}

func TestLatest_UpToDate(t *testing.T) {
	srv := newReleaseServer(t, `{"tag_name":"v1.2.0"}`)
	c := New("1.2.0")
	c.BaseURL = srv.URL

	rel, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rel != nil {
		t.Errorf("expected nil release, got %+v", rel)
	}
}

func TestLatest_DevBuildSkipsLookup(t *testing.T) {
	c := New("dev")
	c.BaseURL = "http://127.0.0.1:0"
	if rel, err := c.Latest(context.Background()); rel != nil || err != nil {
		t.Errorf("Latest(dev) = %v, %v", rel, err)
	}
}

func TestLatest_APIError(t *testing.T) {
	c := New("v1.0.0")
	c.BaseURL = newReleaseServer(t, `{}`).URL + "/missing"
	if _, err := c.Latest(context.Background()); err == nil {
		t.Error("expected error on 404")
	}
}

func TestPlatformAssetURL(t *testing.T) {
	assets := []githubAsset{
		{Name: "timetable_linux_x86_64.tar.gz", BrowserDownloadURL: "https://dl/linux-amd64"},
		{Name: "timetable_darwin_arm64.tar.gz", BrowserDownloadURL: "https://dl/darwin-arm64"},
	}
	if got := platformAssetURL(assets, "linux", "amd64"); got != "https://dl/linux-amd64" {
		t.Errorf("linux/amd64 = %q", got)
	}
	if got := platformAssetURL(assets, "darwin", "arm64"); got != "https://dl/darwin-arm64" {
		t.Errorf("darwin/arm64 = %q", got)
	}
	if got := platformAssetURL(assets, "windows", "amd64"); got != "" {
		t.Errorf("windows/amd64 = %q, want empty", got)
	}
}

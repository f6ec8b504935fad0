package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/testsupport"
)

func TestSourceFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     loader.Source
	}{
		{"schema.json", loader.FileSource("schema.json")},
		{"/tmp/schema.yaml", loader.FileSource("/tmp/schema.yaml")},
		{"https://example.test/schema.json", loader.URLSource("https://example.test/schema.json")},
		{" HTTP://example.test/s ", loader.URLSource("HTTP://example.test/s")},
	}
	for _, tt := range tests {
		if got := loader.SourceFromLocation(tt.location); got != tt.want {
			t.Errorf("SourceFromLocation(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestLoader_LoadSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.json")
	if err := os.WriteFile(path, testsupport.Fixture(t, "application.json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fields, issues, err := loader.New().LoadSchema(context.Background(), loader.FileSource(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(issues) > 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	want := testsupport.ApplicationSchema()
	want[9].Locator = "https://files.example.test/resume/10"
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_LoadSchemaFromFS(t *testing.T) {
	files := fstest.MapFS{
		"schemas/minimal.yaml": {Data: testsupport.Fixture(t, "minimal.yaml")},
	}

	fields, _, err := loader.New(loader.WithFS(files)).LoadSchema(context.Background(), loader.FSSource("schemas/minimal.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fields) != 2 || fields[0].Name != "full_name" || fields[1].Options[1] != "Licence" {
		t.Fatalf("unexpected fields %+v", fields)
	}
}

func TestLoader_FSRequiresFilesystem(t *testing.T) {
	_, err := loader.New().Load(context.Background(), loader.FSSource("schema.json"))
	if err == nil || !strings.Contains(err.Error(), "filesystem is not configured") {
		t.Fatalf("expected missing filesystem error, got %v", err)
	}
}

func TestLoader_LoadFromHTTP(t *testing.T) {
	document := testsupport.Fixture(t, "application.json")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schema.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(document)
	}))
	defer server.Close()

	l := loader.New(loader.WithHTTPClient(server.Client()), loader.WithTimeout(time.Second))

	fields, _, err := l.LoadSchema(context.Background(), loader.URLSource(server.URL+"/schema.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fields) != 10 {
		t.Fatalf("expected 10 fields, got %d", len(fields))
	}

	if _, err := l.Load(context.Background(), loader.URLSource(server.URL+"/missing.json")); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	_, err := loader.New().Load(context.Background(), loader.URLSource("http://example.test/schema.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.New().Load(ctx, loader.FileSource("schema.json"))
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestLoader_UnknownKind(t *testing.T) {
	if _, err := loader.New().Load(context.Background(), loader.Source{Kind: "ftp", Location: "x"}); err == nil {
		t.Fatalf("expected unsupported kind error")
	}
}

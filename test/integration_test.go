package test_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain-adapters/providers"
	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
	jsonadapter "github.com/ochairo/decant/internal/external-adapters/json"
)

// recordingRegistry is an httptest handler that records the request
// sequence and answers like an empty registry.
type recordingRegistry struct {
	mu       sync.Mutex
	requests []string
}

func (r *recordingRegistry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.requests = append(r.requests, req.Method+" "+req.RequestURI)
	r.mu.Unlock()

	// Existence probes answer "absent"; everything else succeeds.
	if req.Method == http.MethodHead {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (r *recordingRegistry) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

// Test a full bintray deploy against a mock registry: create the
// package and version, upload the resolved files, publish.
func TestEndToEnd_BintrayDeploy(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	registry := &recordingRegistry{}
	server := httptest.NewServer(registry)
	defer server.Close()

	// Build artifacts to upload.
	tmpDir := t.TempDir()
	distDir := filepath.Join(tmpDir, "dist")
	if err := os.MkdirAll(distDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(distDir, "app-1.0.0.jar"), []byte("jar bytes"), 0600); err != nil {
		t.Fatal(err)
	}

	// Write the deploy descriptor.
	desc := entities.Descriptor{
		Package: entities.Package{
			Name:     "my-pkg",
			Subject:  "jane",
			Repo:     "generic",
			Desc:     "Integration test package",
			Licenses: []string{"MIT"},
		},
		Version: entities.Version{Name: "1.0.0"},
		Publish: true,
		Files: []entities.ManifestEntry{{
			IncludePattern: distDir + "/(.*)",
			UploadPattern:  "lib/$1",
		}},
	}
	descPath := filepath.Join(tmpDir, "descriptor.json")
	data, err := json.Marshal(desc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(descPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg := providers.BintrayConfig{
		User: "jane",
		Key:  "secret",
		File: descPath,
		URL:  server.URL,
	}
	provider := providers.NewBintray(
		cfg,
		gateways.NewBintrayGateway(cfg.URL, cfg.User, cfg.Key),
		jsonadapter.NewDescriptorRepository(cfg.File),
		services.NewManifestResolver(nil),
		nil,
		gateways.NewDigester(),
		nil,
	)

	if err := services.NewPipeline(nil).Run(context.Background(), provider); err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	want := []string{
		"HEAD /packages/jane/generic/my-pkg",
		"POST /packages/jane/generic",
		"HEAD /packages/jane/generic/my-pkg/versions/1.0.0",
		"POST /packages/jane/generic/my-pkg/versions",
		"PUT /content/jane/generic/my-pkg/1.0.0/lib/app-1.0.0.jar",
		"POST /content/jane/generic/my-pkg/1.0.0/publish",
	}
	got := registry.recorded()
	if len(got) != len(want) {
		t.Fatalf("request sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// Test that a second deploy against an already-populated registry only
// probes and publishes.
func TestEndToEnd_BintrayDeploy_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	registry := &recordingRegistry{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		registry.mu.Lock()
		registry.requests = append(registry.requests, req.Method+" "+req.RequestURI)
		registry.mu.Unlock()
		// Everything already exists.
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	desc := entities.Descriptor{
		Package: entities.Package{Name: "my-pkg", Subject: "jane", Repo: "generic"},
		Version: entities.Version{Name: "1.0.0"},
		Publish: true,
	}
	descPath := filepath.Join(tmpDir, "descriptor.json")
	data, err := json.Marshal(desc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(descPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg := providers.BintrayConfig{User: "jane", Key: "secret", File: descPath, URL: server.URL}
	provider := providers.NewBintray(
		cfg,
		gateways.NewBintrayGateway(cfg.URL, cfg.User, cfg.Key),
		jsonadapter.NewDescriptorRepository(cfg.File),
		services.NewManifestResolver(nil),
		nil,
		gateways.NewDigester(),
		nil,
	)

	if err := services.NewPipeline(nil).Run(context.Background(), provider); err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	want := []string{
		"HEAD /packages/jane/generic/my-pkg",
		"HEAD /packages/jane/generic/my-pkg/versions/1.0.0",
		"POST /content/jane/generic/my-pkg/1.0.0/publish",
	}
	got := registry.recorded()
	if len(got) != len(want) {
		t.Fatalf("request sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestFileStorageStore(t *testing.T) {
	cfg := &config.StorageConfig{
		DataDir:     filepath.Join(t.TempDir(), "data"),
		RawFile:     "products_raw.json",
		CleanedFile: "products_cleaned.json",
		FinalFile:   "products_final.json",
	}
	store, err := NewFileStorage(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage() error = %v", err)
	}
	defer store.Close()

	artifacts := &Artifacts{
		RunID: "test-run",
		Raw: []types.RawProduct{
			{Name: "Coca Cola 330ml Can", Price: "£0.75", VolumeWeight: "330ml"},
		},
		Cleaned: []types.CanonicalProduct{
			{OriginalName: "Coca Cola 330ml Can", Name: "Coca Cola 330Ml", Price: "£0.75", VolumeWeight: "330ml", Slug: "coca-cola-330ml"},
		},
		Final: []types.CanonicalProduct{
			{OriginalName: "Coca Cola 330ml Can", Name: "Coca Cola 330Ml", Price: "£0.75", VolumeWeight: "330ml", Slug: "coca-cola-330ml", Brand: "Coca Cola"},
		},
	}
	if err := store.Store(artifacts); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	var raw []types.RawProduct
	readStage(t, filepath.Join(cfg.DataDir, cfg.RawFile), &raw)
	if len(raw) != 1 || raw[0].Name != "Coca Cola 330ml Can" {
		t.Errorf("raw stage = %+v", raw)
	}

	var final []types.CanonicalProduct
	readStage(t, filepath.Join(cfg.DataDir, cfg.FinalFile), &final)
	if len(final) != 1 || final[0].Brand != "Coca Cola" || final[0].Slug != "coca-cola-330ml" {
		t.Errorf("final stage = %+v", final)
	}

	// Stage files are human-inspectable: indented, one array each.
	body, err := os.ReadFile(filepath.Join(cfg.DataDir, cfg.CleanedFile))
	if err != nil {
		t.Fatal(err)
	}
	if body[0] != '[' {
		t.Errorf("cleaned stage does not start with a JSON array: %q", body[:1])
	}
}

func TestFileStorageCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStorage(&config.StorageConfig{DataDir: dir}, testLogger)
	if err != nil {
		t.Fatalf("NewFileStorage() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func readStage(t *testing.T, path string, out any) {
	t.Helper()
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("stage file missing: %v", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("stage file %s is not valid JSON: %v", filepath.Base(path), err)
	}
}

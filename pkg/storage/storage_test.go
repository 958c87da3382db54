package storage_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/atelier-studio/provenance/pkg/storage"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "UseDevelopmentStorage=true"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if cfg.ContainerName != "session-photos" {
		t.Errorf("container = %q, want default", cfg.ContainerName)
	}
}

func TestConfigFinalizeRequiresConnectionString(t *testing.T) {
	cfg := storage.Config{}

	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize succeeded without connection string")
	}
}

func TestConfigFinalizeEnvOverride(t *testing.T) {
	env := &storage.Env{
		ContainerName:    "TEST_STORAGE_CONTAINER_NAME",
		ConnectionString: "TEST_STORAGE_CONNECTION_STRING",
	}
	t.Setenv("TEST_STORAGE_CONTAINER_NAME", "override-container")
	t.Setenv("TEST_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")

	cfg := storage.Config{ContainerName: "from-file"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.ContainerName != "override-container" {
		t.Errorf("container = %q, want env override", cfg.ContainerName)
	}
	if cfg.ConnectionString != "UseDevelopmentStorage=true" {
		t.Errorf("connection string = %q, want env value", cfg.ConnectionString)
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{ContainerName: "base", ConnectionString: "base-conn"}
	overlay := storage.Config{ContainerName: "overlay"}

	base.Merge(&overlay)

	if base.ContainerName != "overlay" {
		t.Errorf("container = %q, want overlay value", base.ContainerName)
	}
	if base.ConnectionString != "base-conn" {
		t.Errorf("connection string = %q, zero overlay field must not clear it", base.ConnectionString)
	}
}

func TestNewRequiresConnectionString(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := storage.New(&storage.Config{ContainerName: "session-photos"}, logger)
	if !errors.Is(err, storage.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: storage.ErrNotFound, want: http.StatusNotFound},
		{name: "empty key", err: storage.ErrEmptyKey, want: http.StatusBadRequest},
		{name: "invalid key", err: storage.ErrInvalidKey, want: http.StatusBadRequest},
		{name: "wrapped not found", err: fmt.Errorf("download: %w", storage.ErrNotFound), want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

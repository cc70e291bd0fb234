package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resqhome-backend/internal/storage"
)

func TestObjectName(t *testing.T) {
	name := storage.ObjectName("photo.JPG")
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("extension not kept lowercase: %q", name)
	}
	if name == storage.ObjectName("photo.JPG") {
		t.Fatal("names must not collide")
	}

	if got := storage.ObjectName("trickery.averylongextension"); strings.Contains(got, ".") {
		t.Fatalf("oversized extension kept: %q", got)
	}
}

func TestLocalStoreSave(t *testing.T) {
	base := t.TempDir()
	store := storage.NewLocalStore(base, "http://localhost:8080/")

	url, err := store.Save(context.Background(), storage.DirReports, "dog.png", "image/png", strings.NewReader("fake-png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	const prefix = "http://localhost:8080/uploads/reports/"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("url = %q, want prefix %q", url, prefix)
	}

	name := strings.TrimPrefix(url, prefix)
	data, err := os.ReadFile(filepath.Join(base, "reports", name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake-png" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestLocalStoreNestedDir(t *testing.T) {
	base := t.TempDir()
	store := storage.NewLocalStore(base, "http://localhost:8080")

	url, err := store.Save(context.Background(), storage.DirAdoptionMedical, "xray.jpg", "image/jpeg", strings.NewReader("fake-jpg"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/adoption/medical/") {
		t.Fatalf("url = %q", url)
	}
}

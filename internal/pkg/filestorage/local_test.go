package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func evidenceHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("evidence", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("evidence")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return header
}

func TestSaveResolveDelete(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	stored, err := storage.Save(evidenceHeader(t, "note.pdf", "medical note"), "evidence")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(stored, "evidence"+string(filepath.Separator)) {
		t.Errorf("stored path %q not under evidence subdirectory", stored)
	}
	if filepath.Ext(stored) != ".pdf" {
		t.Errorf("stored path %q lost the original extension", stored)
	}

	full, err := storage.Resolve(stored)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "medical note" {
		t.Errorf("content = %q", content)
	}

	if err := storage.Delete(stored); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := storage.Resolve(stored); err == nil {
		t.Error("Resolve succeeded after Delete")
	}

	// Deleting again is not an error.
	if err := storage.Delete(stored); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestSave_NilHeaderIsNoop(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	stored, err := storage.Save(nil, "evidence")
	if err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	if stored != "" {
		t.Errorf("stored path = %q, want empty", stored)
	}
}

func TestResolve_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(filepath.Join(base, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	secret := filepath.Join(base, "secret.txt")
	if err := os.WriteFile(secret, []byte("keep out"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if full, err := storage.Resolve("../secret.txt"); err == nil && full == secret {
		t.Errorf("Resolve escaped the base directory: %q", full)
	}
}

func TestGeneratedNamesDoNotCollide(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	first, err := storage.Save(evidenceHeader(t, "note.pdf", "one"), "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := storage.Save(evidenceHeader(t, "note.pdf", "two"), "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Errorf("two uploads of %q stored at the same path %q", "note.pdf", first)
	}
}

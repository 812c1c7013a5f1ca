package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"server-launcher/internal/models"
)

// fakeFetcher serves fixed payloads by URL and counts downloads.
type fakeFetcher struct {
	mu      sync.Mutex
	files   map[string][]byte
	calls   []string
	failing error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{files: map[string][]byte{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, savePath string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.failing != nil {
		return 0, f.failing
	}
	data, ok := f.files[url]
	if !ok {
		return 0, fmt.Errorf("GetFile('%s') code: 404, error: not found", url)
	}
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

// fakeScriptRunner imitates the install script by creating the executable in --install-dir.
type fakeScriptRunner struct {
	executable string
	scripts    []string
	args       [][]string
	err        error
}

func (r *fakeScriptRunner) RunScript(ctx context.Context, script string, args []string) error {
	r.scripts = append(r.scripts, script)
	r.args = append(r.args, args)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script not present: %w", err)
	}
	if r.err != nil {
		return r.err
	}
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--install-dir" {
			return os.WriteFile(filepath.Join(args[i+1], r.executable), []byte("#!/bin/sh\n"), 0755)
		}
	}
	return fmt.Errorf("no --install-dir in %v", args)
}

// fakeProcess records how it was created and returns a fixed result.
type fakeProcess struct {
	title   string
	argv    []string
	workDir string
	err     error
	ran     bool
}

func (p *fakeProcess) Run(ctx context.Context) error {
	p.ran = true
	return p.err
}

func (p *fakeProcess) GetDetail() models.ProcessDetail {
	detail := models.ProcessDetail{Title: p.title, WorkDir: p.workDir, Status: models.StatusExited}
	if len(p.argv) > 0 {
		detail.Command = p.argv[0]
		detail.Args = p.argv[1:]
	}
	return detail
}

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeConfig(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

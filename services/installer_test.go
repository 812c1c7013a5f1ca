package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"server-launcher/internal/env"
	"server-launcher/internal/errs"
	"server-launcher/internal/models"
	"server-launcher/internal/utils"
)

const testAppUrl = "http://x/app.zip"

func newTestRuntimeInstaller(t *testing.T) (*RuntimeInstaller, *fakeFetcher, *fakeScriptRunner) {
	t.Helper()
	layout := env.NewLayout(t.TempDir())
	if err := NewProvisioner(layout).Setup(); err != nil {
		t.Fatal(err)
	}
	cfg := testServerConfig()
	fetcher := newFakeFetcher()
	fetcher.files[cfg.Runtime.InstallScriptUrl] = []byte("#!/bin/sh\n")
	runner := &fakeScriptRunner{executable: cfg.Runtime.Executable}

	ri := NewRuntimeInstaller(layout, cfg.Runtime)
	ri.Fetcher = fetcher
	ri.Runner = runner
	return ri, fetcher, runner
}

func TestEnsureRuntimeInstallsOnce(t *testing.T) {
	ri, fetcher, runner := newTestRuntimeInstaller(t)
	ctx := context.Background()

	installed, err := ri.EnsureRuntime(ctx)
	if err != nil || !installed {
		t.Fatalf("first EnsureRuntime = (%v, %v)", installed, err)
	}
	if _, err := os.Stat(ri.Executable()); err != nil {
		t.Errorf("runtime executable missing: %v", err)
	}
	rec, _ := ReadRecord(ri.Layout.RuntimeDir)
	if rec == nil || rec.Kind != models.ComponentRuntime || rec.Version != "6.0" {
		t.Errorf("unexpected record: %+v", rec)
	}

	installDir, _ := filepath.Abs(ri.Layout.RuntimeDir)
	wantArgs := []string{"--runtime", "dotnet", "--version", "6.0", "--install-dir", installDir}
	if len(runner.args) != 1 || !equalStrings(runner.args[0], wantArgs) {
		t.Errorf("script args = %v, want %v", runner.args, wantArgs)
	}
	if filepath.Base(runner.scripts[0]) != RuntimeScriptScratch {
		t.Errorf("script saved as %s", runner.scripts[0])
	}
	if _, err := os.Stat(runner.scripts[0]); !os.IsNotExist(err) {
		t.Error("install script was not removed")
	}

	installed, err = ri.EnsureRuntime(ctx)
	if err != nil || installed {
		t.Fatalf("second EnsureRuntime = (%v, %v)", installed, err)
	}
	if n := fetcher.count(ri.Runtime.InstallScriptUrl); n != 1 {
		t.Errorf("script downloaded %d times, want 1", n)
	}

	ri.Force = true
	if installed, err := ri.EnsureRuntime(ctx); err != nil || !installed {
		t.Errorf("forced EnsureRuntime = (%v, %v)", installed, err)
	}
}

func TestEnsureRuntimeScriptFailure(t *testing.T) {
	ri, _, runner := newTestRuntimeInstaller(t)
	runner.err = errors.New("exit status 1")

	_, err := ri.EnsureRuntime(context.Background())
	if !errs.Is(err, errs.RuntimeInstallFailed) {
		t.Fatalf("expected RuntimeInstallFailed, got %v", err)
	}
	if rec, _ := ReadRecord(ri.Layout.RuntimeDir); rec != nil {
		t.Error("record written after failed install")
	}
	if _, err := os.Stat(runner.scripts[0]); !os.IsNotExist(err) {
		t.Error("install script was not removed on failure")
	}
}

func TestEnsureRuntimeDownloadFailure(t *testing.T) {
	ri, fetcher, runner := newTestRuntimeInstaller(t)
	fetcher.failing = errors.New("connection refused")

	_, err := ri.EnsureRuntime(context.Background())
	if !errs.Is(err, errs.RuntimeInstallFailed) {
		t.Fatalf("expected RuntimeInstallFailed, got %v", err)
	}
	if len(runner.scripts) != 0 {
		t.Error("script ran without a download")
	}
}

func TestEnsureRuntimeMissingExecutable(t *testing.T) {
	ri, _, runner := newTestRuntimeInstaller(t)
	runner.executable = "something-else"

	if _, err := ri.EnsureRuntime(context.Background()); !errs.Is(err, errs.RuntimeInstallFailed) {
		t.Errorf("expected RuntimeInstallFailed, got %v", err)
	}
}

func newTestApplicationInstaller(t *testing.T, archive []byte) (*ApplicationInstaller, *fakeFetcher) {
	t.Helper()
	layout := env.NewLayout(t.TempDir())
	if err := NewProvisioner(layout).Setup(); err != nil {
		t.Fatal(err)
	}
	fetcher := newFakeFetcher()
	fetcher.files[testAppUrl] = archive

	ai := NewApplicationInstaller(layout, testServerConfig().Application)
	ai.Fetcher = fetcher
	return ai, fetcher
}

func TestEnsureApplicationInstallsOnce(t *testing.T) {
	archive := makeZip(t, map[string]string{
		"TShock.Server.dll": "v1",
		"lib/extra.dll":     "lib",
	})
	ai, fetcher := newTestApplicationInstaller(t, archive)
	ctx := context.Background()

	installed, err := ai.EnsureApplication(ctx)
	if err != nil || !installed {
		t.Fatalf("first EnsureApplication = (%v, %v)", installed, err)
	}
	if data, _ := os.ReadFile(ai.Entry()); string(data) != "v1" {
		t.Errorf("entry content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(ai.Layout.ApplicationDir, "lib", "extra.dll")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ai.Layout.VirtualEnvDir, ApplicationArchiveScratch)); !os.IsNotExist(err) {
		t.Error("scratch archive was not removed")
	}

	installed, err = ai.EnsureApplication(ctx)
	if err != nil || installed {
		t.Fatalf("second EnsureApplication = (%v, %v)", installed, err)
	}
	if n := fetcher.count(testAppUrl); n != 1 {
		t.Errorf("archive downloaded %d times, want 1", n)
	}
}

func TestEnsureApplicationVersionBump(t *testing.T) {
	ai, fetcher := newTestApplicationInstaller(t, makeZip(t, map[string]string{"TShock.Server.dll": "v1"}))
	ctx := context.Background()
	if _, err := ai.EnsureApplication(ctx); err != nil {
		t.Fatal(err)
	}
	// 用户放入的文件在升级后保留
	userFile := filepath.Join(ai.Layout.ApplicationDir, "user.txt")
	os.WriteFile(userFile, []byte("keep"), 0644)

	fetcher.files[testAppUrl] = makeZip(t, map[string]string{"TShock.Server.dll": "v2"})
	ai.Application.Version = "1.1"
	installed, err := ai.EnsureApplication(ctx)
	if err != nil || !installed {
		t.Fatalf("EnsureApplication after bump = (%v, %v)", installed, err)
	}
	if data, _ := os.ReadFile(ai.Entry()); string(data) != "v2" {
		t.Errorf("entry not replaced: %q", data)
	}
	if _, err := os.Stat(userFile); err != nil {
		t.Error("existing files should survive a version bump")
	}
	if rec, _ := ReadRecord(ai.Layout.ApplicationDir); rec == nil || rec.Version != "1.1" {
		t.Errorf("record not updated: %+v", rec)
	}
}

func TestEnsureApplicationReinstallsWithoutRecord(t *testing.T) {
	ai, fetcher := newTestApplicationInstaller(t, makeZip(t, map[string]string{"TShock.Server.dll": "v1"}))
	os.WriteFile(ai.Entry(), []byte("stale"), 0644)

	installed, err := ai.EnsureApplication(context.Background())
	if err != nil || !installed {
		t.Fatalf("EnsureApplication = (%v, %v)", installed, err)
	}
	if fetcher.count(testAppUrl) != 1 {
		t.Error("entry without record should trigger a download")
	}
}

func TestEnsureApplicationChecksum(t *testing.T) {
	archive := makeZip(t, map[string]string{"TShock.Server.dll": "v1"})
	sum := sha256.Sum256(archive)

	ai, _ := newTestApplicationInstaller(t, archive)
	ai.Application.Checksum = "sha256:" + hex.EncodeToString(sum[:])
	if _, err := ai.EnsureApplication(context.Background()); err != nil {
		t.Fatalf("valid checksum rejected: %v", err)
	}

	ai, _ = newTestApplicationInstaller(t, archive)
	ai.Application.Checksum = hex.EncodeToString(make([]byte, sha256.Size))
	_, err := ai.EnsureApplication(context.Background())
	if !errs.Is(err, errs.ApplicationInstallFailed) || !errors.Is(err, utils.ErrChecksumMismatch) {
		t.Fatalf("expected checksum failure, got %v", err)
	}
	if _, err := os.Stat(ai.Entry()); !os.IsNotExist(err) {
		t.Error("archive extracted despite checksum mismatch")
	}
}

func TestEnsureApplicationFailures(t *testing.T) {
	cases := map[string][]byte{
		"corrupt archive": []byte("definitely not an archive"),
		"missing entry":   makeZip(t, map[string]string{"README.txt": "no entry here"}),
	}

	for name, archive := range cases {
		t.Run(name, func(t *testing.T) {
			ai, _ := newTestApplicationInstaller(t, archive)
			_, err := ai.EnsureApplication(context.Background())
			if !errs.Is(err, errs.ApplicationInstallFailed) {
				t.Fatalf("expected ApplicationInstallFailed, got %v", err)
			}
			if rec, _ := ReadRecord(ai.Layout.ApplicationDir); rec != nil {
				t.Error("record written after failed install")
			}
		})
	}
}

func TestEnsureApplicationDownloadFailure(t *testing.T) {
	ai, _ := newTestApplicationInstaller(t, nil)
	ai.Application.DownloadUrl = "http://x/missing.zip"
	_, err := ai.EnsureApplication(context.Background())
	if !errs.Is(err, errs.ApplicationInstallFailed) {
		t.Fatalf("expected ApplicationInstallFailed, got %v", err)
	}
}

func TestEnsureApplicationUrlNamedLikeLayoutDir(t *testing.T) {
	archive := makeZip(t, map[string]string{"TShock.Server.dll": "v1"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/application" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer server.Close()

	layout := env.NewLayout(t.TempDir())
	if err := NewProvisioner(layout).Setup(); err != nil {
		t.Fatal(err)
	}
	app := testServerConfig().Application
	app.DownloadUrl = server.URL + "/download/application"
	ai := NewApplicationInstaller(layout, app)

	installed, err := ai.EnsureApplication(context.Background())
	if err != nil || !installed {
		t.Fatalf("EnsureApplication = (%v, %v)", installed, err)
	}
	if fi, err := os.Stat(layout.ApplicationDir); err != nil || !fi.IsDir() {
		t.Fatalf("application dir damaged: %v", err)
	}
	if data, _ := os.ReadFile(ai.Entry()); string(data) != "v1" {
		t.Errorf("entry content = %q", data)
	}
}

func TestRemoveScratchLeavesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "application")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	removeScratch(dir)
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory removed: %v", err)
	}

	file := filepath.Join(t.TempDir(), ApplicationArchiveScratch)
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	removeScratch(file)
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("scratch file not removed")
	}
	removeScratch(file)
}

func TestComponentManager(t *testing.T) {
	layout := env.NewLayout(t.TempDir())
	NewProvisioner(layout).Setup()
	cfg := testServerConfig()
	fetcher := newFakeFetcher()
	fetcher.files[cfg.Runtime.InstallScriptUrl] = []byte("#!/bin/sh\n")
	fetcher.files[testAppUrl] = makeZip(t, map[string]string{"TShock.Server.dll": "v1"})

	cm := NewComponentManager(layout, cfg)
	cm.SetFetcher(fetcher)
	cm.Runtime().Runner = &fakeScriptRunner{executable: cfg.Runtime.Executable}

	for _, info := range cm.GetComponents() {
		if info.Installed {
			t.Errorf("%s reported installed before install", info.Name)
		}
	}
	count, err := cm.InstallAll(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("InstallAll = (%d, %v)", count, err)
	}
	count, err = cm.InstallAll(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("second InstallAll = (%d, %v)", count, err)
	}

	info, err := cm.GetComponent("application")
	if err != nil || !info.Installed || info.Record == nil {
		t.Errorf("GetComponent(application) = (%+v, %v)", info, err)
	}
	if _, err := cm.GetComponent("database"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("expected ErrComponentNotFound, got %v", err)
	}
	if _, err := cm.Install(context.Background(), "database"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("expected ErrComponentNotFound, got %v", err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

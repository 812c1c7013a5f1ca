package services

import (
	"os"
	"path/filepath"
	"testing"

	"server-launcher/internal/env"
	"server-launcher/internal/errs"
)

func TestProvisionerSetup(t *testing.T) {
	layout := env.NewLayout(t.TempDir())
	p := NewProvisioner(layout)

	if err := p.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	for _, dir := range layout.Directories() {
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}

	// 已存在的目录和其中的文件不受影响
	keep := filepath.Join(layout.WorldsDir, "w1.wld")
	os.WriteFile(keep, []byte("world"), 0644)
	if err := p.Setup(); err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}
	if data, _ := os.ReadFile(keep); string(data) != "world" {
		t.Error("existing content was modified")
	}
}

func TestProvisionerSetupConflict(t *testing.T) {
	base := t.TempDir()
	layout := env.NewLayout(base)
	if err := os.WriteFile(layout.DataDir, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	err := NewProvisioner(layout).Setup()
	if !errs.Is(err, errs.EnvironmentSetupFailed) {
		t.Errorf("expected EnvironmentSetupFailed, got %v", err)
	}
}

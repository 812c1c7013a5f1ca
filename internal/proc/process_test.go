package proc

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"server-launcher/internal/errs"
	"server-launcher/internal/models"
)

func TestRunSuccessInWorkDir(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	pi := NewProcessInstance("pwd", []string{"sh", "-c", "pwd"}, dir)
	pi.Stdout = &out
	if err := pi.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	if got != want {
		t.Errorf("child ran in %q, want %q", got, want)
	}
	detail := pi.GetDetail()
	if detail.Status != models.StatusExited || detail.ExitCode != 0 {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if detail.LastExitReason != "exited normally" {
		t.Errorf("unexpected exit reason %q", detail.LastExitReason)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	pi := NewProcessInstance("failing", []string{"sh", "-c", "exit 3"}, "")
	err := pi.Run(context.Background())
	if !errs.Is(err, errs.ProcessLaunchFailed) {
		t.Fatalf("expected ProcessLaunchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "exited with code 3") {
		t.Errorf("error should report the exit code: %v", err)
	}
	if pi.GetDetail().ExitCode != 3 || pi.GetDetail().Status != models.StatusError {
		t.Errorf("unexpected detail: %+v", pi.GetDetail())
	}
}

func TestRunMissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-runtime")
	pi := NewProcessInstance("missing", []string{missing, "Server.dll"}, "")
	err := pi.Run(context.Background())
	if !errs.Is(err, errs.ProcessLaunchFailed) {
		t.Fatalf("expected ProcessLaunchFailed, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unexpected cause: %v", err)
	}
	if pi.GetDetail().Status != models.StatusError {
		t.Errorf("status = %s, want error", pi.GetDetail().Status)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	pi := NewProcessInstance("empty", nil, "")
	if err := pi.Run(context.Background()); !errs.Is(err, errs.ProcessLaunchFailed) {
		t.Fatalf("expected ProcessLaunchFailed, got %v", err)
	}
}

func TestNewProcessInstanceSplitsArgv(t *testing.T) {
	pi := NewProcessInstance("server", []string{"/opt/dotnet", "Server.dll", "-port", "7777"}, "/opt/app")
	if pi.Command != "/opt/dotnet" {
		t.Errorf("Command = %q", pi.Command)
	}
	if strings.Join(pi.Args, " ") != "Server.dll -port 7777" {
		t.Errorf("Args = %v", pi.Args)
	}
	if pi.CommandLine() != "/opt/dotnet Server.dll -port 7777" {
		t.Errorf("CommandLine() = %q", pi.CommandLine())
	}
}

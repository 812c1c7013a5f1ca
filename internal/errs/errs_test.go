package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(RuntimeInstallFailed, errors.New("exit status 2"))
	if got := err.Error(); got != "RuntimeInstallFailed: exit status 2" {
		t.Errorf("unexpected message: %q", got)
	}
	if got := (&Error{Kind: ConfigIncomplete}).Error(); got != "ConfigIncomplete" {
		t.Errorf("unexpected message without cause: %q", got)
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := New(ConfigNotFound, fs.ErrNotExist)
	wrapped := fmt.Errorf("load failed: %w", err)

	if KindOf(wrapped) != ConfigNotFound {
		t.Errorf("expected ConfigNotFound, got %q", KindOf(wrapped))
	}
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("cause should stay reachable with errors.Is")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain errors must not carry a kind")
	}
	if Is(nil, ConfigNotFound) {
		t.Error("nil error must not match any kind")
	}
}

func TestNewKeepsInnermostKind(t *testing.T) {
	inner := New(ConfigMalformed, errors.New("bad json"))
	outer := New(ProcessLaunchFailed, inner)
	if KindOf(outer) != ConfigMalformed {
		t.Errorf("expected inner kind to win, got %q", KindOf(outer))
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ApplicationInstallFailed, "download '%s' failed", "http://x/app.zip")
	if !Is(err, ApplicationInstallFailed) {
		t.Fatalf("unexpected kind: %q", KindOf(err))
	}
	if err.Error() != "ApplicationInstallFailed: download 'http://x/app.zip' failed" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

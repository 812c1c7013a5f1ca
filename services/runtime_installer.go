package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/errs"
	"server-launcher/internal/logger"
	"server-launcher/internal/models"
	"server-launcher/internal/utils"
)

// 下载的临时文件固定放在virtual_env下，名字不能与布局中的目录重名
const (
	RuntimeScriptScratch      = "runtime-install.sh"
	ApplicationArchiveScratch = "application.download"
)

// Fetcher downloads a remote resource to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url string, savePath string) (int64, error)
}

// ScriptRunner executes a downloaded install script.
type ScriptRunner interface {
	RunScript(ctx context.Context, script string, args []string) error
}

/**
 *	直接执行脚本，输出透传到启动器的标准输出
 */
type ExecScriptRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecScriptRunner() *ExecScriptRunner {
	return &ExecScriptRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecScriptRunner) RunScript(ctx context.Context, script string, args []string) error {
	cmd := exec.CommandContext(ctx, script, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run '%s': %w", script, err)
	}
	return nil
}

/**
 * Runtime installer
 * @property {env.Layout} Layout - Directory layout
 * @property {config.RuntimeConfig} Runtime - Runtime settings
 * @property {Fetcher} Fetcher - Downloads the install script
 * @property {ScriptRunner} Runner - Executes the install script
 * @property {bool} Force - Reinstall even when the runtime is already present
 */
type RuntimeInstaller struct {
	Layout  env.Layout
	Runtime config.RuntimeConfig
	Fetcher Fetcher
	Runner  ScriptRunner
	Force   bool
}

func NewRuntimeInstaller(layout env.Layout, rt config.RuntimeConfig) *RuntimeInstaller {
	return &RuntimeInstaller{
		Layout:  layout,
		Runtime: rt,
		Fetcher: utils.NewHTTPFetcher(),
		Runner:  NewExecScriptRunner(),
	}
}

// Executable is the runtime binary, its presence is the installed marker.
func (ri *RuntimeInstaller) Executable() string {
	return ri.Layout.RuntimeExecutable(ri.Runtime.Executable)
}

func (ri *RuntimeInstaller) Status() models.ComponentInfo {
	info, _ := inspectComponent(models.ComponentRuntime, ri.Layout.RuntimeDir, ri.Executable(), ri.Runtime.Version)
	return info
}

/**
 * Make sure the runtime is installed
 * @param {context.Context} ctx - Cancels the download and the install script
 * @returns {bool} True when an installation was performed
 * @returns {error} RuntimeInstallFailed on download or script failure
 * @description
 * - 已安装且版本一致时直接跳过，不访问网络
 * - 安装脚本下载到virtual_env下，无论成败都会删除
 * - 安装记录只在脚本成功并生成可执行文件后写入
 */
func (ri *RuntimeInstaller) EnsureRuntime(ctx context.Context) (bool, error) {
	kind := models.ComponentRuntime
	exe := ri.Executable()
	if !ri.Force {
		info, reason := inspectComponent(kind, ri.Layout.RuntimeDir, exe, ri.Runtime.Version)
		if info.Installed {
			logger.Infof("--- Runtime %s %s already installed ---", ri.Runtime.Kind, ri.Runtime.Version)
			RecordInstall(kind, ResultSkipped, 0)
			return false, nil
		}
		logger.Infof("Runtime needs installation: %s", reason)
	}

	start := time.Now()
	if err := ri.install(ctx, exe); err != nil {
		RecordInstall(kind, ResultFailed, time.Since(start))
		return false, errs.New(errs.RuntimeInstallFailed, err)
	}
	RecordInstall(kind, ResultInstalled, time.Since(start))
	logger.Infof("--- Runtime %s %s installed to %s ---", ri.Runtime.Kind, ri.Runtime.Version, ri.Layout.RuntimeDir)
	return true, nil
}

func (ri *RuntimeInstaller) install(ctx context.Context, exe string) error {
	logger.Infof("--- Installing runtime %s %s ---", ri.Runtime.Kind, ri.Runtime.Version)
	script, err := filepath.Abs(filepath.Join(ri.Layout.VirtualEnvDir, RuntimeScriptScratch))
	if err != nil {
		return err
	}
	installDir, err := filepath.Abs(ri.Layout.RuntimeDir)
	if err != nil {
		return err
	}
	defer removeScratch(script)

	logger.Infof("Downloading install script from %s", ri.Runtime.InstallScriptUrl)
	n, err := ri.Fetcher.Fetch(ctx, ri.Runtime.InstallScriptUrl, script)
	RecordDownload(models.ComponentRuntime, n)
	if err != nil {
		return err
	}
	if err := os.Chmod(script, 0755); err != nil {
		return fmt.Errorf("chmod '%s': %w", script, err)
	}

	args := []string{
		"--runtime", ri.Runtime.Kind,
		"--version", ri.Runtime.Version,
		"--install-dir", installDir,
	}
	logger.Infof("Running %s %v", filepath.Base(script), args)
	if err := ri.Runner.RunScript(ctx, script, args); err != nil {
		return err
	}
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("install script finished but '%s' is missing: %w", exe, err)
	}
	return WriteRecord(ri.Layout.RuntimeDir, newRecord(models.ComponentRuntime, ri.Runtime.Version))
}

// removeScratch deletes a temporary download. Only regular files are removed.
func removeScratch(fname string) {
	fi, err := os.Lstat(fname)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("Stat '%s' failed: %v", fname, err)
		}
		return
	}
	if !fi.Mode().IsRegular() {
		logger.Warnf("Scratch path '%s' is not a regular file, left in place", fname)
		return
	}
	if err := os.Remove(fname); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf("Remove '%s' failed: %v", fname, err)
	}
}

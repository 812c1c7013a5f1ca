package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/errs"
	"server-launcher/internal/logger"
	"server-launcher/internal/models"
	"server-launcher/internal/utils"
)

// Extractor unpacks an archive into a directory.
type Extractor func(archivePath string, dstDir string) error

/**
 * Application installer
 * @property {env.Layout} Layout - Directory layout
 * @property {config.ApplicationConfig} Application - Application package settings
 * @property {Fetcher} Fetcher - Downloads the archive
 * @property {Extractor} Extract - Unpacks the archive
 * @property {bool} Force - Reinstall even when the application is already present
 */
type ApplicationInstaller struct {
	Layout      env.Layout
	Application config.ApplicationConfig
	Fetcher     Fetcher
	Extract     Extractor
	Force       bool
}

func NewApplicationInstaller(layout env.Layout, app config.ApplicationConfig) *ApplicationInstaller {
	return &ApplicationInstaller{
		Layout:      layout,
		Application: app,
		Fetcher:     utils.NewHTTPFetcher(),
		Extract:     utils.ExtractArchive,
	}
}

// Entry is the application entry artifact, its presence is the installed marker.
func (ai *ApplicationInstaller) Entry() string {
	return ai.Layout.ApplicationEntry(ai.Application.Entry)
}

func (ai *ApplicationInstaller) Status() models.ComponentInfo {
	info, _ := inspectComponent(models.ComponentApplication, ai.Layout.ApplicationDir, ai.Entry(), ai.Application.Version)
	return info
}

/**
 * Make sure the application is installed at the configured version
 * @param {context.Context} ctx - Cancels the download
 * @returns {bool} True when an installation was performed
 * @returns {error} ApplicationInstallFailed on download, checksum or extraction failure
 * @description
 * - 版本变化时重新下载，解压覆盖到原目录，不清空已有文件
 * - 配置了checksum时先校验再解压
 * - 压缩包下载到virtual_env下，无论成败都会删除
 */
func (ai *ApplicationInstaller) EnsureApplication(ctx context.Context) (bool, error) {
	kind := models.ComponentApplication
	entry := ai.Entry()
	if !ai.Force {
		info, reason := inspectComponent(kind, ai.Layout.ApplicationDir, entry, ai.Application.Version)
		if info.Installed {
			logger.Infof("--- Application %s already installed ---", ai.Application.Version)
			RecordInstall(kind, ResultSkipped, 0)
			return false, nil
		}
		logger.Infof("Application needs installation: %s", reason)
	}

	start := time.Now()
	if err := ai.install(ctx, entry); err != nil {
		RecordInstall(kind, ResultFailed, time.Since(start))
		return false, errs.New(errs.ApplicationInstallFailed, err)
	}
	RecordInstall(kind, ResultInstalled, time.Since(start))
	logger.Infof("--- Application %s installed to %s ---", ai.Application.Version, ai.Layout.ApplicationDir)
	return true, nil
}

func (ai *ApplicationInstaller) install(ctx context.Context, entry string) error {
	app := ai.Application
	logger.Infof("--- Installing application %s ---", app.Version)
	archive := filepath.Join(ai.Layout.VirtualEnvDir, ApplicationArchiveScratch)
	defer removeScratch(archive)

	logger.Infof("Downloading from %s", app.DownloadUrl)
	n, err := ai.Fetcher.Fetch(ctx, app.DownloadUrl, archive)
	RecordDownload(models.ComponentApplication, n)
	if err != nil {
		return err
	}
	if app.Checksum != "" {
		if err := utils.VerifyFileSHA256(archive, app.Checksum); err != nil {
			return err
		}
		logger.Info("Checksum verified")
	}

	logger.Infof("Extracting to %s", ai.Layout.ApplicationDir)
	if err := ai.Extract(archive, ai.Layout.ApplicationDir); err != nil {
		return fmt.Errorf("extract '%s': %w", archive, err)
	}
	if _, err := os.Stat(entry); err != nil {
		return fmt.Errorf("archive does not provide '%s': %w", app.Entry, err)
	}
	return WriteRecord(ai.Layout.ApplicationDir, newRecord(models.ComponentApplication, app.Version))
}

package services

import (
	"context"
	"errors"
	"fmt"

	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/logger"
	"server-launcher/internal/models"
)

var ErrComponentNotFound = errors.New("component not found")

/**
 * Component manager owns the installers of the runtime and the application
 * @description
 * - 安装顺序固定：先运行时，后应用
 */
type ComponentManager struct {
	runtime     *RuntimeInstaller
	application *ApplicationInstaller
}

/**
 * Create component manager for a loaded configuration
 * @param {env.Layout} layout - Directory layout
 * @param {*config.ServerConfig} cfg - Validated configuration
 * @returns {*ComponentManager} Installers use the HTTP fetcher and exec script runner
 */
func NewComponentManager(layout env.Layout, cfg *config.ServerConfig) *ComponentManager {
	return &ComponentManager{
		runtime:     NewRuntimeInstaller(layout, cfg.Runtime),
		application: NewApplicationInstaller(layout, cfg.Application),
	}
}

func (cm *ComponentManager) Runtime() *RuntimeInstaller {
	return cm.runtime
}

func (cm *ComponentManager) Application() *ApplicationInstaller {
	return cm.application
}

// SetForce makes both installers reinstall regardless of recorded state.
func (cm *ComponentManager) SetForce(force bool) {
	cm.runtime.Force = force
	cm.application.Force = force
}

// SetFetcher replaces the downloader used by both installers.
func (cm *ComponentManager) SetFetcher(f Fetcher) {
	cm.runtime.Fetcher = f
	cm.application.Fetcher = f
}

/**
 * Get installed state of all components, in install order
 */
func (cm *ComponentManager) GetComponents() []models.ComponentInfo {
	return []models.ComponentInfo{
		cm.runtime.Status(),
		cm.application.Status(),
	}
}

func (cm *ComponentManager) GetComponent(name string) (*models.ComponentInfo, error) {
	for _, info := range cm.GetComponents() {
		if string(info.Name) == name {
			return &info, nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", ErrComponentNotFound, name)
}

/**
 * Install one component
 * @param {context.Context} ctx - Cancellation
 * @param {string} name - "runtime" or "application"
 * @returns {bool} True when an installation was performed
 */
func (cm *ComponentManager) Install(ctx context.Context, name string) (bool, error) {
	switch models.ComponentKind(name) {
	case models.ComponentRuntime:
		return cm.runtime.EnsureRuntime(ctx)
	case models.ComponentApplication:
		return cm.application.EnsureApplication(ctx)
	default:
		return false, fmt.Errorf("%w: '%s'", ErrComponentNotFound, name)
	}
}

/**
 * Install runtime then application, stopping at the first failure
 * @returns {int} Number of components actually installed
 */
func (cm *ComponentManager) InstallAll(ctx context.Context) (int, error) {
	count := 0
	for _, kind := range []models.ComponentKind{models.ComponentRuntime, models.ComponentApplication} {
		installed, err := cm.Install(ctx, string(kind))
		if err != nil {
			logger.Errorf("The '%s' install failed: %v", kind, err)
			return count, err
		}
		if installed {
			count++
		}
	}
	return count, nil
}

package services

import (
	"os"

	"server-launcher/internal/env"
	"server-launcher/internal/errs"
	"server-launcher/internal/logger"
)

/**
 *	负责创建启动器需要的目录结构
 */
type Provisioner struct {
	Layout env.Layout
}

func NewProvisioner(layout env.Layout) *Provisioner {
	return &Provisioner{Layout: layout}
}

/**
 * Create every directory of the layout
 * @returns {error} EnvironmentSetupFailed when a directory cannot be created
 * @description
 * - 已存在的目录不受影响，重复调用是安全的
 * - 同名的普通文件会导致失败
 */
func (p *Provisioner) Setup() error {
	logger.Info("--- Setting up environment directories ---")
	for _, dir := range p.Layout.Directories() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.Newf(errs.EnvironmentSetupFailed, "create directory '%s': %w", dir, err)
		}
		logger.Debugf("Directory ready: %s", dir)
	}
	return nil
}

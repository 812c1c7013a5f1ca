//go:build !unix

package utils

import (
	"os/exec"
)

// SetGracefulStop 默认实现，不支持中断信号的平台保持exec的Kill行为
func SetGracefulStop(cmd *exec.Cmd) {
}

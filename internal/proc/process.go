package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"server-launcher/internal/errs"
	"server-launcher/internal/logger"
	"server-launcher/internal/models"
	"server-launcher/internal/utils"
)

// stopGracePeriod bounds how long the child may keep running after an interrupt.
const stopGracePeriod = 30 * time.Second

/**
 * ProcessInstance 进程实例信息
 * @property {string} title - 进程标题，用于显示
 * @property {string} command - 执行命令
 * @property {[]string} args - 命令参数
 * @property {string} workDir - 工作目录
 * @property {string} status - 进程状态: running/exited/error
 * @property {int} exitCode - 最后一次退出码
 * @property {time.Time} startTime - 启动时间
 * @property {time.Time} lastExitTime - 最后退出时间
 * @property {string} lastExitReason - 最后退出原因
 */
type ProcessInstance struct {
	Title          string           //显示用的名字
	Command        string           //进程启动命令
	Args           []string         //进程参数
	WorkDir        string           //工作目录
	Stdin          io.Reader        //默认继承启动器的标准输入
	Stdout         io.Writer        //默认继承启动器的标准输出
	Stderr         io.Writer        //默认继承启动器的标准错误
	Status         models.RunStatus //状态
	ExitCode       int              //退出码
	StartTime      time.Time        //启动时间
	LastExitTime   time.Time        //最后一次退出的时间
	LastExitReason string           //最后一次退出的原因
	process        *os.Process
	mutex          sync.Mutex
}

/**
 * NewProcessInstance 根据命令向量创建进程实例
 * @param {string} title - 进程标题
 * @param {[]string} argv - 命令向量，第一个元素为可执行文件
 * @param {string} workDir - 工作目录
 * @returns {*ProcessInstance} 返回创建的进程实例
 */
func NewProcessInstance(title string, argv []string, workDir string) *ProcessInstance {
	pi := &ProcessInstance{
		Title:   title,
		WorkDir: workDir,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Status:  models.StatusExited,
	}
	if len(argv) > 0 {
		pi.Command = argv[0]
		pi.Args = append([]string(nil), argv[1:]...)
	}
	return pi
}

func (pi *ProcessInstance) Pid() int {
	if pi.process == nil {
		return 0
	}
	return pi.process.Pid
}

func (pi *ProcessInstance) GetDetail() models.ProcessDetail {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()

	return models.ProcessDetail{
		Title:          pi.Title,
		Command:        pi.Command,
		Args:           pi.Args,
		WorkDir:        pi.WorkDir,
		Status:         pi.Status,
		Pid:            pi.Pid(),
		ExitCode:       pi.ExitCode,
		StartTime:      pi.StartTime,
		LastExitTime:   pi.LastExitTime,
		LastExitReason: pi.LastExitReason,
	}
}

// CommandLine renders the command for logging.
func (pi *ProcessInstance) CommandLine() string {
	return strings.Join(append([]string{pi.Command}, pi.Args...), " ")
}

/**
 * Run 启动进程并等待其退出
 * @param {context.Context} ctx - 取消时向子进程发送中断信号
 * @returns {error} 启动失败或非零退出码时返回ProcessLaunchFailed
 * @description
 * - 标准输入输出继承自启动器，不做捕获
 * - 不重试，不自动重启
 */
func (pi *ProcessInstance) Run(ctx context.Context) error {
	if pi.Command == "" {
		return errs.Newf(errs.ProcessLaunchFailed, "process '%s' has no command", pi.Title)
	}
	logger.Infof("Executing command: %s", pi.CommandLine())

	cmd := exec.CommandContext(ctx, pi.Command, pi.Args...)
	cmd.Dir = pi.WorkDir
	cmd.Stdin = pi.Stdin
	cmd.Stdout = pi.Stdout
	cmd.Stderr = pi.Stderr
	cmd.WaitDelay = stopGracePeriod
	utils.SetGracefulStop(cmd)

	pi.mutex.Lock()
	if err := cmd.Start(); err != nil {
		pi.Status = models.StatusError
		pi.LastExitReason = fmt.Sprintf("start failed: %v", err)
		pi.mutex.Unlock()
		logger.Errorf("Failed to start process '%s', error: %v", pi.Title, err)
		return errs.Newf(errs.ProcessLaunchFailed, "start '%s': %w", pi.Command, err)
	}
	pi.process = cmd.Process
	pi.Status = models.StatusRunning
	pi.StartTime = time.Now()
	pi.mutex.Unlock()

	logger.Infof("Process '%s' started (PID: %d)", pi.Title, cmd.Process.Pid)
	err := cmd.Wait()

	pi.mutex.Lock()
	defer pi.mutex.Unlock()
	pi.LastExitTime = time.Now()
	if cmd.ProcessState != nil {
		pi.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		pi.Status = models.StatusError
		pi.LastExitReason = fmt.Sprintf("exited with error: %v", err)
		logger.Errorf("Process '%s' (PID: %d) exited with error: %v", pi.Title, pi.Pid(), err)

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errs.Newf(errs.ProcessLaunchFailed, "'%s' exited with code %d: %w", pi.Title, exitErr.ExitCode(), err)
		}
		return errs.Newf(errs.ProcessLaunchFailed, "'%s': %w", pi.Title, err)
	}
	pi.Status = models.StatusExited
	pi.LastExitReason = "exited normally"
	logger.Infof("Process '%s' (PID: %d) exited normally", pi.Title, pi.Pid())
	return nil
}

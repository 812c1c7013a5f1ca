package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/logger"
	"server-launcher/internal/models"
	"server-launcher/internal/proc"
	"server-launcher/internal/utils"
)

// PortParameter is the startup parameter checked for conflicts before launch.
const PortParameter = "port"

// ServerProcess is the launched game server.
type ServerProcess interface {
	Run(ctx context.Context) error
	GetDetail() models.ProcessDetail
}

// ProcessFactory creates the server process for a command vector.
type ProcessFactory func(title string, argv []string, workDir string) ServerProcess

func newServerProcess(title string, argv []string, workDir string) ServerProcess {
	return proc.NewProcessInstance(title, argv, workDir)
}

/**
 * Launcher runs the pipeline: config, directories, runtime, application, command, process
 * @property {string} ConfigPath - Server configuration document
 * @property {env.Layout} Layout - Directory layout
 * @property {env.Lookup} Lookup - Environment source for parameter overrides
 * @property {Fetcher} Fetcher - Optional downloader override
 * @property {ScriptRunner} Runner - Optional install script runner override
 * @property {Extractor} Extract - Optional archive extractor override
 * @property {ProcessFactory} NewProcess - Creates the server process
 * @description
 * - 状态只能按顺序前进，任一步失败进入Failed并停止
 * - 所有失败以分类错误返回，由调用者决定退出方式
 */
type Launcher struct {
	ConfigPath string
	Layout     env.Layout
	Lookup     env.Lookup
	Fetcher    Fetcher
	Runner     ScriptRunner
	Extract    Extractor
	NewProcess ProcessFactory

	mutex      sync.Mutex
	state      models.PipelineState
	failure    string
	startTime  time.Time
	command    []string
	process    ServerProcess
	components *ComponentManager
}

func NewLauncher(configPath string, layout env.Layout) *Launcher {
	SetPipelineState(models.StateInit)
	return &Launcher{
		ConfigPath: configPath,
		Layout:     layout,
		Lookup:     env.OSLookup,
		NewProcess: newServerProcess,
		state:      models.StateInit,
		startTime:  time.Now(),
	}
}

/**
 * Run the whole pipeline and block until the server exits
 * @param {context.Context} ctx - Cancelling it interrupts the install or stops the server
 * @returns {error} Classified error, nil when the server exited cleanly
 */
func (l *Launcher) Run(ctx context.Context) error {
	logger.Infof("--- Server launcher %s initializing ---", env.Version)
	logger.Infof("--- Loading configuration from %s ---", l.ConfigPath)
	cfg, err := config.LoadServerConfig(l.ConfigPath)
	if err != nil {
		return l.fail(err)
	}
	l.mutex.Lock()
	l.components = l.newComponentManager(cfg)
	l.mutex.Unlock()
	l.transition(models.StateConfigLoaded)

	if err := NewProvisioner(l.Layout).Setup(); err != nil {
		return l.fail(err)
	}
	l.transition(models.StateEnvironmentReady)

	if _, err := l.components.Runtime().EnsureRuntime(ctx); err != nil {
		return l.fail(err)
	}
	l.transition(models.StateRuntimeReady)

	if _, err := l.components.Application().EnsureApplication(ctx); err != nil {
		return l.fail(err)
	}
	l.transition(models.StateApplicationReady)

	builder := NewCommandBuilder(l.Layout, l.Lookup)
	argv, err := builder.Build(cfg)
	if err != nil {
		return l.fail(err)
	}
	l.warnBusyPort(builder, cfg)

	newProcess := l.NewProcess
	if newProcess == nil {
		newProcess = newServerProcess
	}
	process := newProcess("server", argv, l.Layout.ApplicationDir)
	l.mutex.Lock()
	l.command = argv
	l.process = process
	l.mutex.Unlock()
	l.transition(models.StateCommandBuilt)

	logger.Info("--- Starting server ---")
	l.transition(models.StateRunning)
	if err := process.Run(ctx); err != nil {
		return l.fail(err)
	}
	l.transition(models.StateCompleted)
	logger.Info("--- Server has shut down ---")
	return nil
}

func (l *Launcher) newComponentManager(cfg *config.ServerConfig) *ComponentManager {
	cm := NewComponentManager(l.Layout, cfg)
	if l.Fetcher != nil {
		cm.SetFetcher(l.Fetcher)
	}
	if l.Runner != nil {
		cm.Runtime().Runner = l.Runner
	}
	if l.Extract != nil {
		cm.Application().Extract = l.Extract
	}
	return cm
}

// warnBusyPort only logs; the server reports the bind error itself.
func (l *Launcher) warnBusyPort(builder *CommandBuilder, cfg *config.ServerConfig) {
	for _, p := range cfg.StartupParameters {
		if p.Key != PortParameter || !p.Enabled {
			continue
		}
		value, _ := builder.ResolveParameter(p)
		port, err := strconv.Atoi(value)
		if err != nil {
			logger.Warnf("Port parameter '%s' is not a number", value)
			return
		}
		if err := utils.CheckPortFree(port); err != nil {
			logger.Warnf("Port check: %v, the server may fail to start", err)
		}
		return
	}
}

func (l *Launcher) transition(state models.PipelineState) {
	l.mutex.Lock()
	l.state = state
	l.mutex.Unlock()
	SetPipelineState(state)
	logger.Debugf("Launcher state: %s", state)
}

func (l *Launcher) fail(err error) error {
	l.mutex.Lock()
	l.state = models.StateFailed
	l.failure = err.Error()
	l.mutex.Unlock()
	SetPipelineState(models.StateFailed)
	return err
}

func (l *Launcher) State() models.PipelineState {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.state
}

// Components returns nil until the configuration has been loaded.
func (l *Launcher) Components() *ComponentManager {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.components
}

/**
 * Snapshot of the launcher, safe to call while Run is in progress
 */
func (l *Launcher) Status() models.LauncherStatus {
	l.mutex.Lock()
	status := models.LauncherStatus{
		State:     l.state,
		Failure:   l.failure,
		StartTime: l.startTime,
		Command:   append([]string(nil), l.command...),
	}
	process := l.process
	components := l.components
	l.mutex.Unlock()

	if process != nil {
		detail := process.GetDetail()
		status.Process = &detail
	}
	if components != nil {
		status.Components = components.GetComponents()
	}
	return status
}

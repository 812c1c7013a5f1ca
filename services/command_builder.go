package services

import (
	"path/filepath"
	"strings"

	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/errs"
)

// 固定的运行参数，总是紧跟在入口文件之后
const (
	FlagConfigPath = "-configpath"
	FlagLogPath    = "-logpath"
	FlagPluginPath = "-pluginpath"

	// WorldParameter is the startup parameter whose value names a world file.
	WorldParameter = "world"
)

// Value sources reported by ResolveParameter.
const (
	SourceDefault     = "default"
	SourceEnvironment = "env"
)

var worldExtensions = []string{".wld", ".twld"}

/**
 * Builds the server command vector from configuration and environment
 * @property {env.Layout} Layout - Directory layout
 * @property {env.Lookup} Lookup - Environment source for parameter overrides
 */
type CommandBuilder struct {
	Layout env.Layout
	Lookup env.Lookup
}

func NewCommandBuilder(layout env.Layout, lookup env.Lookup) *CommandBuilder {
	if lookup == nil {
		lookup = env.OSLookup
	}
	return &CommandBuilder{Layout: layout, Lookup: lookup}
}

/**
 * Build the full command vector
 * @param {*config.ServerConfig} cfg - Validated configuration
 * @returns {[]string} [executable, entry, operational flags..., startup parameters...]
 * @description
 * - 路径全部转为绝对路径，子进程的工作目录是应用目录
 * - 启动参数按配置中的声明顺序输出，未启用的参数不输出
 * @example
 * argv, err := NewCommandBuilder(layout, env.OSLookup).Build(cfg)
 * // [/srv/virtual_env/runtime/dotnet /srv/virtual_env/application/TShock.Server.dll
 * //  -configpath /srv/app-data -logpath /srv/app-data/logs -pluginpath /srv/ServerPlugins
 * //  -world w1.wld -port 7777]
 */
func (b *CommandBuilder) Build(cfg *config.ServerConfig) ([]string, error) {
	paths := []string{
		b.Layout.RuntimeExecutable(cfg.Runtime.Executable),
		b.Layout.ApplicationEntry(cfg.Application.Entry),
		b.Layout.DataDir,
		b.Layout.LogsDir,
		b.Layout.PluginsDir,
	}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errs.Newf(errs.ProcessLaunchFailed, "resolve '%s': %w", p, err)
		}
		paths[i] = abs
	}

	argv := []string{
		paths[0],
		paths[1],
		FlagConfigPath, paths[2],
		FlagLogPath, paths[3],
		FlagPluginPath, paths[4],
	}
	for _, p := range cfg.StartupParameters {
		if !p.Enabled {
			continue
		}
		value, _ := b.ResolveParameter(p)
		argv = append(argv, p.Argument, value)
	}
	return argv, nil
}

/**
 * Resolve the effective value of one parameter
 * @param {config.ParameterSpec} p - Parameter definition
 * @returns {string} Effective value after override and normalization
 * @returns {string} SourceEnvironment when the env var supplied the value, otherwise SourceDefault
 * @description
 * - 环境变量存在即生效，即使值为空字符串
 */
func (b *CommandBuilder) ResolveParameter(p config.ParameterSpec) (string, string) {
	value, source := string(p.Value), SourceDefault
	if p.EnvVar != "" {
		if v, ok := b.Lookup(p.EnvVar); ok {
			value, source = v, SourceEnvironment
		}
	}
	if p.Key == WorldParameter {
		value = NormalizeWorldFile(value)
	}
	return value, source
}

// NormalizeWorldFile appends ".wld" unless the name already ends in .wld or .twld (any case).
// An empty name becomes ".wld".
func NormalizeWorldFile(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range worldExtensions {
		if strings.HasSuffix(lower, ext) {
			return name
		}
	}
	return name + ".wld"
}

package env

import (
	"os"
	"path/filepath"
)

/**
 * Directory layout of a launcher installation
 * @property {string} BaseDir - Root that every other path is derived from
 * @property {string} VirtualEnvDir - Holds the runtime, the application and scratch downloads
 * @property {string} RuntimeDir - Runtime install directory
 * @property {string} ApplicationDir - Server application install directory (child working dir)
 * @property {string} DataDir - Persistent server configuration directory
 * @property {string} LogsDir - Persistent server log directory
 * @property {string} WorldsDir - World files
 * @property {string} PluginsDir - Server plugins
 */
type Layout struct {
	BaseDir        string
	VirtualEnvDir  string
	RuntimeDir     string
	ApplicationDir string
	DataDir        string
	LogsDir        string
	WorldsDir      string
	PluginsDir     string
}

const DefaultBaseDir = "."

/**
 * Build the layout rooted at baseDir
 * @param {string} baseDir - Base directory, "." when empty
 * @returns {Layout} Returns the layout; paths are relative if baseDir is relative
 */
func NewLayout(baseDir string) Layout {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	venv := filepath.Join(baseDir, "virtual_env")
	data := filepath.Join(baseDir, "app-data")
	return Layout{
		BaseDir:        baseDir,
		VirtualEnvDir:  venv,
		RuntimeDir:     filepath.Join(venv, "runtime"),
		ApplicationDir: filepath.Join(venv, "application"),
		DataDir:        data,
		LogsDir:        filepath.Join(data, "logs"),
		WorldsDir:      filepath.Join(baseDir, "worlds"),
		PluginsDir:     filepath.Join(baseDir, "ServerPlugins"),
	}
}

// Directories lists every directory that must exist before installation, parents first.
func (l Layout) Directories() []string {
	return []string{
		l.VirtualEnvDir,
		l.RuntimeDir,
		l.ApplicationDir,
		l.DataDir,
		l.LogsDir,
		l.WorldsDir,
		l.PluginsDir,
	}
}

func (l Layout) RuntimeExecutable(name string) string {
	return filepath.Join(l.RuntimeDir, name)
}

func (l Layout) ApplicationEntry(name string) string {
	return filepath.Join(l.ApplicationDir, name)
}

/**
 *	环境变量查询能力，返回值语义与os.LookupEnv一致
 */
type Lookup func(name string) (string, bool)

// OSLookup reads the real process environment.
var OSLookup Lookup = os.LookupEnv

// MapLookup serves variables from a fixed map, used where the real environment must not leak in.
func MapLookup(vars map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Version is the launcher build version, filled in by main from the build variables.
var Version = "dev"

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"server-launcher/internal/errs"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/viper"
)

const (
	DefaultEntry            = "TShock.Server.dll"
	DefaultRuntimeKind      = "dotnet"
	DefaultRuntimeVersion   = "6.0"
	DefaultInstallScriptUrl = "https://dot.net/v1/dotnet-install.sh"
	DefaultRuntimeExe       = "dotnet"

	keyApplication = "application"
	keyRuntime     = "runtime"
	keyParameters  = "startup_parameters"
)

var (
	ErrMissingSection = errors.New("missing required section")
	ErrMissingField   = errors.New("missing required field")
)

/**
 * Server application package settings
 * @property {string} version - Pinned application version
 * @property {string} download_url - Archive download URL
 * @property {string} entry - Entry artifact inside the install directory, also the installed marker
 * @property {string} checksum - Optional sha256 of the archive ("sha256:<hex>" or bare hex)
 */
type ApplicationConfig struct {
	Version     string `mapstructure:"version" json:"version"`
	DownloadUrl string `mapstructure:"download_url" json:"download_url"`
	Entry       string `mapstructure:"entry" json:"entry,omitempty"`
	Checksum    string `mapstructure:"checksum" json:"checksum,omitempty"`
}

/**
 * Language runtime settings, every field falls back to the pinned defaults
 * @property {string} kind - Runtime kind passed to the install script (--runtime)
 * @property {string} version - Runtime version passed to the install script (--version)
 * @property {string} install_script_url - Install script location
 * @property {string} executable - Runtime executable name, also the installed marker
 */
type RuntimeConfig struct {
	Kind             string `mapstructure:"kind" json:"kind"`
	Version          string `mapstructure:"version" json:"version"`
	InstallScriptUrl string `mapstructure:"install_script_url" json:"install_script_url"`
	Executable       string `mapstructure:"executable" json:"executable"`
}

/**
 *	启动参数的值，配置中可以是字符串、数字或布尔值，统一按文本处理
 */
type ParamValue string

func (p *ParamValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = ParamValue(s)
	case '{', '[':
		return fmt.Errorf("value must be a scalar, got %s", string(trimmed))
	default:
		*p = ParamValue(trimmed)
	}
	return nil
}

/**
 * One configurable command-line option
 * @property {string} key - Name of the entry in startup_parameters
 * @property {bool} enabled - Disabled parameters contribute nothing to the command line
 * @property {string} argument - The CLI flag
 * @property {ParamValue} value - Default value
 * @property {string} env_var - Optional environment variable that overrides value
 */
type ParameterSpec struct {
	Key      string     `json:"-"`
	Enabled  bool       `json:"enabled"`
	Argument string     `json:"argument"`
	Value    ParamValue `json:"value"`
	EnvVar   string     `json:"env_var"`
}

/**
 * Validated server configuration
 * @property {ApplicationConfig} application - Application package settings
 * @property {RuntimeConfig} runtime - Runtime settings with defaults applied
 * @property {[]ParameterSpec} startupParameters - Startup parameters in declared order
 * @property {string} path - Source document path
 */
type ServerConfig struct {
	Application       ApplicationConfig
	Runtime           RuntimeConfig
	StartupParameters []ParameterSpec
	Path              string
}

/**
 * Load and validate the server configuration document
 * @param {string} path - JSON document path
 * @returns {*ServerConfig} Validated configuration
 * @description
 * - Absent file: ConfigNotFound
 * - Unparsable document or parameter entry: ConfigMalformed
 * - Missing application/startup_parameters section or required field: ConfigIncomplete
 * - No defaults are substituted for required data
 * @example
 * cfg, err := config.LoadServerConfig("config.json")
 * if err != nil {
 *     return err
 * }
 */
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Newf(errs.ConfigNotFound, "'%s' not found, please create it", path)
		}
		return nil, errs.Newf(errs.ConfigMalformed, "read '%s' failed: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errs.Newf(errs.ConfigMalformed, "could not decode '%s', please check for syntax errors: %w", path, err)
	}
	for _, section := range []string{keyApplication, keyParameters} {
		if !v.IsSet(section) {
			return nil, errs.Newf(errs.ConfigIncomplete, "'%s' %w '%s'", path, ErrMissingSection, section)
		}
	}

	cfg := &ServerConfig{Path: path}
	if err := v.UnmarshalKey(keyApplication, &cfg.Application); err != nil {
		return nil, errs.Newf(errs.ConfigMalformed, "section '%s': %w", keyApplication, err)
	}
	if v.IsSet(keyRuntime) {
		if err := v.UnmarshalKey(keyRuntime, &cfg.Runtime); err != nil {
			return nil, errs.Newf(errs.ConfigMalformed, "section '%s': %w", keyRuntime, err)
		}
	}
	if err := validateApplication(&cfg.Application); err != nil {
		return nil, errs.New(errs.ConfigIncomplete, err)
	}
	applyDefaults(cfg)

	params, err := parseParameters(data)
	if err != nil {
		return nil, err
	}
	cfg.StartupParameters = params
	return cfg, nil
}

func validateApplication(app *ApplicationConfig) error {
	if strings.TrimSpace(app.Version) == "" {
		return fmt.Errorf("%w 'application.version'", ErrMissingField)
	}
	if strings.TrimSpace(app.DownloadUrl) == "" {
		return fmt.Errorf("%w 'application.download_url'", ErrMissingField)
	}
	return nil
}

func applyDefaults(cfg *ServerConfig) {
	if cfg.Application.Entry == "" {
		cfg.Application.Entry = DefaultEntry
	}
	if cfg.Runtime.Kind == "" {
		cfg.Runtime.Kind = DefaultRuntimeKind
	}
	if cfg.Runtime.Version == "" {
		cfg.Runtime.Version = DefaultRuntimeVersion
	}
	if cfg.Runtime.InstallScriptUrl == "" {
		cfg.Runtime.InstallScriptUrl = DefaultInstallScriptUrl
	}
	if cfg.Runtime.Executable == "" {
		cfg.Runtime.Executable = DefaultRuntimeExe
	}
}

/**
 * Decode startup_parameters keeping document order
 * @param {[]byte} data - Whole configuration document
 * @returns {[]ParameterSpec} Parameters in declared order
 * @description
 * - Viper maps lose key order, so the key order comes from orderedmap
 * - Each entry is decoded from its own raw bytes, numbers keep their literal text
 * - Section name matching is case-insensitive like viper's
 */
func parseParameters(data []byte) ([]ParameterSpec, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Newf(errs.ConfigMalformed, "decode document: %w", err)
	}
	raw, ok := lookupKey(doc, keyParameters)
	if !ok || isNull(raw) {
		return nil, errs.Newf(errs.ConfigIncomplete, "%w '%s'", ErrMissingSection, keyParameters)
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errs.Newf(errs.ConfigMalformed, "'%s' must be an object", keyParameters)
	}
	order := orderedmap.New()
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, errs.Newf(errs.ConfigMalformed, "'%s': %w", keyParameters, err)
	}

	params := make([]ParameterSpec, 0, len(entries))
	for _, key := range order.Keys() {
		entry := bytes.TrimSpace(entries[key])
		if len(entry) == 0 || entry[0] != '{' {
			return nil, errs.Newf(errs.ConfigMalformed, "parameter '%s' must be an object", key)
		}
		var spec ParameterSpec
		if err := json.Unmarshal(entry, &spec); err != nil {
			return nil, errs.Newf(errs.ConfigMalformed, "parameter '%s': %w", key, err)
		}
		spec.Key = key
		params = append(params, spec)
	}
	return params, nil
}

func lookupKey(m map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

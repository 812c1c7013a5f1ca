package root

import (
	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings holds flag, environment and default values of the launcher itself.
var Settings = viper.New()

var RootCmd = &cobra.Command{
	Use:   "server-launcher",
	Short: "游戏服务器启动器",
	Long: `server-launcher安装服务器所需的运行时和应用程序，根据config.json组装启动命令并运行服务器。
不带子命令运行时等同于'server-launcher launch'`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadSettings(Settings)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg.Log.Level, cfg.Log.Path)
		return nil
	},
}

// Layout returns the directory layout for the configured base directory.
func Layout() env.Layout {
	return env.NewLayout(config.Config.BaseDir)
}

/**
 * Load the server configuration named by --config
 */
func LoadServerConfig() (*config.ServerConfig, error) {
	return config.LoadServerConfig(config.Config.ConfigFile)
}

func init() {
	config.SetupSettings(Settings)

	flags := RootCmd.PersistentFlags()
	flags.StringP("config", "c", config.DefaultConfigFile, "server configuration document")
	flags.String("base-dir", ".", "base directory of the installation layout")
	flags.String("log-level", "info", "log level (debug/info/warn/error)")
	flags.String("log-path", "console", "log file path, 'console' for stdout")

	Settings.BindPFlag("config", flags.Lookup("config"))
	Settings.BindPFlag("base_dir", flags.Lookup("base-dir"))
	Settings.BindPFlag("log.level", flags.Lookup("log-level"))
	Settings.BindPFlag("log.path", flags.Lookup("log-path"))
}

package launch

import (
	"server-launcher/cmd/root"
	"server-launcher/internal/config"
	"server-launcher/internal/env"
	"server-launcher/internal/logger"
	"server-launcher/services"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Install missing components and run the server",
	Long: `Load the configuration, create the directory layout, install the runtime and the
application when they are missing or outdated, then run the server in the foreground.
The launcher exits with the server; a failure at any step exits with status 1.`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

const launchExample = `  server-launcher
  server-launcher launch -c /srv/game/config.json --base-dir /srv/game
  SERVER_PORT=7778 server-launcher launch --status-addr 127.0.0.1:9090`

/**
 * Run the launcher pipeline until the server exits
 * @description
 * - 配置了状态服务地址时在后台提供/healthz等接口
 * - 收到中断信号时向服务器进程转发，等待其退出
 */
func runLaunch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	launcher := services.NewLauncher(config.Config.ConfigFile, root.Layout())
	launcher.Lookup = env.OSLookup

	if addr := config.Config.Status.Address; addr != "" {
		stop, err := StartStatusServer(ctx, addr, launcher)
		if err != nil {
			logger.Warnf("Status server disabled, listen on %s failed: %v", addr, err)
		} else {
			defer stop()
		}
	}
	return launcher.Run(ctx)
}

func init() {
	launchCmd.Flags().String("status-addr", "", "serve launcher status on this address (host:port or unix:/path)")
	root.Settings.BindPFlag("status.address", launchCmd.Flags().Lookup("status-addr"))
	launchCmd.Example = launchExample

	root.RootCmd.AddCommand(launchCmd)
	root.RootCmd.Flags().AddFlagSet(launchCmd.Flags())
	root.RootCmd.RunE = runLaunch
	root.RootCmd.Args = cobra.NoArgs
}

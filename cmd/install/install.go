package install

import (
	"fmt"

	"server-launcher/cmd/root"
	"server-launcher/services"

	"github.com/spf13/cobra"
)

var force bool

var installCmd = &cobra.Command{
	Use:   "install {runtime|application|all}",
	Short: "Install components without starting the server",
	Long: `Install the runtime, the application, or both, exactly as 'launch' would before
starting the server. Components already installed at the configured version are skipped
unless --force is given.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"runtime", "application", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return installComponents(cmd, args[0])
	},
}

const installExample = `  server-launcher install all
  server-launcher install application --force
  server-launcher install runtime -c /srv/game/config.json`

/**
 * Install the named component, or both when name is "all"
 * @description
 * - 安装前创建目录结构，与launch一致
 */
func installComponents(cmd *cobra.Command, name string) error {
	cfg, err := root.LoadServerConfig()
	if err != nil {
		return err
	}
	layout := root.Layout()
	if err := services.NewProvisioner(layout).Setup(); err != nil {
		return err
	}
	manager := services.NewComponentManager(layout, cfg)
	manager.SetForce(force)

	if name == "all" {
		count, err := manager.InstallAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d component(s) installed\n", count)
		return nil
	}
	installed, err := manager.Install(cmd.Context(), name)
	if err != nil {
		return err
	}
	if installed {
		fmt.Printf("The '%s' is installed\n", name)
	} else {
		fmt.Printf("The '%s' is up to date\n", name)
	}
	return nil
}

func init() {
	installCmd.Flags().BoolVarP(&force, "force", "f", false, "reinstall even if already installed")
	installCmd.Example = installExample
	root.RootCmd.AddCommand(installCmd)
}

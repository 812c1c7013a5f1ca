package status

import (
	"encoding/json"
	"fmt"
	"os"

	"server-launcher/cmd/root"
	"server-launcher/internal/models"
	"server-launcher/internal/rpc"
	"server-launcher/internal/utils"
	"server-launcher/services"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var remoteAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installation state of the runtime and the application",
	Long: `Show whether the runtime and the application are installed at the configured versions.
With --remote, query the status server of a running launcher instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteAddr != "" {
			return showRemote(remoteAddr)
		}
		return showLocal()
	},
}

/**
 *	Fields displayed in list format
 */
type Component_Columns struct {
	Name        string `json:"name"`
	Wanted      string `json:"wanted"`
	Installed   string `json:"installed"`
	InstalledAt string `json:"installed_at"`
	Status      string `json:"status"`
	Marker      string `json:"marker"`
}

func showLocal() error {
	cfg, err := root.LoadServerConfig()
	if err != nil {
		return err
	}
	manager := services.NewComponentManager(root.Layout(), cfg)
	printComponents(manager.GetComponents())
	return nil
}

/**
 * Query a running launcher through its status server
 * @param {string} addr - Status server address, "host:port" or "unix:/path"
 */
func showRemote(addr string) error {
	client := rpc.NewHTTPClient(rpc.NewHTTPConfig(addr))
	defer client.Close()

	resp, err := client.Get("/launcher/api/v1/status", nil)
	if err != nil {
		return fmt.Errorf("Failed to query launcher at %s: %v", addr, err)
	}
	var status models.LauncherStatus
	if err := resp.Decode(&status); err != nil {
		return err
	}
	fmt.Printf("State: %s\n", status.State)
	if status.Failure != "" {
		fmt.Printf("Failure: %s\n", status.Failure)
	}
	if status.Process != nil {
		fmt.Printf("Process: pid %d, %s\n", status.Process.Pid, status.Process.Status)
	}
	printComponents(status.Components)
	if len(status.Command) > 0 {
		out, _ := json.MarshalIndent(status.Command, "", "  ")
		fmt.Fprintf(os.Stdout, "Command: %s\n", out)
	}
	return nil
}

func printComponents(components []models.ComponentInfo) {
	if len(components) == 0 {
		fmt.Println("No components found")
		return
	}
	var dataList []*orderedmap.OrderedMap
	for _, cpn := range components {
		row := Component_Columns{
			Name:        string(cpn.Name),
			Wanted:      cpn.Wanted,
			Installed:   "-",
			InstalledAt: "-",
			Marker:      cpn.Marker,
		}
		if cpn.Record != nil {
			row.Installed = cpn.Record.Version
			row.InstalledAt = cpn.Record.InstalledAt.Local().Format("2006-01-02 15:04:05")
		}
		row.Status = "ok"
		if !cpn.Installed {
			row.Status = "needs install"
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(dataList)
}

func init() {
	statusCmd.Flags().StringVarP(&remoteAddr, "remote", "r", "", "status server address of a running launcher")
	statusCmd.Example = `  server-launcher status
  server-launcher status --remote 127.0.0.1:9090`
	root.RootCmd.AddCommand(statusCmd)
}

package command

import (
	"fmt"
	"strings"

	"server-launcher/cmd/root"
	"server-launcher/internal/env"
	"server-launcher/internal/utils"
	"server-launcher/services"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var showTable bool

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Print the server command line without running it",
	Long: `Print the command vector that 'launch' would execute, using the current environment
for parameter overrides. With --table, list each startup parameter and where its value came from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCommand()
	},
}

/**
 *	Fields displayed in table format
 */
type Parameter_Columns struct {
	Key      string `json:"key"`
	Enabled  bool   `json:"enabled"`
	Argument string `json:"argument"`
	Value    string `json:"value"`
	Source   string `json:"source"`
	EnvVar   string `json:"env_var"`
}

func printCommand() error {
	cfg, err := root.LoadServerConfig()
	if err != nil {
		return err
	}
	builder := services.NewCommandBuilder(root.Layout(), env.OSLookup)
	if !showTable {
		argv, err := builder.Build(cfg)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(argv, " "))
		return nil
	}

	var dataList []*orderedmap.OrderedMap
	for _, p := range cfg.StartupParameters {
		row := Parameter_Columns{
			Key:      p.Key,
			Enabled:  p.Enabled,
			Argument: p.Argument,
			EnvVar:   p.EnvVar,
		}
		row.Value, row.Source = builder.ResolveParameter(p)
		if !p.Enabled {
			row.Source = "-"
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	if len(dataList) == 0 {
		fmt.Println("No startup parameters configured")
		return nil
	}
	utils.PrintFormat(dataList)
	return nil
}

func init() {
	commandCmd.Flags().BoolVarP(&showTable, "table", "t", false, "list parameters as a table")
	commandCmd.Example = `  server-launcher command
  SERVER_PORT=7778 server-launcher command --table`
	root.RootCmd.AddCommand(commandCmd)
}

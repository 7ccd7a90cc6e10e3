package cmd

import (
	"github.com/gosuri/uitable"
	"github.com/guildai/guild-cli/pkg/model"
	"github.com/guildai/guild-cli/pkg/namespace"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List project models",
	Long: `Lists the models resolvable from the project guildfile, with
their distribution references.`,
	Run: func(cmd *cobra.Command, args []string) {
		gf := loadGuildfile()
		set := model.NewSet(namespace.Builtins(), model.NewGuildfileDist(gf))

		table := uitable.New()
		table.MaxColWidth = 80
		table.AddRow("MODEL", "REFERENCE")
		set.Iter(func(m *model.Model) {
			table.AddRow(m.FullName(set.Namespaces()), m.Reference(set.Namespaces()).String())
		})
		infoLogger.Print(table.String())
	},
}

func init() {
	addGuildfileFlag(modelsCmd)
	rootCmd.AddCommand(modelsCmd)
}

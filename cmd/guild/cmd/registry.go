package cmd

import (
	"github.com/gosuri/uitable"
	"github.com/guildai/guild-cli/pkg/entrypoint"
	"github.com/spf13/cobra"
)

func groupTable(reg *entrypoint.Registry, group string) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("NAME", "IMPLEMENTATION")
	for _, ep := range reg.Group(group) {
		table.AddRow(ep.Name, ep.Ref())
	}
	return table.String()
}

func listGroupCmd(use, short, group string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			infoLogger.Print(groupTable(loadRegistry(), group))
		},
	}
	addRegistryFlag(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(
		listGroupCmd("plugins", "List registered plugins", entrypoint.GroupPlugins),
		listGroupCmd("remotes", "List registered remote types", entrypoint.GroupRemoteTypes),
		listGroupCmd("namespaces", "List registered namespaces", entrypoint.GroupNamespaces),
	)
}

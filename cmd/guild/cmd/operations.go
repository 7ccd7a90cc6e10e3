package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/guildai/guild-cli/pkg/guildfile"
	"github.com/spf13/cobra"
)

type opInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Main        string `json:"main"`
	Default     bool   `json:"default,omitempty"`
	Requires    int    `json:"requires,omitempty"`
}

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "List project operations",
	Long: `Lists the operations defined in the project guildfile.

The default operation is highlighted. Default output is a table; use
--format yaml for a machine readable listing.`,
	Run: func(cmd *cobra.Command, args []string) {
		gf := loadGuildfile()
		ops := visibleOps(gf, guildFlags.operations.All)

		infos := make([]opInfo, 0, len(ops))
		for _, op := range ops {
			infos = append(infos, opInfo{
				Name:        op.Name,
				Description: op.Description,
				Main:        op.Main,
				Default:     op.Default,
				Requires:    len(op.Requires),
			})
		}
		switch guildFlags.operations.Format {
		case "yaml":
			b, err := yaml.Marshal(infos)
			if err != nil {
				wrapFatalln("render operations", err)
				return
			}
			infoLogger.Print(string(b))
		case "table":
			infoLogger.Print(operationsTable(ops))
		default:
			wrapFatalln("unknown format "+guildFlags.operations.Format, nil)
		}
	},
}

// visibleOps filters out operations hidden behind a leading
// underscore unless all is set.
func visibleOps(gf *guildfile.Guildfile, all bool) []*guildfile.OpDef {
	if all {
		return gf.Operations
	}
	ops := make([]*guildfile.OpDef, 0, len(gf.Operations))
	for _, op := range gf.Operations {
		if strings.HasPrefix(op.Name, "_") {
			continue
		}
		ops = append(ops, op)
	}
	return ops
}

func operationsTable(ops []*guildfile.OpDef) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("OPERATION", "MAIN", "DESCRIPTION")
	for _, op := range ops {
		name := op.Name
		if op.Default {
			name = color.New(color.Bold).Sprint(name + " (default)")
		}
		table.AddRow(name, op.Main, op.Description)
	}
	return table.String()
}

func init() {
	addGuildfileFlag(operationsCmd)
	addFormatFlag(operationsCmd)
	addAllFlag(operationsCmd)
	rootCmd.AddCommand(operationsCmd)
}

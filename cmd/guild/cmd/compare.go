package cmd

import (
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Show compare columns for an operation",
	Long: `Shows the resolved compare columns of an operation: the scalar
key, the qualifier selecting a value from the series, and the display
name.`,
	Example: `% guild compare --op train
COLUMN     KEY   QUALIFIER  STEP
step       loss  last       yes
train_loss loss  last       no`,
	Run: func(cmd *cobra.Command, args []string) {
		gf := loadGuildfile()

		opName := guildFlags.compare.Op
		if opName == "" {
			if def := gf.DefaultOp(); def != nil {
				opName = def.Name
			}
		}
		op, ok := gf.OpDef(opName)
		if !ok {
			wrapFatalln("unknown operation "+opName, nil)
			return
		}
		cols, err := op.CompareCols()
		if err != nil {
			wrapFatalln("parse compare columns", err)
			return
		}
		table := uitable.New()
		table.AddRow("COLUMN", "KEY", "QUALIFIER", "STEP")
		for _, col := range cols {
			step := "no"
			if col.Step {
				step = "yes"
			}
			table.AddRow(col.Header(), col.Key(), col.Qualifier, step)
		}
		infoLogger.Print(table.String())
	},
}

func init() {
	addGuildfileFlag(compareCmd)
	addOperationFlag(compareCmd, &guildFlags.compare.Op)
	rootCmd.AddCommand(compareCmd)
}

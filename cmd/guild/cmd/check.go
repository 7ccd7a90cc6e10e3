package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the project configuration",
	Long: `Validates the project guildfile and the entry-point registry.

Reports every finding: duplicate operation names, dangling operation
references in requires lists, malformed compare columns, duplicate
registry keys. Exits with a non-zero status when the project is
invalid.`,
	Example: `% guild check -f guild.yml --registry entry_points.ini
guildfile: 2 operations OK
registry: 5 groups OK`,
	Run: func(cmd *cobra.Command, args []string) {
		reg := loadRegistry()
		gf := loadGuildfile()

		if err := gf.Validate(); err != nil {
			for _, finding := range multierr.Errors(err) {
				infoLogger.Println(color.RedString("error:"), finding)
			}
			wrapFatalWithCodef(1, "%d problem(s) found in %s", len(multierr.Errors(err)), gf.Src)
			return
		}
		infoLogger.Printf("guildfile: %d operations %s", len(gf.Operations), color.GreenString("OK"))
		infoLogger.Printf("registry: %d groups %s", len(reg.Groups()), color.GreenString("OK"))
	},
}

func init() {
	addGuildfileFlag(checkCmd)
	addRegistryFlag(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

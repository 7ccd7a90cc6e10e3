package cmd

import (
	"context"

	"github.com/guildai/guild-cli/pkg/resolve"
	"github.com/guildai/guild-cli/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the requires list of an operation",
	Long: `Materializes the requires list of an operation into a target
directory.

URL sources are downloaded, verified against their sha256 when pinned,
and unpacked unless the dependency opts out. Operation references copy
artifacts selected from the latest completed run of the referenced
operation.`,
	Run: func(cmd *cobra.Command, args []string) {
		reg := loadRegistry()
		gf := loadGuildfile()

		opName := guildFlags.resolve.Op
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
		target := guildFlags.resolve.Target
		if target == "" {
			target = "."
		}
		resolver := resolve.New(baseFs,
			resolve.WithCache(localfs.New(afero.NewBasePathFs(baseFs, guildFlags.runs.Cache))),
			resolve.WithRuns(runsStore(reg)),
			resolve.WithLogger(mustLogger()),
		)
		if err := resolver.Resolve(context.Background(), op, target); err != nil {
			wrapFatalln("resolve operation "+opName, err)
			return
		}
		infoLogger.Printf("resolved %d dependencies for %s", len(op.Requires), opName)
	},
}

func init() {
	addGuildfileFlag(resolveCmd)
	addRegistryFlag(resolveCmd)
	addOperationFlag(resolveCmd, &guildFlags.resolve.Op)
	resolveCmd.Flags().StringVar(&guildFlags.resolve.Target, "target", "",
		"Directory receiving resolved dependencies")
	rootCmd.AddCommand(resolveCmd)
}

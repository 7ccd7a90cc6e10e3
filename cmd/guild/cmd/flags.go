package cmd

import (
	"fmt"

	"github.com/guildai/guild-cli/pkg/entrypoint"
	"github.com/guildai/guild-cli/pkg/guildfile"
	"github.com/guildai/guild-cli/pkg/storage"
	"github.com/guildai/guild-cli/pkg/storage/localfs"
	"github.com/guildai/guild-cli/pkg/storage/sthree"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type flagsT struct {
	project struct {
		Guildfile string
		Registry  string
	}
	runs struct {
		Path       string
		Cache      string
		RemoteType string
		Bucket     string
	}
	operations struct {
		All    bool
		Format string
	}
	compare struct {
		Op string
	}
	resolve struct {
		Op     string
		Target string
	}
	root struct {
		logLevel string
	}
}

var guildFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&guildFlags.root.logLevel, "loglevel", "none",
		"The logging level: none, info or debug")
}

func addGuildfileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&guildFlags.project.Guildfile, "guildfile", "f", "",
		"Path to the project guildfile")
}

func addRegistryFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&guildFlags.project.Registry, "registry", "",
		"Path to the entry-point registry")
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&guildFlags.operations.Format, "format", "table",
		"Output format: table or yaml")
}

func addAllFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&guildFlags.operations.All, "all", false,
		"Include operations with a leading underscore, hidden by default")
}

func addOperationFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "op", "", "Operation name")
}

var baseFs = afero.NewOsFs()

func loadGuildfile() *guildfile.Guildfile {
	gf, err := guildfile.FromFile(baseFs, guildFlags.project.Guildfile)
	if err != nil {
		wrapFatalln("load guildfile "+guildFlags.project.Guildfile, err)
		return nil
	}
	return gf
}

// loadRegistry reads the project registry, falling back to the
// builtin table when the project ships none.
func loadRegistry() *entrypoint.Registry {
	path := guildFlags.project.Registry
	if ok, err := afero.Exists(baseFs, path); err != nil || !ok {
		return entrypoint.Builtins()
	}
	reg, err := entrypoint.ParseFile(baseFs, path)
	if err != nil {
		wrapFatalln("load entry-point registry "+path, err)
		return nil
	}
	return reg
}

// remoteResolver binds the remote types the CLI implements to store
// factories.
func remoteResolver() *entrypoint.Resolver {
	resolver := entrypoint.NewResolver()
	resolver.Register(entrypoint.GroupRemoteTypes, "guild.remotes.local:LocalRemote",
		func(*entrypoint.EntryPoint) (interface{}, error) {
			return localfs.New(afero.NewBasePathFs(baseFs, guildFlags.runs.Path)), nil
		})
	resolver.Register(entrypoint.GroupRemoteTypes, "guild.remotes.s3:S3Remote",
		func(*entrypoint.EntryPoint) (interface{}, error) {
			if guildFlags.runs.Bucket == "" {
				return nil, fmt.Errorf("the s3 remote type needs a bucket")
			}
			return sthree.New(sthree.Bucket(guildFlags.runs.Bucket), sthree.Prefix(guildFlags.runs.Path)), nil
		})
	return resolver
}

// runsStore resolves the configured remote type into a store for
// recorded runs.
func runsStore(reg *entrypoint.Registry) storage.Store {
	remoteType := guildFlags.runs.RemoteType
	if remoteType == "" {
		remoteType = "local"
	}
	impl, err := remoteResolver().ResolveName(reg, entrypoint.GroupRemoteTypes, remoteType)
	if err != nil {
		wrapFatalln("resolve remote type "+remoteType, err)
		return nil
	}
	store, ok := impl.(storage.Store)
	if !ok {
		wrapFatalln(fmt.Sprintf("remote type %s is not a store", remoteType), nil)
		return nil
	}
	return store
}

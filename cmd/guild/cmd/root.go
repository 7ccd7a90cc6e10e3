package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/guildai/guild-cli/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "guild",
	Short: "Guild helps running reproducible ML experiments",
	Long: `Guild helps running reproducible ML experiments.

Projects declare their pipeline operations in a guild.yml file and
their extensions (plugins, namespaces, flag parsers, remote types) in
an entry-point registry. Guild loads both, validates them and resolves
what operations need to run.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("guildfile", "guild.yml")
	viper.SetDefault("registry", "entry_points.ini")
	viper.SetDefault("runs", ".guild/runs")
	viper.SetDefault("cache", ".guild/cache")
	if os.Getenv("GUILD_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("GUILD_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.guild")
		viper.AddConfigPath("/etc/guild")
		viper.SetConfigName("guild-config")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setGuildParams(&guildFlags)
}

func mustLogger() *zap.Logger {
	l, err := dlogger.GetConsoleLogger(guildFlags.root.logLevel)
	if err != nil {
		wrapFatalln("invalid log level "+guildFlags.root.logLevel, err)
		return zap.NewNop()
	}
	return l
}

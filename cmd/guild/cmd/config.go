package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// keep field names aligned with their serialized names for viper
	Guildfile  string `json:"guildfile" yaml:"guildfile"`   // Project file path
	Registry   string `json:"registry" yaml:"registry"`     // Entry-point registry path
	Runs       string `json:"runs" yaml:"runs"`             // Recorded runs directory
	Cache      string `json:"cache" yaml:"cache"`           // Resolved source cache directory
	RemoteType string `json:"remotetype" yaml:"remotetype"` // Remote type for run storage
	Bucket     string `json:"bucket" yaml:"bucket"`         // Bucket for the s3 remote type
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setGuildParams(flags *flagsT) {
	if flags.project.Guildfile == "" {
		flags.project.Guildfile = c.Guildfile
	}
	if flags.project.Registry == "" {
		flags.project.Registry = c.Registry
	}
	if flags.runs.Path == "" {
		flags.runs.Path = c.Runs
	}
	if flags.runs.Cache == "" {
		flags.runs.Cache = c.Cache
	}
	if flags.runs.RemoteType == "" {
		flags.runs.RemoteType = c.RemoteType
	}
	if flags.runs.Bucket == "" {
		flags.runs.Bucket = c.Bucket
	}
}

package main

import (
	"github.com/guildai/guild-cli/cmd/guild/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"context"
	"log/slog"
	"os"

	"p9e.in/ncac/commands"
	"p9e.in/ncac/config"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func init() {
	commands.GetRootCmd().AddCommand(commands.NewServeCommand())
	commands.GetRootCmd().AddCommand(commands.NewExportCommand())
	commands.GetRootCmd().AddCommand(commands.NewLookupCommand())
	commands.GetRootCmd().AddCommand(commands.NewMigrateCommand())
}

func main() {
	cfg := config.Load()
	closer, err := config.InitLogger(cfg)
	if err != nil {
		slog.Warn("file logging disabled", "err", err)
	}
	defer closer.Close()

	slog.Info("starting ncac", "version", Version, "cwd", workingDir())
	commands.SetConfig(cfg)
	commands.SetVersion(Version, BuildTime)

	if err := commands.GetRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("Error executing command", "err", err)
		closer.Close()
		os.Exit(1)
	}
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	return wd
}

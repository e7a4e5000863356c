package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"paleatra/compose"
)

type CLI struct {
	LogLevel string          `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Config   kong.ConfigFlag `help:"Load flag values from a JSON file"`

	Frame compose.FrameCmd `cmd:"" default:"withargs" help:"Frame a picture with a strip of its most frequent colors"`
	Batch compose.BatchCmd `cmd:"" help:"Frame every picture of a folder"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("paleatra"),
		kong.Description("Frames pictures with a palette of their dominant colors."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.paleatra.json"),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		slog.Error("invalid log level", "level", cli.LogLevel, "error", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := kctx.Run(); err != nil {
		slog.Error("failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/nguyentantai21042004/synopsis-flow/internal/processor"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string   `help:"Path to the YAML config file." default:"config.yaml" type:"path"`
	LogLevel string   `help:"Override logging.level from the config (debug, info, warn, error)."`
	EnvFiles []string `name:"env-file" help:"Env files holding API keys, loaded before the config." default:".env,secrets.env"`
}

var cli struct {
	Globals `embed:""`

	Watch     WatchCmd     `cmd:"" help:"Watch the input folder and process every media file dropped into it. This is the default command." default:"1"`
	Process   ProcessCmd   `cmd:"" help:"Transcribe and summarize a single media file."`
	Summarize SummarizeCmd `cmd:"" help:"Build a synopsis from an existing transcript (.txt or .srt)."`
	List      ListCmd      `cmd:"" help:"List the uploads recorded for a user."`
	Model     ModelCmd     `cmd:"" help:"Show which whisper model would be used on this machine."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("synopsis-flow"),
		kong.Description("Turns lecture recordings into timestamped transcripts and structured synopses."),
		kong.UsageOnError(),
		kong.Vars{"default_user": processor.DefaultUser},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if err := kctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

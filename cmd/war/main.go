package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/war/cmd/war/shared"
	"github.com/lox/war/internal/config"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"${config_file}" help:"Path to HCL config file"`
	NoColor  bool   `help:"Disable colored output"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play an interactive game in the terminal"`
	Auto     AutoCmd          `cmd:"" help:"Play one game to completion without interaction"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many seeded games and report statistics"`
	Serve    ServeCmd         `cmd:"" help:"Serve games over WebSocket"`
	Connect  ConnectCmd       `cmd:"" help:"Play a game hosted by a War server"`
	History  HistoryCmd       `cmd:"" help:"Summarise games recorded in the stats file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("war"),
		kong.Description("The card game War, for two players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFilename,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads and validates the config file and applies global overrides
func (g *Globals) load() (*config.Config, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", g.Config, err)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

// logger builds the logger for cfg. When toFile is set, output goes to the
// configured log file and the returned closer must be called.
func (g *Globals) logger(cfg *config.Config, toFile bool) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	if toFile {
		f, err := shared.OpenLogFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closer = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
			}
		}
	}

	logger, err := shared.SetupLogger(w, cfg.LogLevel)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return logger, closer, nil
}

// Package config loads the HCL configuration shared by every war command.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/war/internal/game"
)

// DefaultFilename is the config file looked up when --config is not given
const DefaultFilename = "war.hcl"

// Config represents the complete configuration
type Config struct {
	Player1   string
	Player2   string
	StatsFile string
	LogLevel  string
	LogFile   string
	Seed      int64 // Zero picks a fresh seed per game

	Simulation SimulationConfig
	Server     ServerConfig
}

// SimulationConfig controls `war simulate`
type SimulationConfig struct {
	Games     int `hcl:"games,optional"`
	MaxRounds int `hcl:"max_rounds,optional"`
	Workers   int `hcl:"workers,optional"`
}

// ServerConfig controls `war serve`
type ServerConfig struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	ExportStats bool   `hcl:"export_stats,optional"`
}

// file mirrors the HCL layout; blocks are pointers so they may be omitted.
type file struct {
	Player1    string            `hcl:"player1,optional"`
	Player2    string            `hcl:"player2,optional"`
	StatsFile  string            `hcl:"stats_file,optional"`
	LogLevel   string            `hcl:"log_level,optional"`
	LogFile    string            `hcl:"log_file,optional"`
	Seed       int64             `hcl:"seed,optional"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
	Server     *ServerConfig     `hcl:"server,block"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Player1:   "Player 1",
		Player2:   "Player 2",
		StatsFile: "war_stats.txt",
		LogLevel:  "info",
		LogFile:   "war.log",
		Simulation: SimulationConfig{
			Games:     1000,
			MaxRounds: 10000,
			Workers:   4,
		},
		Server: ServerConfig{
			Address: "localhost",
			Port:    8080,
		},
	}
}

// Load loads configuration from an HCL file. A missing file is not an error
// and yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	return raw.withDefaults(), nil
}

// withDefaults applies defaults for missing values
func (f *file) withDefaults() *Config {
	def := Default()
	c := &Config{
		Player1:   orDefault(f.Player1, def.Player1),
		Player2:   orDefault(f.Player2, def.Player2),
		StatsFile: orDefault(f.StatsFile, def.StatsFile),
		LogLevel:  orDefault(f.LogLevel, def.LogLevel),
		LogFile:   orDefault(f.LogFile, def.LogFile),
		Seed:      f.Seed,
	}

	c.Simulation = def.Simulation
	if s := f.Simulation; s != nil {
		if s.Games != 0 {
			c.Simulation.Games = s.Games
		}
		if s.MaxRounds != 0 {
			c.Simulation.MaxRounds = s.MaxRounds
		}
		if s.Workers != 0 {
			c.Simulation.Workers = s.Workers
		}
	}

	c.Server = def.Server
	if s := f.Server; s != nil {
		c.Server.Address = orDefault(s.Address, def.Server.Address)
		if s.Port != 0 {
			c.Server.Port = s.Port
		}
		c.Server.ExportStats = s.ExportStats
	}
	return c
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, name := range []string{c.Player1, c.Player2} {
		if err := game.ValidatePlayerName(name); err != nil {
			return err
		}
	}
	if c.Player1 == c.Player2 {
		return fmt.Errorf("player names must differ: both are %q", c.Player1)
	}
	if c.StatsFile == "" {
		return fmt.Errorf("stats_file must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.Simulation.Games < 1 {
		return fmt.Errorf("simulation: games must be positive, got %d", c.Simulation.Games)
	}
	if c.Simulation.MaxRounds < 1 {
		return fmt.Errorf("simulation: max_rounds must be positive, got %d", c.Simulation.MaxRounds)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", c.Simulation.Workers)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", c.Server.Port)
	}
	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

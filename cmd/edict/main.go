// Edict is a deterministic, law-driven simulation engine for text worlds.
// Usage: edict [--version] [--plain] [--script <file>] [--trace]
//              [--config <file>] [--locale <file>] [--events <file>] <pack_directory>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tmavro/edict/cli"
	"github.com/tmavro/edict/config"
	"github.com/tmavro/edict/emit"
	"github.com/tmavro/edict/engine"
	"github.com/tmavro/edict/loader"
	"github.com/tmavro/edict/locale"
	"github.com/tmavro/edict/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var packDir string
	var scriptFile string
	var configFile string
	var localeFile string
	var eventsFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("edict %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			scriptFile = flagValue(args, &i)
		case "--config":
			configFile = flagValue(args, &i)
		case "--locale":
			localeFile = flagValue(args, &i)
		case "--events":
			eventsFile = flagValue(args, &i)
		default:
			if packDir == "" {
				packDir = args[i]
			}
		}
	}

	if packDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: edict [--version] [--plain] [--script <file>] [--trace] [--config <file>] [--locale <file>] [--events <file>] <pack_directory>\n")
		os.Exit(1)
	}

	// Load and compile the Lua world pack.
	pack, err := loader.Load(packDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading pack: %v\n", err)
		os.Exit(1)
	}
	defer pack.Close()

	var opts []engine.Option

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, engine.WithConfig(cfg))
	}

	if localeFile != "" {
		table, err := locale.Load(localeFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading locale: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, engine.WithLocale(table))
	}

	if eventsFile != "" {
		f, err := os.Create(eventsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening events file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		opts = append(opts, engine.WithEmitter(emit.NewWriter(f)))
	}

	eng := engine.New(pack.Store, pack.Registry, opts...)
	ctx := context.Background()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng, pack)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng, pack)
		c.Trace = trace
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Run(eng, pack); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagValue consumes the value following a flag, exiting on a bare flag.
func flagValue(args []string, i *int) string {
	if *i+1 >= len(args) {
		fmt.Fprintf(os.Stderr, "%s requires a value\n", args[*i])
		os.Exit(1)
	}
	*i++
	return args[*i]
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

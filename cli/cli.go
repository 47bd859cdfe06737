// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Edict simulation engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tmavro/edict/engine"
	"github.com/tmavro/edict/loader"
	"github.com/tmavro/edict/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Pack      *loader.Pack
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine and pack.
func New(eng *engine.Engine, pack *loader.Pack) *CLI {
	return &CLI{
		Engine: eng,
		Pack:   pack,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the command loop. It shows the pack intro, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run(ctx context.Context) error {
	if c.Pack.Title != "" {
		c.printLine(c.Pack.Title)
	}
	if c.Pack.Intro != "" {
		c.printLine(c.Pack.Intro)
		c.printLine("")
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result, err := c.Engine.Step(ctx, input)
		if err != nil {
			return fmt.Errorf("processing %q: %w", input, err)
		}
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
	return scanner.Err()
}

// handleMeta dispatches meta-commands. Returns true if the loop should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = strings.Join(parts[1:], " ")
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/laws":
		c.cmdLaws()

	case "/entities":
		c.cmdEntities()

	case "/entity":
		c.cmdEntity(arg)

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /laws          — List ratified laws by layer",
		"  /entities      — List all entities",
		"  /entity <id>   — Dump one entity's components",
		"  /trace         — Toggle trace output (mutations, events)",
		"  /quit          — Exit",
		"  /help          — Show this help",
		"",
		"Everything else is handed to the world's laws. Prefix a command",
		"with \"simulate\" to see what would happen without changing anything.",
		"  again (g)      — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdLaws() {
	all := c.Engine.Registry.InOrder()
	if len(all) == 0 {
		c.printSystem("No laws ratified.")
		return
	}
	for _, law := range all {
		c.printLine(fmt.Sprintf("  [%s] %s  (intents: %s)",
			law.Layer, law.Name, strings.Join(law.Intents, ", ")))
	}
}

func (c *CLI) cmdEntities() {
	view := c.Engine.Store.View()
	entities := view.EntitiesWith("Meta")
	if len(entities) == 0 {
		c.printSystem("No entities.")
		return
	}
	for _, e := range entities {
		name := view.DisplayName(e)
		comps := view.ComponentsOn(e)
		c.printLine(fmt.Sprintf("  #%d %s  [%s]", e, name, strings.Join(comps, ", ")))
	}
}

func (c *CLI) cmdEntity(arg string) {
	if arg == "" {
		c.printSystem("Usage: /entity <pretty id>")
		return
	}
	view := c.Engine.Store.View()
	e, ok := view.ByPrettyID(arg)
	if !ok {
		c.printSystem(fmt.Sprintf("No entity %q.", arg))
		return
	}

	c.printLine(fmt.Sprintf("  #%d %s", e, view.DisplayName(e)))
	for _, name := range view.ComponentsOn(e) {
		data, _ := view.ComponentData(e, name)
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var fields []string
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, data[k]))
		}
		c.printLine(fmt.Sprintf("    %s{%s}", name, strings.Join(fields, ", ")))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Mutations) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Mutations: %d", len(result.Mutations)))
		for _, m := range result.Mutations {
			c.printSystem(fmt.Sprintf("[trace]   %s #%d %s", m.Kind, m.Entity, m.Component))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Narrations {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

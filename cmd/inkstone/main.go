// Package main is the entry point for the Inkstone editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkstone/internal/config"
	"github.com/dshills/inkstone/internal/engine"
	"github.com/dshills/inkstone/internal/fileio"
	"github.com/dshills/inkstone/internal/script"
	"github.com/dshills/inkstone/internal/theme"
	"github.com/dshills/inkstone/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	themePath  string
	scriptPath string
	file       string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	th := theme.Default()
	themePath := opts.themePath
	if themePath == "" {
		themePath = cfg.Theme
	}
	if themePath != "" {
		if th, err = theme.Load(themePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load theme: %v\n", err)
			return 1
		}
	}

	doc, enc, err := openDocument(opts.file, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open %s: %v\n", opts.file, err)
		return 1
	}

	// Batch mode edits the document and exits without a terminal.
	if opts.scriptPath != "" {
		return runScript(doc, opts.scriptPath, opts.file, enc)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	var watcher *config.Watcher
	if opts.configPath != "" {
		if watcher, err = watchConfig(screen, opts.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: configuration reload disabled: %v\n", err)
		}
	}

	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	if watcher != nil {
		defer watcher.Close()
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	editor := tui.New(screen, doc, th, cfg, opts.file, enc)
	if err := editor.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// openDocument loads path into a document configured from cfg. An empty
// or missing path yields an empty document; saving creates the file.
func openDocument(path string, cfg config.Settings) (*engine.Document, fileio.Encoding, error) {
	docOpts := []engine.Option{
		engine.WithTabWidth(cfg.TabWidth),
		engine.WithHistoryLimit(cfg.MaxUndo),
	}
	if term, ok := cfg.Terminator(); ok {
		docOpts = append(docOpts, engine.WithEnding(engine.DetectEnding(term)))
	}

	if path == "" {
		return engine.New(docOpts...), fileio.UTF8, nil
	}
	doc, enc, err := fileio.Load(path, docOpts...)
	if errors.Is(err, os.ErrNotExist) {
		return engine.New(docOpts...), fileio.UTF8, nil
	}
	if err != nil {
		return nil, fileio.UTF8, err
	}
	return doc, enc, nil
}

// runScript applies a Lua edit script to the document and writes the
// result back. Without a file the edited text goes to stdout.
func runScript(doc *engine.Document, scriptPath, path string, enc fileio.Encoding) int {
	if _, err := script.RunFile(doc, scriptPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if path == "" {
		fmt.Print(doc.Text())
		return 0
	}
	if err := fileio.Save(path, doc, enc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save %s: %v\n", path, err)
		return 1
	}
	return 0
}

// watchConfig reposts configuration and theme changes as screen events
// so they are applied on the event loop goroutine.
func watchConfig(screen tcell.Screen, path string) (*config.Watcher, error) {
	return config.Watch(path, func(s config.Settings, err error) {
		ev := &tui.ConfigEvent{Settings: s, Err: err}
		ev.SetEventNow()
		_ = screen.PostEvent(ev)
		if err != nil || s.Theme == "" {
			return
		}
		th, terr := theme.Load(s.Theme)
		if terr != nil {
			bad := &tui.ConfigEvent{Err: fmt.Errorf("failed to load theme: %w", terr)}
			bad.SetEventNow()
			_ = screen.PostEvent(bad)
			return
		}
		tev := &tui.ThemeEvent{Theme: th}
		tev.SetEventNow()
		_ = screen.PostEvent(tev)
	})
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.themePath, "theme", "", "Path to theme file")
	flag.StringVar(&opts.themePath, "t", "", "Path to theme file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Apply a Lua edit script and exit")
	flag.StringVar(&opts.scriptPath, "s", "", "Apply a Lua edit script and exit (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkstone - incremental text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkstone [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkstone                         Open an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  inkstone notes.txt               Open a file\n")
		fmt.Fprintf(os.Stderr, "  inkstone -c ink.toml notes.txt   Open with a configuration\n")
		fmt.Fprintf(os.Stderr, "  inkstone -s fixup.lua notes.txt  Apply a batch edit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkstone %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}
	opts.file = flag.Arg(0)

	return opts
}

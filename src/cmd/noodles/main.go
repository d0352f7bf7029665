package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/term"

	noodles "github.com/Eddio0141/DreamBerd-3-noodles-interpreter-sub000"
)

var version = "dev" // set via -ldflags at build time

var errorColor = color.New(color.FgHiYellow)

// getConfigDir returns the path to ~/.noodles directory
func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".noodles")
}

// loadConfig loads configuration from path, or from ~/.noodles/config.yaml
// when path is empty. The default file is created when it doesn't exist.
func loadConfig(path string) (*noodles.Config, error) {
	if path != "" {
		return noodles.LoadConfigFile(path)
	}
	dir := getConfigDir()
	if dir == "" {
		return noodles.DefaultConfig(), nil
	}
	path = filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := noodles.DefaultConfig()
		// Graceful failure - the defaults still apply
		_ = noodles.WriteConfigFile(path, cfg)
		return cfg, nil
	}
	return noodles.LoadConfigFile(path)
}

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	errorColor.Fprintf(os.Stderr, format, args...)
}

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	logFlag := flag.String("log", "", "Comma-separated log categories for debug output")
	configFlag := flag.String("config", "", "Configuration file (YAML or TOML)")
	watchFlag := flag.Bool("watch", false, "Re-run the script whenever it changes")
	noColorFlag := flag.Bool("no-color", false, "Disable coloured output")
	versionFlag := flag.Bool("version", false, "Show version and exit")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Fprintf(os.Stdout, "noodles version %s\n", version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		errorPrintf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *logFlag != "" {
		cfg.LogCategories = strings.Split(*logFlag, ",")
	}
	if *noColorFlag {
		cfg.Color = false
		color.NoColor = true
	}

	args := flag.Args()
	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))

	switch {
	case len(args) > 0:
		scriptFile := findScriptFile(args[0])
		if scriptFile == "" {
			errorPrintf("Error: Script file not found: %s\n", args[0])
			os.Exit(1)
		}
		if *watchFlag {
			if err := watchScript(cfg, scriptFile); err != nil {
				errorPrintf("Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
		if !runFile(cfg, scriptFile) {
			os.Exit(1)
		}

	case !stdinIsTerminal:
		// No filename, but stdin is redirected - read from stdin
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorPrintf("Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
		n := noodles.New(cfg)
		if _, err := n.Evaluate(string(content)); err != nil {
			n.ReportError(err, string(content))
			os.Exit(1)
		}

	default:
		showBanner()
		repl := noodles.NewREPL(noodles.New(cfg))
		if err := repl.Run(); err != nil {
			errorPrintf("Error: %v\n", err)
		}
	}
}

// runFile executes scriptFile in a fresh interpreter and reports whether it
// completed without error
func runFile(cfg *noodles.Config, scriptFile string) bool {
	content, err := os.ReadFile(scriptFile)
	if err != nil {
		errorPrintf("Error reading script file: %v\n", err)
		return false
	}
	n := noodles.New(cfg)
	if _, err := n.EvaluateFile(string(content), scriptFile); err != nil {
		n.ReportError(err, string(content))
		return false
	}
	return true
}

// watchScript runs scriptFile and again every time it is written
func watchScript(cfg *noodles.Config, scriptFile string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory
	abs, err := filepath.Abs(scriptFile)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", scriptFile, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", scriptFile, err)
	}

	runFile(cfg, scriptFile)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			fmt.Fprintf(os.Stderr, "--- %s changed, re-running\n", filepath.Base(abs))
			runFile(cfg, scriptFile)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", scriptFile, err)
		}
	}
}

func findScriptFile(filename string) string {
	// First try the exact filename
	if _, err := os.Stat(filename); err == nil {
		return filename
	}

	// If no extension, try adding .db
	if filepath.Ext(filename) == "" {
		dbFile := filename + ".db"
		if _, err := os.Stat(dbFile); err == nil {
			return dbFile
		}
	}

	return ""
}

func showBanner() {
	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	banner := fmt.Sprintf("noodles %s - type exit or quit to leave", version)
	if width > 0 && len(banner) > width {
		banner = banner[:width]
	}
	fmt.Fprintln(os.Stderr, banner)
}

func showUsage() {
	usage := `Usage: noodles [options] [script.db]
       noodles [options] < input.db
       echo "print 1!" | noodles [options]

Execute a script from a file or stdin, or start an interactive session.

Options:
  -d, -debug          Enable debug output
  -log CATS           Debug categories, comma separated (parse, statement,
                      expression, scope, watch, function, value, stdlib,
                      repl, config, or all)
  -config FILE        Load configuration from FILE (.yaml or .toml)
                      (default: ~/.noodles/config.yaml)
  -watch              Re-run the script whenever the file changes
  -no-color           Disable coloured output
  -version            Show version and exit

Arguments:
  script.db           Script file to execute (adds .db extension if needed)
`
	fmt.Fprint(os.Stderr, usage)
}

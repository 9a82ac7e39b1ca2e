package main

import (
	"embed"
	"errors"
	"flag"
	"io/fs"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/ShaKy8/CountdownToRetirement/cmd"
	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/i18n"
)

//go:embed all:web
var webAssets embed.FS

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := configFlag(serveFlags)
		listen := serveFlags.String("listen", "", "Listen address (overrides server.listen)")
		serveFlags.StringVar(listen, "l", "", "Listen address (short)")
		staticDir := serveFlags.String("static", "", "Serve the front end from this directory")
		trustProxy := serveFlags.Bool("trust-proxy", false, "Honour X-Forwarded-For for rate limiting")
		serveFlags.Parse(os.Args[2:])

		assets, err := fs.Sub(webAssets, "web")
		if err != nil {
			fail("Serve failed: %v\n", err)
		}
		if err := cmd.RunServe(*configFile, assets, cmd.ServeOptions{
			Listen:     *listen,
			StaticDir:  *staticDir,
			TrustProxy: *trustProxy,
		}); err != nil {
			fail("Serve failed: %v\n", err)
		}

	case "status":
		statusFlags := flag.NewFlagSet("status", flag.ExitOnError)
		configFile := configFlag(statusFlags)
		asJSON := statusFlags.Bool("json", false, "Print the countdown as JSON")
		statusFlags.Parse(os.Args[2:])

		if err := cmd.RunStatus(*configFile, *asJSON); err != nil {
			fail("Status failed: %v\n", err)
		}

	case "set":
		setFlags := flag.NewFlagSet("set", flag.ExitOnError)
		configFile := configFlag(setFlags)
		interactive := setFlags.Bool("interactive", false, "Prompt for the date")
		setFlags.BoolVar(interactive, "i", false, "Prompt for the date (short)")
		setFlags.Parse(os.Args[2:])

		err := cmd.RunSet(*configFile, setFlags.Arg(0), *interactive)
		switch {
		case errors.Is(err, huh.ErrUserAborted):
			os.Exit(130)
		case errors.Is(err, cmd.ErrNoTarget):
			printer.Fprintf(os.Stderr, "Usage: %s set [-i] <YYYY-MM-DDTHH:mm>\n", brand.BinaryName)
			os.Exit(1)
		case err != nil:
			fail("Set failed: %v\n", err)
		}

	case "clear":
		clearFlags := flag.NewFlagSet("clear", flag.ExitOnError)
		configFile := configFlag(clearFlags)
		clearFlags.Parse(os.Args[2:])

		if err := cmd.RunClear(*configFile); err != nil {
			fail("Clear failed: %v\n", err)
		}

	case "tui", "watch":
		tuiFlags := flag.NewFlagSet("tui", flag.ExitOnError)
		configFile := configFlag(tuiFlags)
		tuiFlags.Parse(os.Args[2:])

		if err := cmd.RunTUI(*configFile); err != nil {
			fail("Terminal view failed: %v\n", err)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Show the resolved settings")
		checkFlags.BoolVar(verbose, "v", false, "Show the resolved settings (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := checkFlags.Arg(0)
		if configFile == "" {
			configFile = brand.DefaultConfigPath()
		}
		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			fail("Check failed: %v\n", err)
		}

	case "init":
		initFlags := flag.NewFlagSet("init", flag.ExitOnError)
		force := initFlags.Bool("force", false, "Overwrite an existing file")
		initFlags.Parse(os.Args[2:])

		if err := cmd.RunInit(initFlags.Arg(0), *force); err != nil {
			fail("Init failed: %v\n", err)
		}

	case "version", "-v", "--version":
		printer.Printf("%s %s (%s)\n", brand.Name, brand.Version, brand.GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func configFlag(flags *flag.FlagSet) *string {
	configFile := flags.String("config", brand.DefaultConfigPath(), "Configuration file")
	flags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")
	return configFile
}

func fail(format string, err error) {
	printer.Fprintf(os.Stderr, format, err)
	os.Exit(1)
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  serve     Run the countdown and the web front end
            Options: --config (-c) <file>, --listen (-l) <addr>, --static <dir>, --trust-proxy
  status    Print the countdown once
            Options: --json
  set       Change the target date
            Options: --interactive (-i)
  clear     Forget the chosen target and use the configured default
  tui       Live terminal view (alias: watch)
  check     Validate a configuration file
            Options: --verbose (-v)
  init      Write a starter configuration
            Options: --force
  version   Print the version

Examples:
  %s init
  %s serve -l :8080
  %s set 2030-06-30T17:00
  %s status --json
  %s check -v %s
`,
		brand.Name, brand.Description,
		brand.BinaryName,
		brand.BinaryName, brand.BinaryName, brand.BinaryName, brand.BinaryName,
		brand.BinaryName, brand.DefaultConfigPath())
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/linuxmatters/portgen/internal/cli"
	"github.com/linuxmatters/portgen/internal/config"
	"github.com/linuxmatters/portgen/internal/logging"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Verbose  bool   `short:"v" help:"Log progress to stderr"`
	DebugLog string `type:"path" default:"${debug_log}" help:"Append debug output to this file"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Write the descriptor, metadata and port enum"`
	Defaults DefaultsCmd `cmd:"" help:"Print the control defaults of a descriptor"`
	Preset   PresetCmd   `cmd:"" help:"Build a preset bank from definitions"`
	List     ListCmd     `cmd:"" help:"List every port with its index and bounds"`
	Inspect  InspectCmd  `cmd:"" help:"Browse the ports interactively"`
	Diff     DiffCmd     `cmd:"" help:"Compare a previous port layout with the current one"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// runContext is passed to every command's Run method
type runContext struct {
	cfg    *config.Config
	log    *logging.Logger
	stdout io.Writer
}

func main() {
	// A missing .env is normal; the environment and flags still apply
	_ = godotenv.Load()
	cfg := config.Load()

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("portgen"),
		kong.Description("Plugin port metadata generator"),
		kong.UsageOnError(),
		kong.Vars(cfg.Vars()),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "portgen@" + version,
		}); err != nil {
			cli.PrintError(fmt.Sprintf("sentry: %v", err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	logger, closeLog, err := newLogger(cliArgs.Verbose, cliArgs.DebugLog)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	defer closeLog()

	rc := &runContext{cfg: cfg, log: logger, stdout: os.Stdout}
	if err := ctx.Run(rc); err != nil {
		logger.Error("command failed", err, logging.Fields{"command": ctx.Command()})
		cli.PrintError(err.Error())
		closeLog()
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

// newLogger writes to the debug log when one is named, otherwise to stderr in
// verbose mode, otherwise nowhere
func newLogger(verbose bool, path string) (*logging.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open debug log: %w", err)
		}
		return logging.New(f, true), func() { f.Close() }, nil
	}
	if verbose {
		return logging.New(os.Stderr, false), func() {}, nil
	}
	return logging.Discard(), func() {}, nil
}

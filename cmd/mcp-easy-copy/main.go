package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/f-is-h/mcp-easy-copy/internal/config"
	"github.com/f-is-h/mcp-easy-copy/internal/desktop"
	"github.com/f-is-h/mcp-easy-copy/internal/logging"
	"github.com/f-is-h/mcp-easy-copy/internal/platform"
	"github.com/f-is-h/mcp-easy-copy/internal/server"
	"github.com/f-is-h/mcp-easy-copy/internal/watch"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches subcommands. Anything that is not a subcommand is parsed as
// serve flags. stdout is reserved for the MCP transport while serving.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Fprintf(stdout, "%s v%s\n", server.Name, server.Version)
			return exitOK
		case "help", "--help", "-h":
			printHelp(stdout)
			return exitOK
		case "paths":
			return handlePaths(args[1:], stdout, stderr)
		case "init-config":
			return handleInitConfig(stdout, stderr)
		}
	}
	return handleServe(ctx, args, stdin, stdout, stderr)
}

type serveOptions struct {
	debug    bool
	logLevel string
	logDir   string
	noWatch  bool
}

func parseServeFlags(args []string, stderr io.Writer) (serveOptions, error) {
	var opts serveOptions
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.debug, "debug", false, "Debug logging, also written to a rotated log file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&opts.logDir, "log-dir", "", "Directory for the rotated log file (overrides config)")
	fs.BoolVar(&opts.noWatch, "no-watch", false, "Do not watch the desktop config for changes")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options]\n\nOptions:\n", server.Name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return opts, nil
}

// loadUserConfig loads config.toml, reporting a parse error without failing.
func loadUserConfig() (*config.UserConfig, error) {
	cfg, err := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, err
}

// resolvePaths builds the immutable candidate list for this process.
func resolvePaths(cfg *config.UserConfig) (desktop.Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		err = fmt.Errorf("resolve home directory: %w", err)
	}
	return desktop.Resolve(home, cfg.Desktop.ConfigPaths), err
}

func initLogging(cfg *config.UserConfig, opts serveOptions, stderr io.Writer) {
	level := cfg.Logs.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logDir := cfg.Logs.Dir
	if opts.logDir != "" {
		logDir = config.ExpandTilde(opts.logDir)
	}
	defaultDir, _ := config.Dir()

	logging.Init(logging.Config{
		LogDir:     logDir,
		DefaultDir: defaultDir,
		Level:      level,
		Format:     cfg.Logs.Format,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
		Debug:      opts.debug,
		Stderr:     stderr,
	})
}

func handleServe(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseServeFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, cfgErr := loadUserConfig()
	initLogging(cfg, opts, stderr)
	defer logging.Shutdown()

	log := logging.ForComponent(logging.CompMain)
	if cfgErr != nil {
		log.Warn("user_config_ignored", slog.String("error", cfgErr.Error()))
	}

	paths, err := resolvePaths(cfg)
	if err != nil {
		log.Warn("default_candidates_skipped", slog.String("error", err.Error()))
	}
	log.Info("starting",
		slog.String("version", server.Version),
		slog.String("platform", platform.Detect().String()),
		slog.Any("candidates", paths.Files()),
	)

	srv := server.New(paths)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return srv.ServeStdio(gctx, stdin, stdout)
	})

	if !opts.noWatch && cfg.WatchEnabled() {
		w, err := watch.New(paths.Files(), srv.NotifyServicesChanged,
			watch.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
		)
		if err != nil {
			log.Warn("watcher_disabled", slog.String("error", err.Error()))
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	if err := g.Wait(); err != nil {
		log.Error("server_failed", slog.String("error", err.Error()))
		return exitError
	}
	log.Info("stopped")
	return exitOK
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "%s v%s\n", server.Name, server.Version)
	fmt.Fprintln(w, "MCP server listing the MCP services configured in Claude Desktop")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Usage: %s [options] | <command>\n", server.Name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  (none)           Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  paths            Show config candidates and the services found")
	fmt.Fprintln(w, "  init-config      Write an example config.toml if none exists")
	fmt.Fprintln(w, "  version          Show version")
	fmt.Fprintln(w, "  help             Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve Options:")
	fmt.Fprintln(w, "  -debug           Debug logging, also written to a rotated log file")
	fmt.Fprintln(w, "  -log-level <l>   debug, info, warn or error")
	fmt.Fprintln(w, "  -log-dir <dir>   Directory for the rotated log file")
	fmt.Fprintln(w, "  -no-watch        Do not watch the desktop config for changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintf(w, "  %-30s Directory holding config.toml (default ~/%s)\n", config.HomeEnv, config.DirName)
	fmt.Fprintf(w, "  %-30s Desktop config file searched first\n", desktop.OverrideEnv)
}

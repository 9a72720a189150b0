package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafefcli/internal/app"
	"cafefcli/internal/config"
	"cafefcli/internal/exporter"
	"cafefcli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliOptions struct {
	configPath string
	outDir     string
	workDir    string
	keepWork   bool
	keepSet    bool
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (defaults to ./config.yaml or ./configs/config.yaml)")
	fs.StringVar(&opts.outDir, "out", "", "output directory for cafef.zip and latest.json")
	fs.StringVar(&opts.workDir, "work", "", "scratch directory, reset on every run")
	fs.BoolVar(&opts.keepWork, "keep-work", false, "keep extracted archives in the work directory")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "keep-work" {
			opts.keepSet = true
		}
	})
	return opts, nil
}

// applyFlags overlays command line values onto cfg. Flags take precedence
// over the config file and the environment.
func applyFlags(cfg *config.Config, opts cliOptions) error {
	if opts.outDir != "" {
		cfg.Paths.OutDir = opts.outDir
	}
	if opts.workDir != "" {
		cfg.Paths.WorkDir = opts.workDir
	}
	if opts.keepSet {
		cfg.Paths.KeepWork = opts.keepWork
	}
	return cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, app.WithLogger(logger))
	if err != nil {
		logger.Error("Application initialization failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Close(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	res, err := application.Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	printSummary(stdout, res)
	return 0
}

func printSummary(w io.Writer, res *app.Result) {
	fmt.Fprintf(w, "OK: %s, %s\n", res.ArchiveFile, res.ReportFile)
	fmt.Fprintf(w, "expected_last_trade_date: %s\n", res.ExpectedDate)
	report, err := exporter.CompactPatchReport(res.PatchReport)
	if err != nil {
		report = fmt.Sprintf("<unavailable: %v>", err)
	}
	fmt.Fprintf(w, "patch_report: %s\n", report)
}

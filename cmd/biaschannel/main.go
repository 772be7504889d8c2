// Package main provides the bias-channel CLI: it runs the operator on
// synthetic inputs with the selected backend, checks the result against the
// reference kernel, and optionally serves Prometheus metrics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bityangke/deeplab-public/internal/config"
	"github.com/bityangke/deeplab-public/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("biaschannel %s\n", version)
		return
	}

	if err := realMain(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func realMain(args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	opts := defaultRunOptions()

	fs := flag.NewFlagSet("biaschannel", flag.ContinueOnError)
	fs.IntVar(&opts.N, "n", opts.N, "Batch size")
	fs.IntVar(&opts.C, "c", opts.C, "Channels")
	fs.IntVar(&opts.H, "h", opts.H, "Height")
	fs.IntVar(&opts.W, "w", opts.W, "Width")
	fs.IntVar(&opts.Slots, "slots", opts.Slots, "Label slots per image (image mode)")
	fs.StringVar(&opts.Mode, "mode", opts.Mode, "Label type: IMAGE or PIXEL")
	fs.Float64Var(&opts.BgBias, "bg", opts.BgBias, "Background bias")
	fs.Float64Var(&opts.FgBias, "fg", opts.FgBias, "Foreground bias")
	ignore := fs.String("ignore", "", "Comma-separated ignore labels (-1 is always ignored)")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	fs.BoolVar(&opts.Float64, "f64", false, "Use float64 activations")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Kernel: reference, cpu or webgpu")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "CPU worker goroutines")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Address to serve Prometheus metrics (empty disables)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if opts.Ignore, err = parseIgnore(*ignore); err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.MetricsEnabled() {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Log.Info("metrics serving", "addr", cfg.MetricsAddr, "path", "/metrics")
			//nolint:gosec // local diagnostics endpoint
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Log.Error("metrics server error", "err", err)
			}
		}()
	}

	kernel, release, err := selectKernel(cfg)
	if err != nil {
		return err
	}
	defer release()

	s, err := run(opts, kernel)
	if err != nil {
		return err
	}
	fmt.Println(s)
	if s.MaxDiff != 0 || !s.BackwardOK {
		return fmt.Errorf("%s kernel disagrees with reference (max diff %g, backward identity %t)",
			s.Kernel, s.MaxDiff, s.BackwardOK)
	}

	// Keep the metrics endpoint up until interrupted.
	if cfg.MetricsEnabled() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		logger.Log.Info("run complete, serving metrics until interrupted")
		<-sigChan
	}
	return nil
}

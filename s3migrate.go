package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgaunet/s3migrate/pkg/config"
	"github.com/sgaunet/s3migrate/pkg/orchestrate"
	"github.com/sgaunet/s3migrate/pkg/policy"
	"github.com/sgaunet/s3migrate/pkg/s3svc"
	"github.com/sgaunet/s3migrate/pkg/scheduler"
	"github.com/sgaunet/s3migrate/pkg/state"
	"github.com/sgaunet/s3migrate/pkg/tui"
)

func main() {
	var fileName string
	var daemon bool
	flag.StringVar(&fileName, "f", "", "Configuration file")
	flag.BoolVar(&daemon, "daemon", false, "Run scheduled policies headlessly instead of the console")
	flag.Parse()

	if fileName == "" {
		fmt.Fprintf(os.Stderr, "Configuration file not provided. Exit 1")
		fmt.Fprintf(os.Stderr, "\nUsage:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.ReadYamlCnxFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration file: %s\n", err.Error())
		os.Exit(1)
	}
	l := initTrace(cfg.LogLevel)

	ctx, cancelFunc := context.WithCancel(context.Background())
	SetupCloseHandler(ctx, cancelFunc, l)

	s3Client, err := s3svc.NewClient(ctx, cfg)
	if err != nil {
		l.Error("error creating the S3 client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	backend := s3svc.NewService(cfg, s3Client)
	backend.SetLogger(l)

	// an unreadable policy store is fatal: starting with a partial
	// policy set would silently hide saved configuration
	policyPath, err := cfg.PolicyFilePath()
	if err != nil {
		l.Error("error resolving the policy file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	store := policy.NewStore(policyPath)
	if err := store.Load(); err != nil {
		l.Error("error loading the policy store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	st := state.NewMachine(store.Policies())
	orch := orchestrate.New(backend, store, st)
	orch.SetLogger(l)
	orch.SetRestoreDays(int32(cfg.RestoreDays))

	if daemon {
		runScheduler(ctx, store, orch, l)
		return
	}

	model := tui.New(ctx, st, orch)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		l.Error("console error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cancelFunc()
}

func runScheduler(ctx context.Context, store *policy.Store, orch *orchestrate.Orchestrator, l *slog.Logger) {
	sched := scheduler.New(store, orch)
	sched.SetLogger(l)
	if err := sched.Start(ctx); err != nil {
		l.Error("error starting the scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	<-ctx.Done()
	l.Info("stop the scheduler")
	sched.Stop()
}

// SetupCloseHandler handles SIGTERM/SIGINT.
func SetupCloseHandler(ctx context.Context, cancelFunc context.CancelFunc, log *slog.Logger) {
	c := make(chan os.Signal, 5)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-c
		log.Info("INFO: signal received", slog.String("signal", s.String()))
		cancelFunc()
	}()
}

// initTrace initializes the logger
func initTrace(debugLevel string) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, handlerOptions)
	logger := slog.New(handler)
	return logger
}

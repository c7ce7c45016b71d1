package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/config"
	"github.com/sadopc/focusmine/internal/learning"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/notify"
	"github.com/sadopc/focusmine/internal/planner"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/session"
	"github.com/sadopc/focusmine/internal/store"
	"github.com/sadopc/focusmine/internal/timer"
	"github.com/sadopc/focusmine/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaultConfig, _ := config.DefaultPath()
	configPath := flag.StringP("config", "c", defaultConfig, "path to the YAML config file")
	dbPath := flag.String("db", "", "SQLite database file (overrides config)")
	logFile := flag.String("log-file", "", "log file (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	headless := flag.Bool("headless", false, "run the timer in the terminal without the TUI")
	kind := flag.String("kind", string(model.Focus), "session kind for --headless: pomodoro, shortBreak or longBreak")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	projects := project.New(s, project.WithLogger(log))
	if _, err := projects.EnsureInbox(); err != nil {
		return fmt.Errorf("preparing inbox: %w", err)
	}

	if *headless {
		return runHeadless(s, projects, cfg, log, model.SessionKind(*kind))
	}
	return runTUI(s, projects, cfg, log)
}

func openLog(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log, closeFn, nil
}

func runTUI(s *store.Store, projects *project.Store, cfg config.Config, log *slog.Logger) error {
	notifier := tui.NewNotifier(notify.NewTerminal(os.Stderr))
	engine, err := session.NewEngine(s, log, cfg.Timer, timer.WithNotifier(notifier))
	if err != nil {
		return err
	}

	exportDir, err := os.UserHomeDir()
	if err != nil {
		exportDir = "."
	}

	deps := &tui.Deps{
		KV:        s,
		Projects:  projects,
		Engine:    engine,
		Recorder:  session.NewRecorder(s, projects, engine, log),
		Notifier:  notifier,
		Plans:     planner.New(planner.GlobalBackend(s, log)),
		Goals:     learning.NewTracker(learning.GlobalBackend(s, log)),
		Log:       log,
		ExportDir: exportDir,
	}

	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return deps.Recorder.SaveState()
}

// runHeadless counts down on stdout and records each completed session.
// It returns when the timer stops or the process is interrupted.
func runHeadless(s *store.Store, projects *project.Store, cfg config.Config, log *slog.Logger, kind model.SessionKind) error {
	engine, err := session.NewEngine(s, log, cfg.Timer, timer.WithNotifier(notify.NewTerminal(os.Stdout)))
	if err != nil {
		return err
	}
	if err := engine.SetKind(kind); err != nil {
		return err
	}
	rec := session.NewRecorder(s, projects, engine, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recordErr error
	runner := timer.NewRunner(engine, clock.Real(), func(c timer.Completion) {
		ps, err := rec.Record(c)
		if err != nil {
			recordErr = err
			return
		}
		fmt.Printf("\n%s session complete (%d min), saved to %s\n", ps.Kind, ps.DurationMinutes, ps.ProjectID)
	})

	st := engine.Snapshot()
	fmt.Printf("%s: %s - press ctrl+c to stop\n", st.Kind, timer.FormatRemaining(st.SecondsRemaining))
	runner.Start(ctx)
	runner.Wait()

	if ctx.Err() != nil {
		fmt.Printf("\nstopped with %s left\n", timer.FormatRemaining(engine.Snapshot().SecondsRemaining))
	}
	if recordErr != nil {
		return recordErr
	}
	return rec.SaveState()
}

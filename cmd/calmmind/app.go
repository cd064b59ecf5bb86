package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/calmmind/internal/config"
	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/mcp"
	"github.com/rpggio/calmmind/internal/sqlite"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sqlite.DB
	tasks     *task.Service
	logs      *stresslog.Service
	students  *student.Service
	apiKeys   *sqlite.APIKeyRepository
	dashboard *dashboard.Service
	closers   []func() error
}

// openApp loads config, sets up logging and opens the database. Logs go to
// stderr when stdout carries protocol traffic or command output.
func openApp(logToStderr bool) (*app, error) {
	if configPath != "" {
		if err := os.Setenv("CALMMIND_CONFIG_PATH", configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg}

	logWriter := io.Writer(os.Stdout)
	if logToStderr {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, fileWriter.Close)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if err := db.RunMigrations(); err != nil {
		a.Close()
		return nil, err
	}

	a.tasks = task.NewService(sqlite.NewTaskRepository(db), a.logger)
	a.logs = stresslog.NewService(sqlite.NewStressLogRepository(db), a.logger)
	a.students = student.NewService(sqlite.NewStudentRepository(db), a.logger)
	a.apiKeys = sqlite.NewAPIKeyRepository(db)
	a.dashboard = dashboard.NewService(a.tasks, a.logs, a.students, a.logger)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func (a *app) services() mcp.Services {
	return mcp.Services{
		Tasks:      a.tasks,
		StressLogs: a.logs,
		Students:   a.students,
		Dashboard:  a.dashboard,
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

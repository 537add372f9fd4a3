package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/ziadkadry99/livepad/internal/config"
	"github.com/ziadkadry99/livepad/internal/db"
	"github.com/ziadkadry99/livepad/internal/importer"
	"github.com/ziadkadry99/livepad/internal/logging"
	"github.com/ziadkadry99/livepad/internal/notice"
	"github.com/ziadkadry99/livepad/internal/session"
	"github.com/ziadkadry99/livepad/internal/store"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `livepad init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app bundles what every command that touches saved code needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *db.DB
	session *session.Session
}

// openApp loads the config, opens the database and loads a session.
// The CLI default is to render synchronously and print notices to stderr;
// configure may override any session option before the session is built.
func openApp(ctx context.Context, configure func(a *app, opts *session.Options)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(string(cfg.LogLevel), verbose)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{cfg: cfg, log: logger, db: database}
	opts := session.Options{
		NoticeTTL:         cfg.NoticeTTL(),
		DetachedNoticeTTL: cfg.DetachedNoticeTTL(),
		Notifier:          &printNotifier{out: os.Stderr},
		Logger:            logger,
	}
	if configure != nil {
		configure(a, &opts)
	}

	a.session = session.New(store.NewStore(database), opts)
	if err := a.session.Load(ctx); err != nil {
		database.Close()
		logger.Sync()
		return nil, err
	}
	return a, nil
}

// Close flushes the session and releases the database.
func (a *app) Close() {
	a.session.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn("closing database", zap.Error(err))
	}
	a.log.Sync()
}

// importPatterns returns the configured patterns with overrides applied.
// Override keys are fragment names (html, css, js).
func importPatterns(cfg *config.Config, overrides map[string]string) (importer.Patterns, error) {
	p := importer.Patterns{
		Markup: cfg.Import.Markup,
		Style:  cfg.Import.Style,
		Script: cfg.Import.Script,
	}
	for name, pattern := range overrides {
		switch name {
		case "html", "markup":
			p.Markup = pattern
		case "css", "style":
			p.Style = pattern
		case "js", "script", "javascript":
			p.Script = pattern
		default:
			return p, fmt.Errorf("unknown fragment %q in --pattern", name)
		}
	}
	return p, p.Validate()
}

// confirm asks a yes/no question. A "no" answer is not an error.
func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// printNotifier writes notices to the terminal and remembers whether the
// last one was an error.
type printNotifier struct {
	mu        sync.Mutex
	out       io.Writer
	lastError bool
}

func (p *printNotifier) Notify(n notice.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastError = n.Error
	fmt.Fprintln(p.out, n.Message)
}

func (p *printNotifier) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

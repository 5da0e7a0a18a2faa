package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harkaudio/hark/internal/app"
	"github.com/harkaudio/hark/internal/backend"
	"github.com/harkaudio/hark/internal/backend/bridge"
	"github.com/harkaudio/hark/internal/backend/local"
	"github.com/harkaudio/hark/internal/config"
	"github.com/harkaudio/hark/internal/engine"
	"github.com/harkaudio/hark/internal/errmsg"
	"github.com/harkaudio/hark/internal/library"
	applog "github.com/harkaudio/hark/internal/log"
	"github.com/harkaudio/hark/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
}

func run() error {
	var backendFlag string
	var rescan bool
	flag.StringVar(&backendFlag, "backend", "", "playback backend: local or bridge (overrides config)")
	flag.BoolVar(&rescan, "rescan", false, "rescan the library before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}

	if err := applog.Setup(cfg.Logs.Write, cfg.Logs.Level); err != nil {
		return err
	}
	log := applog.WithComponent("main")

	st, err := store.Open()
	if err != nil {
		return err
	}
	defer st.Close()

	seedPlayerSettings(st, cfg)

	scanner := library.NewScanner(cfg.LibraryRoot, st)
	books, err := st.Books()
	if err != nil {
		return err
	}
	if rescan || len(books) == 0 {
		n, err := scanner.Scan()
		if err != nil {
			log.WithError(err).Warn("library scan failed")
		} else {
			log.WithField("books", n).Info("library scan finished")
		}
	}

	be, err := selectBackend(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(be, st, engine.Options{
		PersistEvery: time.Duration(cfg.Playback.PersistSeconds) * time.Second,
	})
	defer eng.Close()

	m, err := app.New(eng, st, scanner)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// seedPlayerSettings applies the config-file playback defaults on first
// run; once the user has saved settings the store wins.
func seedPlayerSettings(st store.Interface, cfg *config.Config) {
	saved, err := st.HasPlayerSettings()
	if err != nil || saved {
		return
	}
	_ = st.SavePlayerSettings(store.PlayerSettings{
		Speed:       cfg.Playback.Speed,
		SkipEnabled: cfg.Playback.SkipEnabled,
		SkipIntro:   time.Duration(cfg.Playback.SkipIntroSeconds) * time.Second,
		SkipOutro:   time.Duration(cfg.Playback.SkipOutroSeconds) * time.Second,
	})
}

func selectBackend(cfg *config.Config) (backend.Interface, error) {
	switch cfg.Backend {
	case config.BackendBridge:
		conn, err := bridge.Dial(cfg.Bridge.Destination, cfg.Bridge.ObjectPath, cfg.Bridge.Interface)
		if err != nil {
			return nil, fmt.Errorf("connect media session: %w", err)
		}
		return bridge.New(conn), nil
	default:
		return local.New(), nil
	}
}

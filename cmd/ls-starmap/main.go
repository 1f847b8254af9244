// Command ls-starmap is an interactive terminal map of the stars nearest
// the Sun.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/config"
	"github.com/litescript/ls-starmap/internal/export"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/logging"
	"github.com/litescript/ls-starmap/internal/metrics"
	"github.com/litescript/ls-starmap/internal/projection"
	"github.com/litescript/ls-starmap/internal/render"
	"github.com/litescript/ls-starmap/internal/server"
	"github.com/litescript/ls-starmap/internal/starmap"
	"github.com/litescript/ls-starmap/internal/ui"
	"github.com/litescript/ls-starmap/internal/version"
)

// CLI flags for headless and serving modes
var (
	configPath   string
	serveMode    bool
	summaryMode  bool
	snapshotPath string
	renderMode   bool
	focusName    string
	width        int
	height       int
	showVersion  bool
)

const (
	defaultCols = 100
	defaultRows = 36

	// maxSettleFrames bounds the fly-to run before a headless render.
	maxSettleFrames = 2000
)

func main() {
	// Parse flags; config-backed flags only apply when set explicitly
	cfg := config.Default()
	dataPath := flag.String("data", "", "Star catalog JSON file (default: embedded catalog)")
	seed := flag.Int64("seed", cfg.Seed, "Layout seed")
	style := flag.String("style", cfg.Style, "Visual style ("+strings.Join(render.StyleNames(), ", ")+")")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file")
	sshAddr := flag.String("ssh-addr", cfg.Server.SSHAddr, "SSH listen address (with --serve)")
	hostKey := flag.String("host-key", cfg.Server.HostKeyPath, "SSH host key path, created if missing")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address (with --serve)")
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.BoolVar(&serveMode, "serve", false, "Serve the star map over SSH")
	flag.BoolVar(&summaryMode, "summary", false, "Print star summary table instead of TUI")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON layout snapshot to file (use - for stdout)")
	flag.BoolVar(&renderMode, "render", false, "Print a single frame of the map and exit")
	flag.StringVar(&focusName, "focus", "", "Fly to the named star before rendering")
	flag.IntVar(&width, "width", 0, "Headless width in columns (default: terminal width)")
	flag.IntVar(&height, "height", 0, "Headless height in rows (default: terminal height)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-starmap v%s\n", version.Version)
		return
	}

	// Layer config: defaults, file, .env and environment, then flags
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	env, err := config.Environ(".env")
	if err != nil {
		fatal(err)
	}
	if err := cfg.ApplyEnv(env); err != nil {
		fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataPath = *dataPath
		case "seed":
			cfg.Seed = *seed
		case "style":
			cfg.Style = strings.ToLower(*style)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevel)
		case "log-file":
			cfg.LogFile = *logFile
		case "ssh-addr":
			cfg.Server.SSHAddr = *sshAddr
		case "host-key":
			cfg.Server.HostKeyPath = *hostKey
		case "metrics-addr":
			cfg.Server.MetricsAddr = *metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	headless := summaryMode || snapshotPath != "" || renderMode

	// Set up logging; the TUI owns the terminal, so it only logs to a file
	logger, closeLog, err := openLogger(cfg, !serveMode && !headless)
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	cat, err := loadCatalog(cfg.DataPath)
	if err != nil {
		fatal(err)
	}
	logger.Debug("loaded %d stars", cat.Len())

	sty, _ := render.StyleByName(cfg.Style)
	opts := starmap.Options{Seed: cfg.Seed, Mode: sty.Mode, Camera: cfg.Camera}

	// Create context with cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case serveMode:
		err = runServe(ctx, cfg, cat, opts, sty, logger)
	case headless:
		err = runHeadless(cat, opts, sty)
	default:
		err = runTUI(ctx, cat, opts, sty, logger)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func openLogger(cfg config.Config, interactive bool) (*logging.Logger, func() error, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		return logging.Open(cfg.LogFile, level)
	}
	noop := func() error { return nil }
	if interactive {
		return logging.Discard(), noop, nil
	}
	return logging.New(level), noop, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func runTUI(ctx context.Context, cat *catalog.Catalog, opts starmap.Options, sty render.Style, logger *logging.Logger) error {
	ctrl := starmap.New(cat, opts)
	model := ui.New(ctrl, sty, logger.Named("ui"))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(cat *catalog.Catalog, opts starmap.Options, sty render.Style) error {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	cols, rows := headlessSize(isTTY)
	opts.Viewport = projection.Viewport{
		Width:  float64(cols * render.CellWidth),
		Height: float64(rows * render.CellHeight),
	}
	engine := layout.NewEngine(cat, opts.Seed, projection.NewScaler(opts.Viewport, opts.Mode))
	now := time.Now()

	// Export JSON if requested
	if snapshotPath != "" {
		snap := export.NewSnapshot(cat, engine, now)
		if snapshotPath == "-" {
			if err := snap.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := snap.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		export.WriteSummaryTable(os.Stdout, cat, engine.Positions(), now)
	}

	if renderMode {
		if summaryMode {
			fmt.Println()
		}
		ctrl := starmap.New(cat, opts)
		if focusName != "" {
			if !ctrl.Find(focusName) {
				return fmt.Errorf("unknown star %q", focusName)
			}
			for i := 0; i < maxSettleFrames && ctrl.Flying(); i++ {
				ctrl.Tick()
			}
		}
		ctrl.Tick()

		canvas := render.New(sty).Paint(ctrl.Frame())
		if isTTY {
			fmt.Println(canvas.String())
		} else {
			fmt.Println(canvas.Plain())
		}
	}
	return nil
}

// headlessSize picks the frame size from flags, then the terminal, then
// fixed defaults.
func headlessSize(isTTY bool) (int, int) {
	cols, rows := defaultCols, defaultRows
	if isTTY {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
			cols, rows = w, h-1
		}
	}
	if width > 0 {
		cols = width
	}
	if height > 0 {
		rows = height
	}
	return cols, rows
}

func runServe(ctx context.Context, cfg config.Config, cat *catalog.Catalog, opts starmap.Options, sty render.Style, logger *logging.Logger) error {
	reg := metrics.NewRegistry()

	created, err := server.EnsureHostKey(cfg.Server.HostKeyPath)
	if err != nil {
		return err
	}
	if created {
		reg.HostKeysCreated.Inc()
		logger.Info("generated host key at %s", cfg.Server.HostKeyPath)
	}

	// Sessions are remote terminals; assume they render color
	lipgloss.SetColorProfile(termenv.TrueColor)

	srv := server.NewSSHServer(cfg.Server, cat, opts, sty, reg, logger)

	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.Start()
	}()

	if cfg.Server.MetricsAddr != "" {
		logger.Info("metrics listening on %s", cfg.Server.MetricsAddr)
		go func() {
			if err := reg.Serve(ctx, cfg.Server.MetricsAddr); err != nil {
				errCh <- fmt.Errorf("metrics: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

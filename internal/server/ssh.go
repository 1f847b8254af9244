// Package server serves the star map over SSH, one Bubble Tea program per
// session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/config"
	"github.com/litescript/ls-starmap/internal/logging"
	"github.com/litescript/ls-starmap/internal/metrics"
	"github.com/litescript/ls-starmap/internal/render"
	"github.com/litescript/ls-starmap/internal/starmap"
	"github.com/litescript/ls-starmap/internal/ui"
)

// SSHServer wraps the SSH listener. The catalog is shared read-only; every
// session gets its own controller, camera and UI model.
type SSHServer struct {
	cfg     config.ServerConfig
	cat     *catalog.Catalog
	opts    starmap.Options
	style   render.Style
	metrics *metrics.Registry
	log     *logging.Logger

	mu     sync.Mutex
	active int
	srv    *ssh.Server
}

// NewSSHServer creates a server for the given catalog. A nil registry or
// logger disables metrics or logging.
func NewSSHServer(cfg config.ServerConfig, cat *catalog.Catalog, opts starmap.Options, style render.Style, reg *metrics.Registry, log *logging.Logger) *SSHServer {
	if log == nil {
		log = logging.Discard()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	reg.CatalogStars.Set(float64(cat.Len()))

	s := &SSHServer{
		cfg:     cfg,
		cat:     cat,
		opts:    opts,
		style:   style,
		metrics: reg,
		log:     log.Named("ssh"),
	}
	s.srv = &ssh.Server{
		Addr:        cfg.SSHAddr,
		Handler:     s.handleSession,
		IdleTimeout: cfg.IdleTimeout,
	}
	return s
}

// Start listens on the configured address until Shutdown.
func (s *SSHServer) Start() error {
	if err := s.srv.SetOption(ssh.HostKeyFile(s.cfg.HostKeyPath)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.log.Info("SSH server listening on %s", s.cfg.SSHAddr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts sessions on an existing listener.
func (s *SSHServer) Serve(l net.Listener) error {
	if err := s.srv.SetOption(ssh.HostKeyFile(s.cfg.HostKeyPath)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}
	if err := s.srv.Serve(l); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting sessions and waits for open ones to end.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Active returns the number of running sessions.
func (s *SSHServer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// acquire reserves a session slot. MaxSessions 0 means unlimited.
func (s *SSHServer) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MaxSessions > 0 && s.active >= s.cfg.MaxSessions {
		return false
	}
	s.active++
	return true
}

func (s *SSHServer) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active--
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		s.metrics.SessionRefused(metrics.ResultNoPTY)
		_ = sess.Exit(1)
		return
	}

	if !s.acquire() {
		fmt.Fprintln(sess, "Error: too many sessions, try again later")
		s.metrics.SessionRefused(metrics.ResultRejected)
		_ = sess.Exit(1)
		return
	}
	defer s.release()

	id := uuid.NewString()
	log := s.log.Named(id[:8])
	log.Info("session opened for %s from %s (%s %dx%d)", sess.User(), sess.RemoteAddr(), ptyReq.Term, ptyReq.Window.Width, ptyReq.Window.Height)

	started := time.Now()
	s.metrics.SessionStarted()
	result := metrics.ResultOK
	defer func() {
		s.metrics.SessionEnded(result, time.Since(started))
		log.Info("session closed after %s", time.Since(started).Round(time.Second))
	}()

	opts := s.opts
	opts.Mode = s.style.Mode
	ctrl := starmap.New(s.cat, opts)

	p := tea.NewProgram(
		ui.New(ctrl, s.style, log),
		tea.WithInput(sess),
		tea.WithOutput(sess),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(sess.Context()),
	)

	// Goroutine: forward the initial size and every resize
	go func() {
		p.Send(tea.WindowSizeMsg{Width: ptyReq.Window.Width, Height: ptyReq.Window.Height})
		for win := range winCh {
			p.Send(tea.WindowSizeMsg{Width: win.Width, Height: win.Height})
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		result = metrics.ResultError
		log.Error("program: %v", err)
		_ = sess.Exit(1)
		return
	}
	_ = sess.Exit(0)
}

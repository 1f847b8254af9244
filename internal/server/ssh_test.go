package server

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/config"
	"github.com/litescript/ls-starmap/internal/metrics"
	"github.com/litescript/ls-starmap/internal/render"
	"github.com/litescript/ls-starmap/internal/starmap"
)

func TestEnsureHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "host_ed25519")

	created, err := EnsureHostKey(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	assert.Equal(t, "PRIVATE KEY", block.Type)
	_, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	created, err = EnsureHostKey(path)
	require.NoError(t, err)
	assert.False(t, created, "existing key must be kept")

	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSessionLimit(t *testing.T) {
	s := newTestServer(t, 1)

	assert.True(t, s.acquire())
	assert.False(t, s.acquire())
	assert.Equal(t, 1, s.Active())

	s.release()
	assert.True(t, s.acquire())
}

func TestSessionLimitUnlimited(t *testing.T) {
	s := newTestServer(t, 0)
	for i := 0; i < 100; i++ {
		require.True(t, s.acquire())
	}
	assert.Equal(t, 100, s.Active())
}

func TestSessionWithoutPTY(t *testing.T) {
	s, addr := startTestServer(t, 4)

	client := dial(t, addr)
	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	out, err := sess.CombinedOutput("starmap")
	var exitErr *gossh.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitStatus())
	assert.Contains(t, string(out), "PTY required")

	assert.Equal(t, float64(1), sessionCount(t, s.metrics, metrics.ResultNoPTY))
	assert.Equal(t, 0, s.Active())
}

func TestSessionRunsStarMap(t *testing.T) {
	s, addr := startTestServer(t, 4)

	client := dial(t, addr)
	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.RequestPty("xterm-256color", 30, 100, gossh.TerminalModes{}))
	stdin, err := sess.StdinPipe()
	require.NoError(t, err)
	var out lockedBuffer
	sess.Stdout = &out
	require.NoError(t, sess.Shell())

	require.Eventually(t, func() bool { return s.Active() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return bytes.Contains(out.Bytes(), []byte("[2] Catalog")) }, 5*time.Second, 10*time.Millisecond)

	_, err = stdin.Write([]byte("q"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- sess.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("session did not end after quit")
	}

	require.Eventually(t, func() bool { return s.Active() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(1), sessionCount(t, s.metrics, metrics.ResultOK))
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Star{
		{ID: "sol-twin", Name: "Sol Twin", DistanceLY: 4.2, SpectralClass: "G2V", RadiusSolar: 1, LuminositySolar: 1},
		{ID: "near-k", Name: "Near K", DistanceLY: 8, SpectralClass: "K1V", RadiusSolar: 0.8, LuminositySolar: 0.5},
	})
}

func newTestServer(t *testing.T, maxSessions int) *SSHServer {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), "host_ed25519")
	_, err := EnsureHostKey(keyPath)
	require.NoError(t, err)

	cfg := config.Default().Server
	cfg.SSHAddr = "127.0.0.1:0"
	cfg.HostKeyPath = keyPath
	cfg.MaxSessions = maxSessions

	return NewSSHServer(cfg, testCatalog(), starmap.DefaultOptions(), render.Classic(), metrics.NewRegistry(), nil)
}

func startTestServer(t *testing.T, maxSessions int) (*SSHServer, string) {
	t.Helper()
	s := newTestServer(t, maxSessions)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.Serve(l) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, l.Addr().String()
}

func dial(t *testing.T, addr string) *gossh.Client {
	t.Helper()
	client, err := gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            "tester",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func sessionCount(t *testing.T, reg *metrics.Registry, result string) float64 {
	t.Helper()
	c, err := reg.SessionsTotal.GetMetricWithLabelValues(result)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.Counter.GetValue()
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

package daemon

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/indicator-tide/indicator-tide/internal/clock"
	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/menu"
	"github.com/indicator-tide/indicator-tide/internal/models"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

const testProvider = "daemon-test"

var registerOnce sync.Once

func registerTestProvider(t *testing.T) {
	t.Helper()
	registerOnce.Do(func() {
		require.NoError(t, plugin.Register(plugin.ProviderInfo{
			Name: testProvider,
			Factory: func() (tidesdk.GetTideDataFunc, error) {
				return func(req tidesdk.Request) ([]tidesdk.Reading, error) {
					return []tidesdk.Reading{
						{Date: "Monday August 04", Time: "04:07 AM", Location: "Test Harbour", IsHigh: true, Level: "4.20m"},
					}, nil
				}, nil
			},
		}))
	})
}

type recordingRenderer struct {
	mu       sync.Mutex
	renders  int
	headline string
	text     string
}

func (r *recordingRenderer) Render(root *menu.Node, headline string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	r.headline = headline
	r.text = menu.Text(root)
}

func (r *recordingRenderer) last() (int, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders, r.headline, r.text
}

type silentNotifier struct{}

func (silentNotifier) Notify(string, string) error { return nil }

func newTestDaemon(t *testing.T) (*Daemon, *recordingRenderer, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.HomeEnvVar, dir)
	path := filepath.Join(dir, config.ConfigFileName)

	r := &recordingRenderer{}
	d, err := New(Options{
		Renderer: r,
		Notifier: silentNotifier{},
		Clock:    clock.NewMock(time.Date(2025, 8, 4, 9, 30, 0, 0, time.UTC)),
		Store:    config.NewStore(path, nil),
		Shutdown: func() {},
	})
	require.NoError(t, err)
	return d, r, path
}

func TestDaemon_ReloadsOnConfigFileChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	registerTestProvider(t)

	d, r, path := newTestDaemon(t)
	require.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	require.Eventually(t, func() bool {
		n, _, text := r.last()
		return n >= 1 && text == "["+menu.LabelScriptNotSet+"]\n"
	}, 2*time.Second, 10*time.Millisecond)

	cfg := *models.NewConfiguration()
	cfg.ProviderPathAndFilename = plugin.BuiltinPath(testProvider)
	cfg.ProviderClassName = testProvider
	require.NoError(t, config.SaveJSON(path, config.RecordFrom(cfg)))

	require.Eventually(t, func() bool {
		_, headline, _ := r.last()
		return headline == "Test Harbour"
	}, 5*time.Second, 20*time.Millisecond)

	_, _, text := r.last()
	assert.Contains(t, text, "High (04:07 AM): 4.20m")
}

func TestDaemon_EditPreferencesWritesMissingFile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d, _, path := newTestDaemon(t)
	var opened []string
	d.openFile = func(p string) error {
		opened = append(opened, p)
		return nil
	}
	require.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	require.False(t, config.FileExists(path))
	d.EditPreferences()

	assert.True(t, config.FileExists(path))
	assert.Equal(t, []string{path}, opened)
}

func TestDaemon_EditPreferencesAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d, _, path := newTestDaemon(t)
	var opened []string
	d.openFile = func(p string) error {
		opened = append(opened, p)
		return nil
	}
	require.NoError(t, d.Start(context.Background()))
	d.Stop()

	d.EditPreferences()

	assert.False(t, config.FileExists(path))
	assert.Empty(t, opened)
}

func TestDaemon_RequestShutdown(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	called := false
	d.shutdown = func() { called = true }

	d.RequestShutdown()
	assert.True(t, called)
	d.Stop()
}

func TestDaemon_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d, _, _ := newTestDaemon(t)
	require.NoError(t, d.Start(context.Background()))
	d.Stop()
	d.Stop()
}

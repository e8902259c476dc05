package instrumented

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"inputweaver/internal/collections"
)

func TestParseEnviron(t *testing.T) {
	got := ParseEnviron([]string{
		"A=1",
		"EMPTY=",
		"WITH_EQ=x=y",
		"=C:=C:\\work",
		"NOEQUALS",
		"",
		"=",
		"A=2",
	})
	assert.Equal(t, map[string]string{
		"A":       "2",
		"EMPTY":   "",
		"WITH_EQ": "x=y",
		"=C:":     "C:\\work",
	}, got)
}

func TestDispatcher_LookupEnvReportsPresenceAndAbsence(t *testing.T) {
	ctrl := gomock.NewController(t)
	listener := NewMockListener(ctrl)
	d := NewDispatcher()
	d.SetListener(listener)

	t.Setenv("INPUTWEAVER_SET", "yes")
	require.NoError(t, os.Unsetenv("INPUTWEAVER_UNSET"))

	listener.EXPECT().EnvVariableQueried("INPUTWEAVER_SET", "yes", true, "")
	listener.EXPECT().EnvVariableQueried("INPUTWEAVER_UNSET", "", false, "")

	v, ok := d.LookupEnv("INPUTWEAVER_SET")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
	assert.Empty(t, d.Getenv("INPUTWEAVER_UNSET"))
}

func TestDispatcher_EnvironIsTrackedAndReadOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	listener := NewMockListener(ctrl)
	d := NewDispatcher()
	d.SetListener(listener)

	t.Setenv("INPUTWEAVER_ENVIRON", "v")
	env := d.Environ()

	listener.EXPECT().EnvVariableQueried("INPUTWEAVER_ENVIRON", "v", true, "")
	assert.Equal(t, "v", env.GetOrDefault("INPUTWEAVER_ENVIRON", "fallback"))

	_, _, err := env.Put("INPUTWEAVER_ENVIRON", "w")
	assert.ErrorIs(t, err, collections.ErrReadOnly)

	// Enumerating the environment reads every variable.
	listener.EXPECT().EnvVariableQueried(gomock.Any(), gomock.Any(), true, "").MinTimes(1)
	assert.NotZero(t, env.Len())
}

func TestDispatcher_EnvironSuppressedReturnsRawSnapshot(t *testing.T) {
	d := NewDispatcher()
	defer d.WithInstrumentationDisabled().Release()

	_, isTracking := d.Environ().(*TrackingMap)
	assert.False(t, isTracking)
}

func TestDispatcher_LookupProperty(t *testing.T) {
	ctrl := gomock.NewController(t)
	listener := NewMockListener(ctrl)
	d := NewDispatcher()
	d.SetListener(listener)

	props := collections.NewHashMap(map[string]string{"user.dir": "/w"})
	listener.EXPECT().SystemPropertyQueried("user.dir", "/w", true, "")
	listener.EXPECT().SystemPropertyQueried("build.cache", "", false, "")

	v, ok := d.LookupProperty(props, "user.dir")
	assert.True(t, ok)
	assert.Equal(t, "/w", v)
	_, ok = d.LookupProperty(props, "build.cache")
	assert.False(t, ok)
}

func TestDispatcher_OpenReportsOnlySuccessfulOpens(t *testing.T) {
	ctrl := gomock.NewController(t)
	listener := NewMockListener(ctrl)
	dir := t.TempDir()
	d := NewDispatcher(WithWorkingDir(func() (string, error) { return dir, nil }))
	d.SetListener(listener)

	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	listener.EXPECT().FileOpened(path, "")
	f, err := d.Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = d.Open(filepath.Join(dir, "does-not-exist"))
	assert.Error(t, err)

	_, err = d.ReadFile(filepath.Join(dir, "does-not-exist"))
	assert.Error(t, err)
}

func TestDispatcher_StartProcessReportsJoinedCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctrl := gomock.NewController(t)
	listener := NewMockListener(ctrl)
	d := NewDispatcher()
	d.SetListener(listener)

	cmd := exec.Command("sh", "-c", "exit 0")
	listener.EXPECT().ExternalProcessStarted("sh -c exit 0", "")
	require.NoError(t, d.StartProcess(cmd))
	require.NoError(t, cmd.Wait())

	missing := exec.Command(filepath.Join(t.TempDir(), "no-such-binary"))
	assert.Error(t, d.StartProcess(missing))
}

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/exec"
	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listRunning = `{
	"LimitLoadToSessionType" = "Aqua";
	"Label" = "com.user.llama-swap";
	"OnDemand" = false;
	"LastExitStatus" = 0;
	"PID" = 4242;
	"Program" = "/opt/homebrew/bin/llama-swap";
};`

const listLoadedOnly = `{
	"Label" = "com.user.llama-swap";
	"LastExitStatus" = 19968;
};`

// fakeLaunchctl records calls and answers from a scripted table.
type fakeLaunchctl struct {
	calls   []string
	loaded  bool
	running bool
	fail    map[string]error
}

func (f *fakeLaunchctl) run(_ context.Context, name string, args ...string) (string, error) {
	call := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, call)

	if len(args) > 0 {
		if err, ok := f.fail[args[0]]; ok {
			return "", err
		}
	}

	switch args[0] {
	case "list":
		if !f.loaded {
			return "", &exec.CommandError{Command: call, ExitCode: 113, Output: "Could not find service"}
		}
		if f.running {
			return listRunning, nil
		}
		return listLoadedOnly, nil
	case "bootstrap":
		f.loaded = true
	case "kickstart":
		f.running = true
	case "bootout":
		if !f.loaded {
			return "", &exec.CommandError{Command: call, ExitCode: 3, Output: "Boot-out failed: 3: No such process"}
		}
		f.loaded, f.running = false, false
	}
	return "", nil
}

func newFake(t *testing.T, installed bool) (*Launchd, *fakeLaunchctl, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "LaunchAgents", "com.user.llama-swap.plist")
	if installed {
		require.NoError(t, WritePlist(path, NewAgentPlist(AgentSpec{Label: "com.user.llama-swap", Binary: "/bin/llama-swap"})))
	}
	f := &fakeLaunchctl{fail: map[string]error{}}
	l := NewLaunchd("com.user.llama-swap", path, f.run, logger.NewBufferLogger())
	l.uid = 501
	return l, f, path
}

func TestParsePID(t *testing.T) {
	assert.Equal(t, 4242, parsePID(listRunning))
	assert.Equal(t, 0, parsePID(listLoadedOnly))
	assert.Equal(t, 0, parsePID(`"PID" = 0;`))
	assert.Equal(t, 0, parsePID(`"PID" = abc;`))
	assert.Equal(t, 0, parsePID(""))
}

func TestLaunchdTargets(t *testing.T) {
	l, _, _ := newFake(t, false)
	assert.Equal(t, "gui/501", l.Domain())
	assert.Equal(t, "gui/501/com.user.llama-swap", l.Target())
	assert.Equal(t, "com.user.llama-swap", l.Label())
}

func TestLaunchdList(t *testing.T) {
	l, f, _ := newFake(t, true)
	ctx := context.Background()

	assert.False(t, l.IsLoaded(ctx))

	f.loaded = true
	assert.True(t, l.IsLoaded(ctx))
	_, pid := l.List(ctx)
	assert.Zero(t, pid)

	f.running = true
	loaded, pid := l.List(ctx)
	assert.True(t, loaded)
	assert.Equal(t, 4242, pid)
}

func TestLaunchdStart_BootstrapsWhenNotLoaded(t *testing.T) {
	l, f, path := newFake(t, true)

	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, []string{
		"launchctl list com.user.llama-swap",
		"launchctl bootstrap gui/501 " + path,
		"launchctl kickstart gui/501/com.user.llama-swap",
	}, f.calls)
}

func TestLaunchdStart_AlreadyLoaded(t *testing.T) {
	l, f, _ := newFake(t, true)
	f.loaded = true

	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, []string{
		"launchctl list com.user.llama-swap",
		"launchctl kickstart gui/501/com.user.llama-swap",
	}, f.calls)
}

func TestLaunchdStart_NotInstalled(t *testing.T) {
	l, _, _ := newFake(t, false)

	err := l.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrService))
	assert.Contains(t, err.Error(), "not installed")
}

func TestLaunchdStart_KickstartFails(t *testing.T) {
	l, f, _ := newFake(t, true)
	f.loaded = true
	f.fail["kickstart"] = &exec.CommandError{Command: "launchctl kickstart", ExitCode: 5, Output: "Input/output error"}

	err := l.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to start service")
}

func TestLaunchdStop(t *testing.T) {
	l, f, _ := newFake(t, true)
	f.loaded, f.running = true, true

	require.NoError(t, l.Stop(context.Background()))
	assert.Equal(t, []string{"launchctl bootout gui/501/com.user.llama-swap"}, f.calls)

	// second stop hits "No such process" and is ignored
	require.NoError(t, l.Stop(context.Background()))
}

func TestLaunchdStop_RealFailure(t *testing.T) {
	l, f, _ := newFake(t, true)
	f.fail["bootout"] = &exec.CommandError{Command: "launchctl bootout", ExitCode: 1, Output: "Operation not permitted"}

	err := l.Stop(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrService))
}

func TestLaunchdRestart(t *testing.T) {
	l, f, path := newFake(t, true)

	require.NoError(t, l.Restart(context.Background()))
	assert.Equal(t, []string{
		"launchctl list com.user.llama-swap",
		"launchctl bootstrap gui/501 " + path,
		"launchctl kickstart -k gui/501/com.user.llama-swap",
	}, f.calls)
}

func TestLaunchdInstallUninstall(t *testing.T) {
	l, f, path := newFake(t, false)
	ctx := context.Background()

	spec := AgentSpec{
		Binary:     "/opt/homebrew/bin/llama-swap",
		ConfigPath: "/Users/me/.llamaswap/config.yaml",
		Listen:     "127.0.0.1:45786",
		LogPath:    "/Users/me/Library/Logs/LlamaSwap.log",
	}
	require.NoError(t, l.Install(ctx, spec))
	assert.True(t, f.loaded)

	p, err := ReadPlist(path)
	require.NoError(t, err)
	assert.Equal(t, "com.user.llama-swap", p.Label)
	assert.Equal(t, []string{
		"/opt/homebrew/bin/llama-swap",
		"--config", "/Users/me/.llamaswap/config.yaml",
		"--listen", "127.0.0.1:45786",
	}, p.ProgramArguments)
	assert.True(t, p.RunAtLoad)
	assert.True(t, p.KeepAlive)
	assert.Equal(t, spec.LogPath, p.StandardErrorPath)
	assert.Contains(t, p.EnvironmentVariables["PATH"], "/opt/homebrew/bin")

	// reinstall unloads the running copy first
	f.calls = nil
	require.NoError(t, l.Install(ctx, spec))
	assert.Contains(t, f.calls, "launchctl bootout gui/501/com.user.llama-swap")

	require.NoError(t, l.Uninstall(ctx))
	assert.False(t, f.loaded)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// uninstalling twice is harmless
	require.NoError(t, l.Uninstall(ctx))
}

func TestPlistEncodeIsXML(t *testing.T) {
	data, err := NewAgentPlist(AgentSpec{Label: "x", Binary: "/bin/llama-swap"}).Encode()
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "<?xml")
	assert.Contains(t, s, "<key>ProgramArguments</key>")
	assert.NotContains(t, s, "--config")
}

func TestReadPlist_Errors(t *testing.T) {
	_, err := ReadPlist(filepath.Join(t.TempDir(), "missing.plist"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.plist")
	require.NoError(t, os.WriteFile(bad, []byte("<plist><dict><key>"), 0644))
	_, err = ReadPlist(bad)
	require.Error(t, err)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		health Health
		full    bool
		desc    string
		summary string
	}{
		{"all up", Status{true, true, true, true, 1}, HealthRunning, true, "Running", "Running"},
		{"api down", Status{true, true, true, false, 1}, HealthUnknown, false, "Process running but API unresponsive", "Unknown · Process running but API unresponsive"},
		{"loaded idle", Status{true, true, false, false, 0}, HealthStopped, false, "Loaded but not running", "Stopped · Loaded but not running"},
		{"stopped", Status{true, false, false, false, 0}, HealthStopped, false, "Stopped", "Stopped"},
		{"not installed", Status{false, false, false, false, 0}, HealthStopped, false, "Not installed", "Stopped · Not installed"},
		{"manual run", Status{false, false, true, true, 9}, HealthRunning, false, "Not installed", "Running · Not installed"},
		{"odd combo", Status{true, false, true, true, 9}, HealthRunning, false, "Unknown state", "Running · Unknown state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.health, tt.status.Health())
			assert.Equal(t, tt.full, tt.status.FullyRunning())
			assert.Equal(t, tt.desc, tt.status.Description())
			assert.Equal(t, tt.summary, tt.status.Summary())
		})
	}

	assert.Equal(t, "Unknown", HealthUnknown.String())
	assert.Equal(t, "Running", HealthRunning.String())
	assert.Equal(t, "Stopped", HealthStopped.String())
}

type fakeProcs struct {
	found metrics.ProcessInfo
	ok    bool
	asked string
}

func (f *fakeProcs) FindByName(_ context.Context, bin string) (metrics.ProcessInfo, bool) {
	f.asked = bin
	return f.found, f.ok
}

func TestCheckerCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("launchctl pid", func(t *testing.T) {
		l, f, _ := newFake(t, true)
		f.loaded, f.running = true, true
		st := NewChecker(l, nil, "").Check(ctx, true)
		assert.Equal(t, Status{PlistInstalled: true, Loaded: true, ProcessRunning: true, APIResponsive: true, PID: 4242}, st)
	})

	t.Run("process table fallback", func(t *testing.T) {
		l, _, _ := newFake(t, false)
		procs := &fakeProcs{found: metrics.ProcessInfo{PID: 77}, ok: true}
		st := NewChecker(l, procs, "/usr/local/bin/llama-swap").Check(ctx, false)
		assert.True(t, st.ProcessRunning)
		assert.Equal(t, 77, st.PID)
		assert.False(t, st.PlistInstalled)
		assert.Equal(t, "llama-swap", procs.asked)
	})

	t.Run("nothing running", func(t *testing.T) {
		l, _, _ := newFake(t, true)
		st := NewChecker(l, &fakeProcs{}, "").Check(ctx, false)
		assert.Equal(t, Status{PlistInstalled: true}, st)
		assert.Equal(t, HealthStopped, st.Health())
	})
}

func TestFindBinary(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "llama-swap")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	notFound := func(string) (string, error) { return "", os.ErrNotExist }
	found := func(name string) (string, error) { return "/opt/homebrew/bin/" + name, nil }

	p, err := FindBinary(bin, notFound)
	require.NoError(t, err)
	assert.Equal(t, bin, p)

	p, err = FindBinary("", found)
	require.NoError(t, err)
	assert.Equal(t, "/opt/homebrew/bin/llama-swap", p)

	_, err = FindBinary("", notFound)
	assert.Error(t, err)

	l, _, _ := newFake(t, false)
	c := NewChecker(l, nil, "")
	c.lookPath = notFound
	assert.False(t, c.BinaryAvailable())
	c.lookPath = found
	assert.True(t, c.BinaryAvailable())
}

func TestOpen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "LlamaSwap.log")
	require.NoError(t, os.WriteFile(file, []byte("log"), 0644))

	var got []string
	opener := func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}

	require.NoError(t, Open(file, opener))
	assert.Equal(t, []string{"open", file}, got)

	err := Open(filepath.Join(t.TempDir(), "missing.yaml"), opener)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File not found")
}

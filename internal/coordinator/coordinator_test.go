package coordinator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/hook"
)

type fakeTap struct {
	mu       sync.Mutex
	installs int
	removes  int
	handler  hook.Handler
}

func (f *fakeTap) Install(h hook.Handler, _ func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installs++
	f.handler = h
	return nil
}

func (f *fakeTap) Enabled() bool { return true }

func (f *fakeTap) Enable() {}

func (f *fakeTap) Remove() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
}

func (f *fakeTap) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installs, f.removes
}

func (f *fakeTap) send(ev event.Event) event.Verdict {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	return h(&ev)
}

type recordingExecutor struct {
	mu      sync.Mutex
	actions []action.Kind
	scrolls int
}

func (r *recordingExecutor) Execute(a action.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a.Kind)
}

func (r *recordingExecutor) PostScroll(event.ScrollDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls++
}

func (r *recordingExecutor) executed() []action.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]action.Kind(nil), r.actions...)
}

type fakePermissions struct {
	mu       sync.Mutex
	granted  bool
	requests int
}

func (p *fakePermissions) Granted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

func (p *fakePermissions) Request() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests++
	return p.granted
}

func (p *fakePermissions) grant() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = true
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	path  string
	tap   *fakeTap
	exec  *recordingExecutor
	perm  *fakePermissions
	wake  chan struct{}
	devs  chan struct{}
	coord *Coordinator
}

func newFixture(t *testing.T, body string) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if body != "" {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		path: path,
		tap:  &fakeTap{},
		exec: &recordingExecutor{},
		perm: &fakePermissions{granted: true},
		wake: make(chan struct{}),
		devs: make(chan struct{}),
	}
	f.coord = New(cfg, Deps{
		Tap:         f.tap,
		Executor:    f.exec,
		Permissions: f.perm,
		Wake:        f.wake,
		Devices:     f.devs,

		PermissionPoll: 5 * time.Millisecond,
	}, quiet)
	return f
}

func TestStartDeliversActions(t *testing.T) {
	f := newFixture(t, "")
	f.coord.Start(context.Background())
	defer f.coord.Stop()

	if installs, _ := f.tap.counts(); installs != 1 {
		t.Fatalf("installs = %d", installs)
	}
	if f.perm.requests != 0 {
		t.Error("should not prompt when already trusted")
	}

	if v := f.tap.send(event.Event{Kind: event.ButtonDown, Button: event.Button5}); v != event.Swallow {
		t.Fatalf("down = %v", v)
	}
	f.tap.send(event.Event{Kind: event.ButtonUp, Button: event.Button5})

	eventually(t, "forward executed", func() bool {
		got := f.exec.executed()
		return len(got) == 1 && got[0] == action.NavigateForward
	})
}

func TestPromptsWhenUntrusted(t *testing.T) {
	f := newFixture(t, "")
	f.perm.granted = false
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.coord.Start(ctx)
	defer f.coord.Stop()

	f.perm.mu.Lock()
	requests := f.perm.requests
	f.perm.mu.Unlock()
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestRestartsOnceGranted(t *testing.T) {
	f := newFixture(t, "")
	f.perm.granted = false
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.coord.Start(ctx)
	defer f.coord.Stop()

	installs, _ := f.tap.counts()
	f.perm.grant()
	eventually(t, "reinstall after grant", func() bool {
		n, _ := f.tap.counts()
		return n > installs
	})
}

func TestSetEnabled(t *testing.T) {
	f := newFixture(t, "")
	f.coord.Start(context.Background())
	defer f.coord.Stop()

	changes := 0
	f.coord.OnChange(func() { changes++ })

	f.coord.SetEnabled(false)
	if _, removes := f.tap.counts(); removes != 1 {
		t.Fatalf("removes = %d after disable", removes)
	}
	if f.coord.Enabled() {
		t.Error("Enabled() should be false")
	}

	f.coord.SetEnabled(true)
	if installs, _ := f.tap.counts(); installs != 2 {
		t.Fatalf("installs = %d after re-enable", installs)
	}
	if changes != 2 {
		t.Errorf("change listeners ran %d times", changes)
	}
}

func TestDisabledConfigDoesNotInstall(t *testing.T) {
	f := newFixture(t, "enabled: false\n")
	f.coord.Start(context.Background())
	defer f.coord.Stop()

	if installs, _ := f.tap.counts(); installs != 0 {
		t.Errorf("installs = %d", installs)
	}
}

func TestReload(t *testing.T) {
	f := newFixture(t, "")
	f.coord.Start(context.Background())
	defer f.coord.Stop()

	body := "buttons:\n  - button: button5\n    click: single_click\n    action: launchpad\n"
	if err := os.WriteFile(f.path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	f.coord.Reload()

	if installs, removes := f.tap.counts(); installs != 2 || removes != 1 {
		t.Fatalf("installs=%d removes=%d after reload", installs, removes)
	}

	f.tap.send(event.Event{Kind: event.ButtonDown, Button: event.Button5})
	f.tap.send(event.Event{Kind: event.ButtonUp, Button: event.Button5})
	eventually(t, "launchpad executed", func() bool {
		got := f.exec.executed()
		return len(got) == 1 && got[0] == action.Launchpad
	})
}

func TestReloadKeepsConfigOnError(t *testing.T) {
	f := newFixture(t, "")
	f.coord.Start(context.Background())
	defer f.coord.Stop()

	if err := os.WriteFile(f.path, []byte("scroll:\n  speed: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.coord.Reload()

	if got := f.coord.Store().Current().Scroll.Speed; got != 1 {
		t.Errorf("speed = %v, want previous value", got)
	}
	if installs, _ := f.tap.counts(); installs != 1 {
		t.Errorf("pipeline restarted on a failed reload")
	}
}

func TestRunRestartsOnTriggers(t *testing.T) {
	f := newFixture(t, "")
	f.coord.Start(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.coord.Run(context.Background()) }()

	f.wake <- struct{}{}
	eventually(t, "restart after wake", func() bool {
		installs, _ := f.tap.counts()
		return installs == 2
	})

	f.devs <- struct{}{}
	eventually(t, "restart after device", func() bool {
		installs, _ := f.tap.counts()
		return installs == 3
	})

	f.coord.Quit()
	f.coord.Quit()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	installs, removes := f.tap.counts()
	if installs != removes {
		t.Errorf("installs=%d removes=%d after Run returned", installs, removes)
	}
	if f.coord.Interceptor().Running() {
		t.Error("interceptor still running")
	}
}

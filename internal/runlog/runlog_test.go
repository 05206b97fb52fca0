package runlog_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/dycw/hooksmith/internal/runlog"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init")
	run(t, dir, "git", "config", "user.email", "test@test.com")
	run(t, dir, "git", "config", "user.name", "Test")
	return dir
}

func run(t *testing.T, dir, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v failed: %s\n%s", name, args, err, out)
	}
}

func TestOpen_CreatesDatabaseUnderGitDir(t *testing.T) {
	repo := setupRepo(t)

	l, err := runlog.Open(repo)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(filepath.Join(repo, ".git", "hooksmith", "runs.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestStats_AggregatesPerHook(t *testing.T) {
	repo := setupRepo(t)
	l, err := runlog.Open(repo)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []runlog.Run{
		{Hook: "check-settings", StartedAt: base, Duration: 100 * time.Millisecond, ExitCode: 0, Files: 3},
		{Hook: "check-settings", StartedAt: base.Add(time.Minute), Duration: 300 * time.Millisecond, ExitCode: 1, Files: 3},
		{Hook: "run-python", StartedAt: base.Add(2 * time.Minute), Duration: 2 * time.Second, ExitCode: 0, Files: 10},
	}
	for _, r := range runs {
		if err := l.Add(r); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d hooks, want 2", len(stats))
	}

	cs := stats[0]
	if cs.Hook != "check-settings" {
		t.Fatalf("stats[0].Hook = %s, want check-settings (ordered by name)", cs.Hook)
	}
	if cs.Runs != 2 || cs.Failures != 1 {
		t.Errorf("check-settings runs/failures = %d/%d, want 2/1", cs.Runs, cs.Failures)
	}
	if cs.AvgMillis != 200 {
		t.Errorf("check-settings avg = %v, want 200", cs.AvgMillis)
	}
	if cs.LastRun != "2024-03-01T12:01:00Z" {
		t.Errorf("check-settings last run = %s, want the later timestamp", cs.LastRun)
	}

	rp := stats[1]
	if rp.Hook != "run-python" || rp.Runs != 1 || rp.Failures != 0 {
		t.Errorf("run-python stats = %+v", rp)
	}
}

func TestStats_EmptyDatabase(t *testing.T) {
	repo := setupRepo(t)
	l, err := runlog.Open(repo)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("got %d hooks, want 0", len(stats))
	}
}

func TestRecord_SwallowsFailures(t *testing.T) {
	// Not a git repo, so Open fails and Record must do nothing.
	runlog.Record(t.TempDir(), runlog.Run{Hook: "check-settings", StartedAt: time.Now()})
}

func TestRecord_PersistsAcrossOpens(t *testing.T) {
	repo := setupRepo(t)
	runlog.Record(repo, runlog.Run{
		Hook:      "run-version-bump",
		StartedAt: time.Now(),
		Duration:  50 * time.Millisecond,
		ExitCode:  0,
		Files:     1,
	})

	l, err := runlog.Open(repo)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 1 || stats[0].Hook != "run-version-bump" || stats[0].Runs != 1 {
		t.Errorf("stats = %+v, want one run-version-bump run", stats)
	}
}

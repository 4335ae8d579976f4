package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI against dbPath and returns its output.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "ERROR"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "chesslab dev") {
		t.Errorf("expected output to contain 'chesslab dev', got: %s", buf.String())
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"version", "migrate", "user", "repertoire", "line", "import", "tree", "practice", "review", "delete", "stats", "reminders"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestTrainingWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chesslab.db")

	out := mustRun(t, dbPath, "user", "create", "alice")
	if !strings.Contains(out, "has id 1") {
		t.Fatalf("unexpected create output: %s", out)
	}
	mustRun(t, dbPath, "repertoire", "create", "-u", "alice", "-c", "white")

	out = mustRun(t, dbPath, "line", "-u", "alice", "1.", "e4", "c5", "2.", "Nf3")
	if !strings.Contains(out, "saved 1. e4 c5 2. Nf3 (3 new)") {
		t.Fatalf("unexpected line output: %s", out)
	}

	out = mustRun(t, dbPath, "tree", "-u", "alice")
	if !strings.Contains(out, "1. e4 c5 2. Nf3 *") {
		t.Fatalf("tree should show Nf3 as due: %s", out)
	}

	out = mustRun(t, dbPath, "practice", "-u", "alice")
	if !strings.Contains(out, "1. e4 c5") {
		t.Fatalf("practice should list Nf3 after 1. e4 c5: %s", out)
	}

	out = mustRun(t, dbPath, "review", "-u", "alice", "3", "effort")
	if !strings.Contains(out, "Step 2") {
		t.Fatalf("unexpected review output: %s", out)
	}

	out = mustRun(t, dbPath, "stats", "-u", "alice")
	if !strings.Contains(out, "due: 0") || !strings.Contains(out, "white: 0/1 learned") {
		t.Fatalf("unexpected stats: %s", out)
	}

	if _, err := run(t, dbPath, "line", "-u", "alice", "e4", "c5", "Nc3"); err == nil {
		t.Fatal("conflicting line should fail")
	}

	out = mustRun(t, dbPath, "delete", "-u", "alice", "3")
	if !strings.Contains(out, "deleted 1 entries") {
		t.Fatalf("unexpected delete output: %s", out)
	}

	out = mustRun(t, dbPath, "migrate", "status")
	if !strings.Contains(out, "0001_init.sql") || strings.Contains(out, "pending") {
		t.Fatalf("unexpected migrate output: %s", out)
	}
}

func TestRemindersRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chesslab.db")
	mustRun(t, dbPath, "user", "create", "bob")
	mustRun(t, dbPath, "user", "reminders", "bob", "on")

	out := mustRun(t, dbPath, "reminders", "run")
	if !strings.Contains(out, "sent 1 digests") {
		t.Fatalf("unexpected reminders output: %s", out)
	}

	if _, err := run(t, dbPath, "user", "reminders", "bob", "maybe"); err == nil {
		t.Fatal("expected an error for an invalid toggle")
	}
}

func TestUserRequired(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chesslab.db")
	if _, err := run(t, dbPath, "tree"); err == nil {
		t.Fatal("tree without --user should fail")
	}
	if _, err := run(t, dbPath, "tree", "-u", "nobody"); err == nil {
		t.Fatal("unknown user should fail")
	}
}

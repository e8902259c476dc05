package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	icl "inputweaver/internal/cli"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return b
}

func probe(t *testing.T, args []string) icl.ProbeSummary {
	t.Helper()
	var stdout, stderr bytes.Buffer
	res, err := icl.Run(context.Background(), args, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run err: %v (stderr: %s)", err, stderr.String())
	}
	if res.ExitCode != icl.ExitSuccess {
		t.Fatalf("run exit: %d", res.ExitCode)
	}
	var summary icl.ProbeSummary
	if err := json.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	return summary
}

func TestDeterministicInvocation_IdenticalRunsIdenticalTraces(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "task.yaml"), `
name: t1
inputs: ["src/*.txt"]
run: echo ${BLACKBOX_MODE} > /dev/null
env:
  LANG: ${BLACKBOX_LANG}
`)
	writeFile(t, filepath.Join(workDir, "src", "b.txt"), "b")
	writeFile(t, filepath.Join(workDir, "src", "a.txt"), "a")
	t.Setenv("BLACKBOX_MODE", "m")

	args := []string{"probe", "--workdir", workDir, "--task", "task.yaml", "--trace", "trace.json"}
	tracePath := filepath.Join(workDir, "trace.json")

	s1 := probe(t, args)
	tr1 := readFile(t, tracePath)
	s2 := probe(t, args)
	tr2 := readFile(t, tracePath)

	if !bytes.Equal(tr1, tr2) {
		t.Fatalf("trace differs:\n%s\n---\n%s", tr1, tr2)
	}
	if s1.Fingerprint != s2.Fingerprint || s1.TraceHash != s2.TraceHash {
		t.Fatalf("hashes differ: %+v vs %+v", s1, s2)
	}
	if s1.RunID == s2.RunID {
		t.Fatalf("run ids must be unique per probe")
	}
}

func TestDeterministicInvocation_AmbientChangeChangesFingerprint(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "task.yaml"), "name: t\nrun: echo ${BLACKBOX_TOOLCHAIN}\n")
	args := []string{"probe", "--workdir", workDir, "--task", "task.yaml"}

	t.Setenv("BLACKBOX_TOOLCHAIN", "go1.24")
	before := probe(t, args)

	t.Setenv("BLACKBOX_UNRELATED", "x")
	unrelated := probe(t, args)
	if unrelated.Fingerprint != before.Fingerprint {
		t.Fatalf("unrelated variable changed the fingerprint")
	}

	t.Setenv("BLACKBOX_TOOLCHAIN", "go1.25")
	after := probe(t, args)
	if after.Fingerprint == before.Fingerprint {
		t.Fatalf("read variable did not change the fingerprint")
	}
}

func TestDeterministicInvocation_InputContentChangesFingerprintNotTrace(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "task.yaml"), "name: t\ninputs: [in.txt]\nrun: 'true'\n")
	args := []string{"probe", "--workdir", workDir, "--task", "task.yaml"}

	writeFile(t, filepath.Join(workDir, "in.txt"), "one")
	before := probe(t, args)
	writeFile(t, filepath.Join(workDir, "in.txt"), "two")
	after := probe(t, args)

	if before.TraceHash != after.TraceHash {
		t.Fatalf("trace should record the open, not the content")
	}
	if before.Fingerprint == after.Fingerprint {
		t.Fatalf("content change did not change the fingerprint")
	}
}

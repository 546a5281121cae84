package adapter

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

func TestLocalTestRunnerAdapter_RunGoTest_Success(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go not available")
	}

	adapter := NewLocalTestRunnerAdapter(time.Minute)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "go.mod"), "module example.com/basic\n\ngo 1.21\n")
	writeTestFile(t, filepath.Join(dir, "basic.go"), "package basic\n\nfunc One() int { return 1 }\n")
	writeTestFile(t, filepath.Join(dir, "basic_test.go"), "package basic\n\nimport \"testing\"\n\nfunc TestOne(t *testing.T) {\n\tif One() != 1 {\n\t\tt.Fatal(\"want 1\")\n\t}\n}\n")

	out, err := adapter.RunGoTest(context.Background(), m.Path(dir), "-v", "./...")
	if err != nil {
		t.Fatalf("RunGoTest() error = %v, output = %s", err, out)
	}

	if !strings.Contains(out, "=== RUN") && !strings.Contains(out, "ok ") {
		t.Fatalf("RunGoTest() output does not look like go test output: %q", out)
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_Failure(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go not available")
	}

	adapter := NewLocalTestRunnerAdapter(time.Minute)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "go.mod"), "module example.com/basic\n\ngo 1.21\n")

	out, err := adapter.RunGoTest(context.Background(), m.Path(dir), "./does_not_exist")
	if err == nil {
		t.Fatalf("RunGoTest() expected error for missing test target, got nil (output=%s)", out)
	}

	if out == "" {
		t.Fatalf("RunGoTest() expected some diagnostic output for failure, got empty string")
	}
}

func TestLocalTestRunnerAdapter_RunCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	adapter := NewLocalTestRunnerAdapter(0)
	dir := t.TempDir()

	out, err := adapter.RunCommand(context.Background(), m.Path(dir), "echo hello && pwd")
	if err != nil {
		t.Fatalf("RunCommand() error = %v", err)
	}

	if !strings.Contains(out, "hello") || !strings.Contains(out, filepath.Base(dir)) {
		t.Fatalf("RunCommand() output = %q", out)
	}

	if _, err := adapter.RunCommand(context.Background(), m.Path(dir), "exit 3"); err == nil {
		t.Fatalf("RunCommand() expected error for non-zero exit")
	}
}

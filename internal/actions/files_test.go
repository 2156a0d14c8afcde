package actions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/themobileprof/buildok/pkg/models"
)

func setupTestDir(t *testing.T) (*models.ExecutionContext, func()) {
	tmpDir, err := os.MkdirTemp("", "buildok-actions-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	cleanup := func() {
		os.RemoveAll(tmpDir)
	}
	return &models.ExecutionContext{Dir: tmpDir}, cleanup
}

func call(ctx *models.ExecutionContext, args map[string]string) *models.Call {
	return &models.Call{Context: ctx, Args: args}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestChangeDirUpdatesContext(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	root := ctx.Dir
	if err := os.Mkdir(filepath.Join(root, "build"), 0755); err != nil {
		t.Fatalf("Failed to create build dir: %v", err)
	}

	out, err := changeDir(call(ctx, map[string]string{"path": "build"}))
	if err != nil {
		t.Fatalf("Unexpected fault: %v", err)
	}
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	if ctx.Dir != filepath.Join(root, "build") {
		t.Errorf("Expected dir %s, got %s", filepath.Join(root, "build"), ctx.Dir)
	}

	out, _ = changeDir(call(ctx, map[string]string{"path": "missing"}))
	if out.Success {
		t.Error("Expected failure for missing directory")
	}
	if ctx.Dir != filepath.Join(root, "build") {
		t.Errorf("Failed chdir must not move the run directory, got %s", ctx.Dir)
	}
}

func TestMakeDir(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	out, _ := makeDir(call(ctx, map[string]string{"path": "a/b/c"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	if info, err := os.Stat(filepath.Join(ctx.Dir, "a", "b", "c")); err != nil || !info.IsDir() {
		t.Errorf("Expected nested directory to exist: %v", err)
	}
	if out.Message != "Created new directory => a/b/c" {
		t.Errorf("Unexpected message: %s", out.Message)
	}

	out, _ = makeDir(call(ctx, map[string]string{"path": "a/b"}))
	if out.Success {
		t.Error("Expected failure when the directory exists")
	}
}

func TestChangeMode(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	path := filepath.Join(ctx.Dir, "run.sh")
	writeTestFile(t, path, "echo hi\n")

	out, _ := changeMode(call(ctx, map[string]string{"mode": "755", "path": "run.sh"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("Expected mode 0755, got %04o", info.Mode().Perm())
	}

	out, _ = changeMode(call(ctx, map[string]string{"mode": "rwx", "path": "run.sh"}))
	if out.Success {
		t.Error("Expected failure for non-octal mode")
	}
}

func TestCopyFiles(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	writeTestFile(t, filepath.Join(ctx.Dir, "src", "one.txt"), "1")
	writeTestFile(t, filepath.Join(ctx.Dir, "src", "two.txt"), "2")
	writeTestFile(t, filepath.Join(ctx.Dir, "src", "nested", "three.txt"), "3")
	if err := os.Mkdir(filepath.Join(ctx.Dir, "dst"), 0755); err != nil {
		t.Fatalf("Failed to create dst: %v", err)
	}

	out, _ := copyFiles(call(ctx, map[string]string{"src": "src/*", "dst": "dst"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	if out.Message != "Copied 2 files and 1 folders" {
		t.Errorf("Unexpected message: %s", out.Message)
	}
	data, err := os.ReadFile(filepath.Join(ctx.Dir, "dst", "nested", "three.txt"))
	if err != nil || string(data) != "3" {
		t.Errorf("Expected nested file to be copied, got %q (%v)", data, err)
	}

	out, _ = copyFiles(call(ctx, map[string]string{"src": "nothing-*", "dst": "dst"}))
	if out.Success {
		t.Error("Expected failure when nothing matches")
	}
}

func TestCopySingleFileToNewName(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	writeTestFile(t, filepath.Join(ctx.Dir, "config.example"), "key=value\n")

	out, _ := copyFiles(call(ctx, map[string]string{"src": "config.example", "dst": "config.ini"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	data, err := os.ReadFile(filepath.Join(ctx.Dir, "config.ini"))
	if err != nil || string(data) != "key=value\n" {
		t.Errorf("Expected copied content, got %q (%v)", data, err)
	}
}

func TestMoveAndRemove(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	writeTestFile(t, filepath.Join(ctx.Dir, "a.txt"), "a")

	out, _ := moveFiles(call(ctx, map[string]string{"src": "a.txt", "dst": "b.txt"}))
	if !out.Success {
		t.Fatalf("Expected move success, got %s", out.Message)
	}
	if _, err := os.Stat(filepath.Join(ctx.Dir, "a.txt")); !os.IsNotExist(err) {
		t.Error("Expected source to be gone after move")
	}

	out, _ = removeFiles(call(ctx, map[string]string{"path": "*.txt"}))
	if !out.Success {
		t.Fatalf("Expected remove success, got %s", out.Message)
	}
	if _, err := os.Stat(filepath.Join(ctx.Dir, "b.txt")); !os.IsNotExist(err) {
		t.Error("Expected b.txt to be removed")
	}

	out, _ = removeFiles(call(ctx, map[string]string{"path": "*.txt"}))
	if out.Success {
		t.Error("Expected failure when nothing is left to remove")
	}
}

func TestMakeSymlink(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()
	writeTestFile(t, filepath.Join(ctx.Dir, "target"), "x")

	out, _ := makeSymlink(call(ctx, map[string]string{"src": "target", "dst": "link"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	dest, err := os.Readlink(filepath.Join(ctx.Dir, "link"))
	if err != nil {
		t.Fatalf("Readlink failed: %v", err)
	}
	if dest != filepath.Join(ctx.Dir, "target") {
		t.Errorf("Expected link to %s, got %s", filepath.Join(ctx.Dir, "target"), dest)
	}
}

func TestWriteAndAppendPayload(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	write := &models.Call{Context: ctx, Args: map[string]string{"path": "notes.txt"}, Payload: "first", HasPayload: true}
	if out, err := writeFile(write); err != nil || !out.Success {
		t.Fatalf("Expected write success, got %v %v", out, err)
	}
	appendCall := &models.Call{Context: ctx, Args: map[string]string{"path": "notes.txt"}, Payload: "second\nthird", HasPayload: true}
	if out, err := appendFile(appendCall); err != nil || !out.Success {
		t.Fatalf("Expected append success, got %v %v", out, err)
	}

	data, err := os.ReadFile(filepath.Join(ctx.Dir, "notes.txt"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	expected := "first\nsecond\nthird\n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, data)
	}
}

func TestPayloadActionsRequirePayload(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	handlers := map[string]models.Handler{
		"write":  writeFile,
		"append": appendFile,
		"script": shellScript,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			_, err := h(call(ctx, map[string]string{"path": "x"}))
			if err == nil {
				t.Error("Expected fault without payload")
			}
		})
	}
}

func TestShellExec(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	out, err := shellExec(call(ctx, map[string]string{"cmd": "echo hello friend"}))
	if err != nil {
		t.Fatalf("Unexpected fault: %v", err)
	}
	if !out.Success || out.Message != "hello friend" {
		t.Errorf("Expected success with output, got %+v", out)
	}

	out, _ = shellExec(call(ctx, map[string]string{"cmd": "true"}))
	if !out.Success || out.Message != "no error" {
		t.Errorf("Expected 'no error' for silent command, got %+v", out)
	}

	out, _ = shellExec(call(ctx, map[string]string{"cmd": "false"}))
	if out.Success {
		t.Error("Expected failure for non-zero exit")
	}
}

func TestShellExecRunsInContextDir(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	out, _ := shellExec(call(ctx, map[string]string{"cmd": "pwd"}))
	if !out.Success {
		t.Fatalf("Expected success, got %s", out.Message)
	}
	want, _ := filepath.EvalSymlinks(ctx.Dir)
	got, _ := filepath.EvalSymlinks(out.Message)
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestShellScriptPayload(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	c := &models.Call{
		Context:    ctx,
		Args:       map[string]string{"shell": "sh"},
		Payload:    "echo one\necho two",
		HasPayload: true,
	}
	out, err := shellScript(c)
	if err != nil {
		t.Fatalf("Unexpected fault: %v", err)
	}
	if !out.Success || out.Message != "one\ntwo" {
		t.Errorf("Expected script output, got %+v", out)
	}
}

func TestKillProcessInvalidPid(t *testing.T) {
	ctx, cleanup := setupTestDir(t)
	defer cleanup()

	out, err := killProcess(call(ctx, map[string]string{"pid": "abc"}))
	if err != nil {
		t.Fatalf("Unexpected fault: %v", err)
	}
	if out.Success {
		t.Error("Expected failure for invalid pid")
	}
}

func TestInstallWithoutPackages(t *testing.T) {
	out, _ := installPackages(call(&models.ExecutionContext{}, map[string]string{"pkgs": "  "}))
	if out.Success {
		t.Error("Expected failure with empty package list")
	}
	if !strings.Contains(out.Message, "No packages") {
		t.Errorf("Unexpected message: %s", out.Message)
	}
}

func TestWikipediaLink(t *testing.T) {
	got := wikipediaLink(" Go (programming language) ")
	expected := "https://wikipedia.org/wiki/Go_%28programming_language%29"
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestScripts(t *testing.T) {
	tests := []struct {
		name     string
		action   *models.Action
		call     *models.Call
		expected string
	}{
		{"chdir", ChangeDir, &models.Call{Args: map[string]string{"path": "/tmp"}}, "cd '/tmp'"},
		{"mkdir", MakeDir, &models.Call{Args: map[string]string{"path": "it's"}}, `mkdir -p 'it'"'"'s'`},
		{"remove glob", RemoveFiles, &models.Call{Args: map[string]string{"path": "*.tmp"}}, "rm -rf *.tmp"},
		{"shell", ShellExec, &models.Call{Args: map[string]string{"cmd": "make all"}}, "make all"},
		{"install", InstallPackages, &models.Call{Args: map[string]string{"pkgs": "vim  curl"}}, "apt-get install -y vim curl"},
		{
			"write",
			WriteFile,
			&models.Call{Args: map[string]string{"path": "a.ini"}, Payload: "x=1", HasPayload: true},
			"cat > 'a.ini' <<'BUILDOK_EOF'\nx=1\nBUILDOK_EOF",
		},
		{"kill pid", KillProcess, &models.Call{Args: map[string]string{"pid": "42"}}, "kill 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.action.Script(tt.call)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

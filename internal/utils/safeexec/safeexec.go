package safeexec

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LookPath searches for an executable in the directories named by the PATH environment variable.
// It acts as a drop-in replacement for exec.LookPath but avoids using faccessat2 on Linux,
// which causes SIGSYS crashes on some Android/Termux kernels due to seccomp filtering.
func LookPath(file string) (string, error) {
	if strings.Contains(file, string(filepath.Separator)) {
		if isExecutable(file) {
			return file, nil
		}
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, file)
		// os.Stat uses lighter syscalls (fstat) than exec.LookPath (faccessat2)
		if isExecutable(path) {
			return path, nil
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// Available reports whether an executable can be found on PATH
func Available(file string) bool {
	_, err := LookPath(file)
	return err == nil
}

// Command returns the Cmd struct to execute the named program with the given arguments.
// It resolves the executable path with LookPath to prevent SIGSYS crashes on restricted systems.
func Command(name string, arg ...string) *exec.Cmd {
	if path, err := LookPath(name); err == nil {
		return exec.Command(path, arg...)
	}
	// Not found: let exec report the error when the command starts
	return exec.Command(name, arg...)
}

// CommandIn is Command with the working directory set
func CommandIn(dir, name string, arg ...string) *exec.Cmd {
	cmd := Command(name, arg...)
	cmd.Dir = dir
	return cmd
}

// Output runs a program in dir and returns its trimmed combined output
func Output(dir, name string, arg ...string) (string, error) {
	out, err := CommandIn(dir, name, arg...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Shell runs a script through bash, falling back to sh when bash is missing
func Shell(dir, script string) (string, error) {
	shell := "bash"
	if !Available(shell) {
		shell = "sh"
	}
	return Output(dir, shell, "-c", script)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0111 != 0
}

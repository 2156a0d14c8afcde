package actions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/themobileprof/buildok/internal/utils/safeexec"
	"github.com/themobileprof/buildok/pkg/models"
)

func killProcess(call *models.Call) (models.Outcome, error) {
	if name := call.Arg("name"); name != "" {
		out, err := safeexec.Output(call.Context.Dir, "pkill", "-x", name)
		if err != nil {
			return models.Fail("No process named %s was killed: %s", name, orError(out, err)), nil
		}
		return models.Succeed("Killed processes named %s", name), nil
	}

	pid, err := strconv.Atoi(call.Arg("pid"))
	if err != nil {
		return models.Fail("Invalid process id %q", call.Arg("pid")), nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return models.Fail("Process %d not found: %v", pid, err), nil
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return models.Fail("Cannot kill process %d: %v", pid, err), nil
	}
	return models.Succeed("Killed process %d", pid), nil
}

func shellExec(call *models.Call) (models.Outcome, error) {
	out, err := safeexec.Shell(call.Context.Dir, call.Arg("cmd"))
	if err != nil {
		return models.Fail("%s", orError(out, err)), nil
	}
	if out == "" {
		return models.Succeed("no error"), nil
	}
	return models.Succeed("%s", out), nil
}

func shellScript(call *models.Call) (models.Outcome, error) {
	if !call.HasPayload {
		return models.Outcome{}, fmt.Errorf("script requires a payload")
	}

	var (
		out string
		err error
	)
	if shell := call.Arg("shell"); shell != "" {
		out, err = safeexec.Output(call.Context.Dir, shell, "-c", call.Payload)
	} else {
		out, err = safeexec.Shell(call.Context.Dir, call.Payload)
	}
	if err != nil {
		return models.Fail("%s", orError(out, err)), nil
	}
	if out == "" {
		return models.Succeed("no error"), nil
	}
	return models.Succeed("%s", out), nil
}

// serviceCommand returns the command that changes the state of a service
// with the service manager available on this system.
func serviceCommand(verb, srv string) []string {
	if safeexec.Available("systemctl") {
		return []string{"systemctl", verb, srv + ".service"}
	}
	if safeexec.Available("service") {
		return []string{"service", srv, verb}
	}
	return nil
}

func startService(call *models.Call) (models.Outcome, error) {
	srv := call.Arg("srv")
	cmd := serviceCommand("start", srv)
	if cmd == nil {
		return models.Fail("Unsupported OS: no service manager found"), nil
	}
	if out, err := safeexec.Output(call.Context.Dir, cmd[0], cmd[1:]...); err != nil {
		return models.Fail("Service '%s' => failed to start: %s", srv, orError(out, err)), nil
	}
	if cmd[0] == "systemctl" {
		status, err := safeexec.Output(call.Context.Dir, "systemctl", "is-active", srv+".service")
		if err != nil {
			return models.Fail("Service '%s' => %s", srv, orError(status, err)), nil
		}
		return models.Succeed("Service '%s' => %s", srv, status), nil
	}
	return models.Succeed("Service '%s' => started", srv), nil
}

func stopService(call *models.Call) (models.Outcome, error) {
	srv := call.Arg("srv")
	cmd := serviceCommand("stop", srv)
	if cmd == nil {
		return models.Fail("Unsupported OS: no service manager found"), nil
	}
	if out, err := safeexec.Output(call.Context.Dir, cmd[0], cmd[1:]...); err != nil {
		return models.Fail("Service '%s' => failed to stop: %s", srv, orError(out, err)), nil
	}
	return models.Succeed("Service '%s' => stopped", srv), nil
}

// packageManager returns the install command prefix for this system
func packageManager() []string {
	// Termux
	if os.Getenv("TERMUX_VERSION") != "" {
		return []string{"pkg", "install", "-y"}
	}
	switch {
	case safeexec.Available("apt-get"):
		return []string{"apt-get", "install", "-y"}
	case safeexec.Available("dnf"):
		return []string{"dnf", "install", "-y"}
	case safeexec.Available("yum"):
		return []string{"yum", "install", "-y"}
	case safeexec.Available("pacman"):
		return []string{"pacman", "-S", "--noconfirm"}
	case safeexec.Available("apk"):
		return []string{"apk", "add"}
	case safeexec.Available("brew"):
		return []string{"brew", "install"}
	}
	return nil
}

func installPackages(call *models.Call) (models.Outcome, error) {
	packages := strings.Fields(call.Arg("pkgs"))
	if len(packages) == 0 {
		return models.Fail("No packages to install..."), nil
	}
	pm := packageManager()
	if pm == nil {
		return models.Fail("Unsupported OS: no package manager found"), nil
	}

	installed := 0
	var failed []string
	for _, pkg := range packages {
		args := append(append([]string{}, pm[1:]...), pkg)
		if _, err := safeexec.Output(call.Context.Dir, pm[0], args...); err != nil {
			failed = append(failed, pkg)
			continue
		}
		installed++
	}
	if len(failed) > 0 {
		return models.Fail("Failed to install packages: %s", strings.Join(failed, " ")), nil
	}
	return models.Succeed("Installed %d new packages", installed), nil
}

func orError(out string, err error) string {
	if out != "" {
		return out
	}
	return err.Error()
}

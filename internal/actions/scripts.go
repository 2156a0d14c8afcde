package actions

import (
	"fmt"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

// heredocMarker terminates payloads rendered as shell heredocs
const heredocMarker = "BUILDOK_EOF"

// Quote returns s as a single-quoted shell word
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// quoteGlob quotes s unless it holds glob characters the shell must expand
func quoteGlob(s string) string {
	if strings.ContainsAny(s, "*?[") && !strings.ContainsAny(s, " '\"$`;&|") {
		return s
	}
	return Quote(s)
}

func heredoc(prefix, payload string) string {
	return fmt.Sprintf("%s <<'%s'\n%s\n%s", prefix, heredocMarker, strings.TrimSuffix(payload, "\n"), heredocMarker)
}

func changeDirScript(call *models.Call) string {
	return "cd " + Quote(call.Arg("path"))
}

func changeModeScript(call *models.Call) string {
	path := call.Arg("path")
	if path == "" {
		path = "."
	}
	return fmt.Sprintf("chmod %s %s", Quote(call.Arg("mode")), Quote(path))
}

func changeOwnerScript(call *models.Call) string {
	return fmt.Sprintf("chown %s %s", Quote(call.Arg("owner")), Quote(call.Arg("path")))
}

func makeDirScript(call *models.Call) string {
	return "mkdir -p " + Quote(call.Arg("path"))
}

func copyFilesScript(call *models.Call) string {
	return fmt.Sprintf("cp -r %s %s", quoteGlob(call.Arg("src")), Quote(call.Arg("dst")))
}

func moveFilesScript(call *models.Call) string {
	return fmt.Sprintf("mv %s %s", quoteGlob(call.Arg("src")), Quote(call.Arg("dst")))
}

func removeFilesScript(call *models.Call) string {
	return "rm -rf " + quoteGlob(call.Arg("path"))
}

func makeSymlinkScript(call *models.Call) string {
	return fmt.Sprintf("ln -s %s %s", Quote(call.Arg("src")), Quote(call.Arg("dst")))
}

func writeFileScript(call *models.Call) string {
	return heredoc("cat > "+Quote(call.Arg("path")), call.Payload)
}

func appendFileScript(call *models.Call) string {
	return heredoc("cat >> "+Quote(call.Arg("path")), call.Payload)
}

func killProcessScript(call *models.Call) string {
	if name := call.Arg("name"); name != "" {
		return "pkill -x " + Quote(name)
	}
	return "kill " + call.Arg("pid")
}

func shellExecScript(call *models.Call) string {
	return call.Arg("cmd")
}

func shellScriptScript(call *models.Call) string {
	shell := call.Arg("shell")
	if shell == "" {
		shell = "bash"
	}
	return heredoc(shell, call.Payload)
}

func startServiceScript(call *models.Call) string {
	return fmt.Sprintf("systemctl start %s", Quote(call.Arg("srv")+".service"))
}

func stopServiceScript(call *models.Call) string {
	return fmt.Sprintf("systemctl stop %s", Quote(call.Arg("srv")+".service"))
}

func installPackagesScript(call *models.Call) string {
	pkgs := strings.Fields(call.Arg("pkgs"))
	if len(pkgs) == 0 {
		return "echo nothing to install"
	}
	return "apt-get install -y " + strings.Join(pkgs, " ")
}

func openBrowserScript(call *models.Call) string {
	return "xdg-open " + Quote(call.Arg("url"))
}

func wikipediaSearchScript(call *models.Call) string {
	return "xdg-open " + Quote(wikipediaLink(call.Arg("search")))
}

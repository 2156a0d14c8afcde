package actions

import "github.com/themobileprof/buildok/pkg/models"

// Builtin returns a registry holding every built-in action, in match order
func Builtin() *Registry {
	r := New()
	r.MustRegister(
		ChangeDir,
		ChangeMode,
		ChangeOwner,
		MakeDir,
		CopyFiles,
		MoveFiles,
		RemoveFiles,
		MakeSymlink,
		WriteFile,
		AppendFile,
		KillProcess,
		ShellExec,
		ShellScript,
		StartService,
		StopService,
		InstallPackages,
		OpenBrowser,
		WikipediaSearch,
	)
	return r
}

var ChangeDir = &models.Action{
	Name:    "chdir",
	Summary: "Change current working directory.",
	Statements: []string{
		"^go to `(?P<path>[^`]+)`[.?!]$",
		"^change directory to `(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Go to `/tmp`.",
		"change directory to `build`;",
	},
	Handler: changeDir,
	Script:  changeDirScript,
}

var ChangeMode = &models.Action{
	Name:    "chmod",
	Summary: "Change permissions on file or directory.",
	Statements: []string{
		"^change permissions to `(?P<mode>[^`]+)`[.?!]$",
		"^change permissions `(?P<mode>[^`]+)` for `(?P<path>[^`]+)`[.?!]$",
		"^set permissions to `(?P<mode>[^`]+)` for `(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Change permissions to `755`.",
		"change permissions `644` for `README.md`.",
		"Set permissions to `400` for `/tmp/buildok_test.txt`.",
	},
	Handler: changeMode,
	Script:  changeModeScript,
}

var ChangeOwner = &models.Action{
	Name:    "chown",
	Summary: "Change owner and group on file or directory.",
	Statements: []string{
		"^change (?:file )?owner to `(?P<owner>[^`]+)` on `(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Change file owner to `root:root` on `/srv/app`.",
	},
	Handler: changeOwner,
	Script:  changeOwnerScript,
}

var MakeDir = &models.Action{
	Name:    "mkdir",
	Summary: "Make a directory or make recursive directories.",
	Statements: []string{
		"^create (?:folder|directory) `(?P<path>[^`]+)`[.?!]$",
		"^make new (?:folder|directory) `(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Create folder `buildok_test_folder`.",
		"make new directory `dist/assets`;",
	},
	Handler: makeDir,
	Script:  makeDirScript,
}

var CopyFiles = &models.Action{
	Name:    "copy",
	Summary: "Copy files from a given source to a given destination.",
	Statements: []string{
		"^copy from `(?P<src>[^`]+)` to `(?P<dst>[^`]+)`[.?!]$",
		"^copy `(?P<src>[^`]+)` files to `(?P<dst>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Copy from `config.example` to `config.ini`.",
		"copy `*.so` files to `/usr/local/lib`.",
	},
	Handler: copyFiles,
	Script:  copyFilesScript,
}

var MoveFiles = &models.Action{
	Name:    "move",
	Summary: "Move files from a given source to a given destination.",
	Statements: []string{
		"^move from `(?P<src>[^`]+)` to `(?P<dst>[^`]+)`[.?!]$",
		"^move `(?P<src>[^`]+)` files to `(?P<dst>[^`]+)`[.?!]$",
		"^rename `(?P<src>[^`]+)` to `(?P<dst>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Move from `build/app` to `/usr/local/bin/app`.",
		"move `*.log` files to `logs`.",
		"Rename `a.txt` to `b.txt`.",
	},
	Handler: moveFiles,
	Script:  moveFilesScript,
}

var RemoveFiles = &models.Action{
	Name:    "remove",
	Summary: "Remove files or directories matching a path pattern.",
	Statements: []string{
		"^remove `(?P<path>[^`]+)`[.?!]$",
		"^delete `(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Remove `build`.",
		"delete `*.tmp`?",
	},
	Handler: removeFiles,
	Script:  removeFilesScript,
}

var MakeSymlink = &models.Action{
	Name:    "symlink",
	Summary: "Create a symbolic link pointing to a source.",
	Statements: []string{
		"^(?:create|make) (?:a )?symlink from `(?P<src>[^`]+)` to `(?P<dst>[^`]+)`[.?!]$",
		"^link `(?P<src>[^`]+)` to `(?P<dst>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Create symlink from `/opt/app/current` to `/usr/local/bin/app`.",
		"link `python3` to `python`.",
	},
	Handler: makeSymlink,
	Script:  makeSymlinkScript,
}

var WriteFile = &models.Action{
	Name:    "write",
	Summary: "Write the step payload to a file, replacing its content.",
	Statements: []string{
		"^write (?:the following )?to (?:file )?`(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Write the following to file `config.ini`:",
	},
	NeedsPayload: true,
	Handler:      writeFile,
	Script:       writeFileScript,
}

var AppendFile = &models.Action{
	Name:    "append",
	Summary: "Append the step payload to a file.",
	Statements: []string{
		"^append (?:the following )?to (?:file )?`(?P<path>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Append to `~/.profile`:",
	},
	NeedsPayload: true,
	Handler:      appendFile,
	Script:       appendFileScript,
}

var KillProcess = &models.Action{
	Name:    "kill",
	Summary: "Terminate a process by id or by name.",
	Statements: []string{
		"^kill process `(?P<pid>\\d+)`[.?!]$",
		"^stop process `(?P<pid>\\d+)`[.?!]$",
		"^kill processes named `(?P<name>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Kill process `4242`.",
		"stop process `4242`.",
		"Kill processes named `node`.",
	},
	Handler: killProcess,
	Script:  killProcessScript,
}

var ShellExec = &models.Action{
	Name:    "shell",
	Summary: "Run a command in shell.",
	Statements: []string{
		"^run `(?P<cmd>.+)`[.?!]$",
		"^execute `(?P<cmd>.+)`[.?!]$",
	},
	Samples: []string{
		"Run `echo hello friend how are you`.",
		"execute `make all`;",
	},
	Handler: shellExec,
	Script:  shellExecScript,
}

var ShellScript = &models.Action{
	Name:    "script",
	Summary: "Run the step payload as a shell script.",
	Statements: []string{
		"^run (?:the following|this) script[.?!]$",
		"^run (?:the following|this) script with `(?P<shell>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Run the following script:",
		"run this script with `sh`:",
	},
	NeedsPayload: true,
	Handler:      shellScript,
	Script:       shellScriptScript,
}

var StartService = &models.Action{
	Name:    "service-start",
	Summary: "Start a system service.",
	Statements: []string{
		"^start service `(?P<srv>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Start service `nginx`.",
	},
	Handler: startService,
	Script:  startServiceScript,
}

var StopService = &models.Action{
	Name:    "service-stop",
	Summary: "Stop a running system service.",
	Statements: []string{
		"^stop service `(?P<srv>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Stop service `nginx`.",
	},
	Handler: stopService,
	Script:  stopServiceScript,
}

var InstallPackages = &models.Action{
	Name:    "install",
	Summary: "Install new software package(s) with the system package manager.",
	Statements: []string{
		"^install `(?P<pkgs>[^`]+)`[.?!]$",
		"^install packages `(?P<pkgs>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Install `vim curl`.",
		"install packages `git`.",
	},
	Handler: installPackages,
	Script:  installPackagesScript,
}

var OpenBrowser = &models.Action{
	Name:    "web",
	Summary: "Open a link in the default browser.",
	Statements: []string{
		"^open (?:url|link|page) `(?P<url>[^`]+)`[.?!]$",
		"^browse `(?P<url>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Open url `http://localhost:8080`.",
		"browse `https://github.com`.",
	},
	Handler: openBrowser,
	Script:  openBrowserScript,
}

var WikipediaSearch = &models.Action{
	Name:    "wikipedia",
	Summary: "Open a Wikipedia search in default browser.",
	Statements: []string{
		"^wiki(?:pedia)? `(?P<search>[^`]+)`[.?!]$",
	},
	Samples: []string{
		"Wikipedia `buildok`.",
	},
	Handler: wikipediaSearch,
	Script:  wikipediaSearchScript,
}

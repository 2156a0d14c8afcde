package actions

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

func changeDir(call *models.Call) (models.Outcome, error) {
	path := call.Path("path")
	info, err := os.Stat(path)
	if err != nil {
		return models.Fail("Cannot change directory to %s: %v", path, err), nil
	}
	if !info.IsDir() {
		return models.Fail("Not a directory: %s", path), nil
	}
	call.Context.Dir = path
	return models.Succeed("Changed directory to %s", path), nil
}

func changeMode(call *models.Call) (models.Outcome, error) {
	mode, err := strconv.ParseUint(call.Arg("mode"), 8, 32)
	if err != nil {
		return models.Fail("Invalid permissions %q: expected octal digits", call.Arg("mode")), nil
	}
	path := call.Path("path")
	if path == "" {
		path = call.Context.Dir
	}
	if err := os.Chmod(path, os.FileMode(mode)); err != nil {
		return models.Fail("Cannot change permissions on %s: %v", path, err), nil
	}
	return models.Succeed("Changed permissions %04o => %s", mode, path), nil
}

func changeOwner(call *models.Call) (models.Outcome, error) {
	owner, group, _ := strings.Cut(call.Arg("owner"), ":")
	path := call.Path("path")

	u, err := user.Lookup(owner)
	if err != nil {
		return models.Fail("Unknown user %s: %v", owner, err), nil
	}
	uid, _ := strconv.Atoi(u.Uid)
	gid, _ := strconv.Atoi(u.Gid)
	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			return models.Fail("Unknown group %s: %v", group, err), nil
		}
		gid, _ = strconv.Atoi(g.Gid)
	} else {
		group = u.Gid
	}

	if err := os.Chown(path, uid, gid); err != nil {
		return models.Fail("Cannot change owner of %s: %v", path, err), nil
	}
	return models.Succeed("Changed owner and group %s:%s => %s", owner, group, path), nil
}

func makeDir(call *models.Call) (models.Outcome, error) {
	path := call.Path("path")
	if _, err := os.Stat(path); err == nil {
		return models.Fail("Path already exists: %s", path), nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return models.Fail("Cannot create directory %s: %v", path, err), nil
	}
	return models.Succeed("Created new directory => %s", call.Arg("path")), nil
}

func copyFiles(call *models.Call) (models.Outcome, error) {
	matches, err := filepath.Glob(call.Path("src"))
	if err != nil {
		return models.Fail("Bad source pattern %s: %v", call.Arg("src"), err), nil
	}
	if len(matches) == 0 {
		return models.Fail("Nothing to copy from %s", call.Arg("src")), nil
	}

	dst := call.Path("dst")
	files, folders := 0, 0
	for _, item := range matches {
		info, err := os.Stat(item)
		if err != nil {
			return models.Fail("Cannot read %s: %v", item, err), nil
		}
		target := destination(item, dst, len(matches) > 1)
		if info.IsDir() {
			if err := copyTree(item, target); err != nil {
				return models.Fail("Cannot copy %s: %v", item, err), nil
			}
			folders++
			continue
		}
		if err := copyFile(item, target, info.Mode()); err != nil {
			return models.Fail("Cannot copy %s: %v", item, err), nil
		}
		files++
	}
	return models.Succeed("Copied %d files and %d folders", files, folders), nil
}

func moveFiles(call *models.Call) (models.Outcome, error) {
	matches, err := filepath.Glob(call.Path("src"))
	if err != nil {
		return models.Fail("Bad source pattern %s: %v", call.Arg("src"), err), nil
	}
	if len(matches) == 0 {
		return models.Fail("Nothing to move from %s", call.Arg("src")), nil
	}

	dst := call.Path("dst")
	for _, item := range matches {
		if err := os.Rename(item, destination(item, dst, len(matches) > 1)); err != nil {
			return models.Fail("Cannot move %s: %v", item, err), nil
		}
	}
	return models.Succeed("Moved %d items to %s", len(matches), call.Arg("dst")), nil
}

func removeFiles(call *models.Call) (models.Outcome, error) {
	matches, err := filepath.Glob(call.Path("path"))
	if err != nil {
		return models.Fail("Bad path pattern %s: %v", call.Arg("path"), err), nil
	}
	if len(matches) == 0 {
		return models.Fail("Nothing to remove at %s", call.Arg("path")), nil
	}
	for _, item := range matches {
		if err := os.RemoveAll(item); err != nil {
			return models.Fail("Cannot remove %s: %v", item, err), nil
		}
	}
	return models.Succeed("Removed %d items", len(matches)), nil
}

func makeSymlink(call *models.Call) (models.Outcome, error) {
	src, dst := call.Path("src"), call.Path("dst")
	if err := os.Symlink(src, dst); err != nil {
		return models.Fail("Cannot link %s: %v", dst, err), nil
	}
	return models.Succeed("Linked %s => %s", dst, src), nil
}

func writeFile(call *models.Call) (models.Outcome, error) {
	if !call.HasPayload {
		return models.Outcome{}, fmt.Errorf("write requires a payload")
	}
	path := call.Path("path")
	if err := os.WriteFile(path, []byte(withNewline(call.Payload)), 0644); err != nil {
		return models.Fail("Cannot write %s: %v", path, err), nil
	}
	return models.Succeed("Wrote %d bytes => %s", len(withNewline(call.Payload)), call.Arg("path")), nil
}

func appendFile(call *models.Call) (models.Outcome, error) {
	if !call.HasPayload {
		return models.Outcome{}, fmt.Errorf("append requires a payload")
	}
	path := call.Path("path")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return models.Fail("Cannot open %s: %v", path, err), nil
	}
	defer f.Close()

	data := withNewline(call.Payload)
	if _, err := f.WriteString(data); err != nil {
		return models.Fail("Cannot append to %s: %v", path, err), nil
	}
	return models.Succeed("Appended %d bytes => %s", len(data), call.Arg("path")), nil
}

// destination returns where item lands when copied or moved to dst. An
// existing directory, or several sources, put the item inside dst.
func destination(item, dst string, many bool) string {
	if info, err := os.Stat(dst); (err == nil && info.IsDir()) || many {
		return filepath.Join(dst, filepath.Base(item))
	}
	return dst
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode())
		}
	})
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

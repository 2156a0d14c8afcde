package actions

import (
	"net/url"
	"runtime"
	"strings"

	"github.com/themobileprof/buildok/internal/utils/safeexec"
	"github.com/themobileprof/buildok/pkg/models"
)

const wikipediaURL = "https://wikipedia.org/wiki/"

func browserCommand(link string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", link}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", link}
	default:
		return []string{"xdg-open", link}
	}
}

func openLink(dir, link string) error {
	args := browserCommand(link)
	cmd := safeexec.CommandIn(dir, args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

func openBrowser(call *models.Call) (models.Outcome, error) {
	link := call.Arg("url")
	if err := openLink(call.Context.Dir, link); err != nil {
		return models.Fail("Cannot open \"%s\": %v", link, err), nil
	}
	return models.Succeed("Opened %s", link), nil
}

func wikipediaLink(search string) string {
	return wikipediaURL + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(search), " ", "_"))
}

func wikipediaSearch(call *models.Call) (models.Outcome, error) {
	link := wikipediaLink(call.Arg("search"))
	if err := openLink(call.Context.Dir, link); err != nil {
		return models.Fail("Cannot open \"%s\": %v", link, err), nil
	}
	return models.Succeed("Wikipedia results => %s", link), nil
}

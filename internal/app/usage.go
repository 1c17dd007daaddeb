package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"
)

// Version is set at compile time
var Version = ""

const (
	Owner = "pingware"
	Repo  = "portping"
)

// PrintUsage prints how portping should be run
func PrintUsage() {
	executableName := os.Args[0]

	fmt.Printf("\nportping version %s\n\n", Version)
	fmt.Printf("Try running %s like:\n", executableName)
	fmt.Printf("%s <hostname/ip>. For example:\n", executableName)
	fmt.Printf("%s -p 443 www.example.com\n", executableName)
	fmt.Printf("\n[optional flags]\n")

	flag.VisitAll(func(f *flag.Flag) {
		flagName := f.Name
		if len(f.Name) > 1 {
			flagName = "-" + flagName
		}

		fmt.Printf("  -%s : %s\n", flagName, f.Usage)
	})
}

func compareVersions(v1, v2 string) (int, error) {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := 0; i < min(len(parts1), len(parts2)); i++ {
		n1, err := strconv.Atoi(parts1[i])
		if err != nil {
			return 0, fmt.Errorf("malformed version %q: %w", v1, err)
		}
		n2, err := strconv.Atoi(parts2[i])
		if err != nil {
			return 0, fmt.Errorf("malformed version %q: %w", v2, err)
		}

		if n1 < n2 {
			return -1, nil
		}
		if n1 > n2 {
			return 1, nil
		}
	}

	// for cases in which version numbers differ in length
	if len(parts1) < len(parts2) {
		return -1, nil
	}

	if len(parts1) > len(parts2) {
		return 1, nil
	}

	return 0, nil
}

// PrintVersion displays the version
func PrintVersion() {
	fmt.Printf("portping version %s\n", Version)
}

// CheckForUpdates checks for newer versions of portping and returns update message
func CheckForUpdates() (string, error) {
	c := github.NewClient(nil)

	// unauthenticated requests from the same IP are limited to 60 per hour
	latestRelease, _, err := c.Repositories.GetLatestRelease(context.Background(), Owner, Repo)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	reg := `^v?(\d+\.\d+\.\d+)$`
	latestTagName := latestRelease.GetTagName()
	latestVersion := regexp.MustCompile(reg).FindStringSubmatch(latestTagName)

	if len(latestVersion) == 0 {
		return "", fmt.Errorf("version name does not match expected format: %s", latestTagName)
	}

	comparison, err := compareVersions(Version, latestVersion[1])
	if err != nil {
		return "", err
	}

	switch comparison {
	case -1:
		return fmt.Sprintf("Found newer version %s\nPlease update portping from the URL below:\nhttps://github.com/%s/%s/releases/tag/%s",
			latestVersion[1], Owner, Repo, latestTagName), nil
	case 1:
		return fmt.Sprintf("Current version %s is newer than the latest release %s",
			Version, latestVersion[1]), nil
	case 0:
		return fmt.Sprintf("portping is on the latest version: %s", Version), nil
	}

	return "", fmt.Errorf("unexpected version comparison result")
}

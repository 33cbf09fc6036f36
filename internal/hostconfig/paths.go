// Package hostconfig locates, reads, merges, and writes the AgentDeck
// desktop application's configuration file.
//
// The file is owned by the host application. This package only amends its
// provider registry and carries every other top-level key through untouched.
package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDirName     = "AgentDeck"
	configFileName = "agentdeck_config.json"
)

// ErrUnsupportedOS is returned when the host operating system has no known
// configuration location. The provisioner never guesses.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Locate returns the OS-conventional path of the AgentDeck configuration
// file. It is a pure function of the host OS identity and environment.
func Locate() (string, error) {
	return locateFor(runtime.GOOS, os.Getenv)
}

func locateFor(goos string, getenv func(string) string) (string, error) {
	switch goos {
	case "darwin":
		home := getenv("HOME")
		if home == "" {
			return "", errors.New("HOME is not set")
		}
		return filepath.Join(home, "Library", "Application Support", appDirName, configFileName), nil

	case "windows":
		appData := getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, appDirName, configFileName), nil

	case "linux":
		configHome := getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home := getenv("HOME")
			if home == "" {
				return "", errors.New("HOME is not set")
			}
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appDirName, configFileName), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

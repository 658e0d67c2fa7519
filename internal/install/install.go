// Package install places generated theme JSON where the editor loads it
// from, and knows the editor's per-platform configuration directory.
package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// InstallError wraps failures while writing a theme into the editor's
// configuration. Path is the location the write was aimed at.
type InstallError struct {
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing theme to %s: %v", e.Path, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Env looks up an environment variable, reporting whether it is set.
// Split out so directory resolution stays a pure function under test.
type Env func(key string) (string, bool)

// ConfigDir resolves the editor's configuration directory for the given
// platform. On Windows this is %APPDATA%\Zed. Elsewhere it honors the
// Flatpak and XDG overrides before falling back to ~/.config, with "zed"
// appended.
func ConfigDir(goos string, env Env) (string, error) {
	if goos == "windows" {
		appData, ok := env("APPDATA")
		if !ok || appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, "Zed"), nil
	}

	for _, key := range []string{"FLATPAK_XDG_CONFIG_HOME", "XDG_CONFIG_HOME"} {
		if dir, ok := env(key); ok && dir != "" {
			return filepath.Join(dir, "zed"), nil
		}
	}

	home, ok := env("HOME")
	if !ok || home == "" {
		return "", errors.New("HOME is not set")
	}
	return filepath.Join(home, ".config", "zed"), nil
}

// ThemesDir resolves the editor's theme directory on this machine.
func ThemesDir() (string, error) {
	dir, err := ConfigDir(runtime.GOOS, os.LookupEnv)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// DefaultOutputPath maps a source file to its default generated location:
// a generated/ directory next to the working directory, with the markup
// extension swapped for .json.
func DefaultOutputPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join("generated", base+".json")
}

// Install writes the serialized theme into dir under the family name,
// creating the directory if needed. The write is atomic: a rename of a
// temp file in the same directory, so the editor never observes a
// half-written theme.
func Install(dir, familyName string, data []byte) (string, error) {
	target := filepath.Join(dir, themeFileName(familyName))
	if err := WriteFileAtomic(target, data); err != nil {
		return "", &InstallError{Path: target, Err: err}
	}
	return target, nil
}

// WriteFileAtomic writes data to path via a temp file and rename,
// creating parent directories as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// themeFileName turns a family name into a safe file name.
func themeFileName(familyName string) string {
	name := strings.ToLower(strings.TrimSpace(familyName))
	name = strings.ReplaceAll(name, " ", "-")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "theme.json"
	}
	return b.String() + ".json"
}

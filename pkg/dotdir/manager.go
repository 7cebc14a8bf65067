// Package dotdir manages the graphchat home: the directory holding
// config.toml and state.json, the last session the CLI initialized so that
// later commands can ask follow-up questions without repeating the session
// id.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of a local or per-user graphchat directory.
	dirName = ".graphchat"

	// HomeEnv names an explicit graphchat home. It applies when no
	// --config-dir is given and takes precedence over ./.graphchat.
	HomeEnv = "GRAPHCHAT_HOME"
)

// Source records which rule picked a Location.
type Source string

const (
	SourceFlag  Source = "--config-dir"
	SourceEnv   Source = HomeEnv
	SourceLocal Source = "./" + dirName
	SourceHome  Source = "~/" + dirName
)

// Location is a resolved graphchat home.
type Location struct {
	Path   string
	Source Source
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Resolve picks the graphchat home and creates it when missing.
// Order of precedence is as follows:
//  1. Provided override (--config-dir)
//  2. $GRAPHCHAT_HOME
//  3. Local ./.graphchat/ dir, when it already exists
//  4. Home ~/.graphchat/ dir
func (m *Manager) Resolve(overrideDir string) (Location, error) {
	loc, err := m.pick(overrideDir)
	if err != nil {
		return Location{}, err
	}

	if err := os.MkdirAll(loc.Path, 0o755); err != nil {
		return Location{}, fmt.Errorf("creating graphchat directory %s: %w", loc.Path, err)
	}

	abs, err := filepath.Abs(loc.Path)
	if err != nil {
		return Location{}, err
	}
	loc.Path = abs
	return loc, nil
}

// Target returns the absolute path of the resolved graphchat home.
func (m *Manager) Target(overrideDir string) (string, error) {
	loc, err := m.Resolve(overrideDir)
	return loc.Path, err
}

func (m *Manager) pick(overrideDir string) (Location, error) {
	if overrideDir != "" {
		return Location{Path: overrideDir, Source: SourceFlag}, nil
	}

	if env := os.Getenv(HomeEnv); env != "" {
		return Location{Path: env, Source: SourceEnv}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Location{}, fmt.Errorf("getting current directory: %w", err)
	}
	if info, err := os.Stat(filepath.Join(cwd, dirName)); err == nil && info.IsDir() {
		return Location{Path: filepath.Join(cwd, dirName), Source: SourceLocal}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Location{}, fmt.Errorf("getting home directory: %w", err)
	}
	return Location{Path: filepath.Join(home, dirName), Source: SourceHome}, nil
}

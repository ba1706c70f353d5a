// Package storage persists small application preferences: recently
// opened scene files and the colormap assignment per product family.
// Scene geometry, selection, and playhead state are deliberately never
// persisted.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/timeline"
	"github.com/polarhour/frameline/internal/validate"
)

// recentLimit caps the recent-scenes list.
const recentLimit = 10

// Data represents the structure of the preferences file.
type Data struct {
	RecentSceneList []string          `json:"recent_scenes,omitempty" validate:"omitempty,dive,filepath"`
	FamilyColormaps map[string]string `json:"family_colormaps,omitempty"`
}

// Storage handles the loading and saving of the preferences file.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Data
}

// NewStorage creates a Storage instance rooted at path, loading any
// existing file. A missing file is not an error.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		Path: expandedPath,
		Data: Data{
			FamilyColormaps: make(map[string]string),
		},
	}
	if err := s.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

// Load reads and validates the preferences file, dropping entries that
// no longer validate rather than failing.
func (s *Storage) Load() error {
	logrus.Debug("Loading preferences file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.FamilyColormaps == nil {
		s.Data.FamilyColormaps = make(map[string]string)
	}
	if err := validate.Struct(s.Data); err != nil {
		logrus.Warn("Invalid entries in preferences; dropping recent-scene list.")
		s.Data.RecentSceneList = nil
	}
	return nil
}

// Save writes the preferences to disk, creating parent directories as
// needed.
func (s *Storage) Save() error {
	logrus.Debug("Saving preferences file to: ", s.Path)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// TouchRecentScene moves path to the front of the recent-scenes list.
func (s *Storage) TouchRecentScene(path string) {
	out := []string{path}
	for _, p := range s.Data.RecentSceneList {
		if p != path && len(out) < recentLimit {
			out = append(out, p)
		}
	}
	s.Data.RecentSceneList = out
}

// ApplyColormap implements timeline.ColormapApplier by recording the
// assignment per family, so reopened scenes can restore it. The actual
// pixel-side effect belongs to the rendering engine.
func (s *Storage) ApplyColormap(tracks []*timeline.Track, colormap string) {
	for _, tr := range tracks {
		family, ok := tr.Metadata().Lookup(timeline.FamilyKey)
		if !ok {
			continue
		}
		s.Data.FamilyColormaps[family.Str()] = colormap
	}
	if err := s.Save(); err != nil {
		logrus.WithError(err).Warn("failed to persist colormap assignment")
	}
}

// RestoreColormaps reapplies persisted family colormaps to a scene.
func (s *Storage) RestoreColormaps(scene *timeline.Scene) {
	for _, tr := range scene.Tracks() {
		family, ok := tr.Metadata().Lookup(timeline.FamilyKey)
		if !ok {
			continue
		}
		if cm, ok := s.Data.FamilyColormaps[family.Str()]; ok && cm != "" {
			tr.SetColormap(cm)
		}
	}
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

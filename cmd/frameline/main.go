package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/polarhour/frameline/internal/catalog"
	"github.com/polarhour/frameline/internal/storage"
	"github.com/polarhour/frameline/internal/timeline"
	"github.com/polarhour/frameline/internal/tui"
	"github.com/polarhour/frameline/internal/validate"
	"github.com/polarhour/frameline/internal/workspace"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	prefsFile  = "~/.config/frameline/prefs.json"
	verbose    bool
	catalogURL string

	rootCmd = &cobra.Command{
		Use:   "frameline",
		Short: "An interactive, zoomable timeline viewer for time-ordered imagery products.",
		Long:  `frameline lays out tracks of timed frames on a shared time axis and lets you zoom, pan, reorder tracks, select, and step the playhead between frame boundaries. Scenes are described in YAML workspace files; frame display states can be refreshed live from a product catalog.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for layout --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&prefsFile, "prefs", prefsFile, "Path to the preferences file")

	viewCmd.Flags().StringVar(&catalogURL, "catalog", "", "Optional: product catalog base URL for live frame states")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(recentCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// loadScene loads a workspace definition, builds the scene, and
// restores persisted per-family colormaps.
func loadScene(path string, st *storage.Storage) (*workspace.SceneDef, *timeline.Scene, error) {
	def, err := workspace.Load(path)
	if err != nil {
		return nil, nil, err
	}
	scene, err := def.Build()
	if err != nil {
		return nil, nil, err
	}
	st.RestoreColormaps(scene)
	scene.SetColormapApplier(st)
	return def, scene, nil
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var viewCmd = &cobra.Command{
	Use:   "view SCENE_FILE",
	Short: "Open a scene file in the interactive timeline viewer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		st, err := storage.NewStorage(prefsFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create preferences: %v", err)
		}

		def, scene, err := loadScene(args[0], st)
		if err != nil {
			logrus.Fatal(err)
		}
		st.TouchRecentScene(args[0])
		if err := st.Save(); err != nil {
			logrus.WithError(err).Warn("failed to persist recent-scene list")
		}

		// An unreachable catalog degrades to static states at poll time,
		// so only a malformed URL is worth refusing here.
		var states catalog.StateSource
		if catalogURL != "" {
			if err := validate.Var(catalogURL, "url"); err != nil {
				logrus.Fatalf("Invalid catalog URL: %q. Expected a base URL (example: https://catalog.example.com).", catalogURL)
			}
			cl, err := catalog.NewClient(catalogURL)
			if err != nil {
				logrus.Fatal(err)
			}
			states = cl
		}

		if err := tui.Run(def.Title, scene, states); err != nil {
			logrus.Fatalf("Timeline viewer failed: %v", err)
		}
	},
}

// layoutJSON is the machine-readable geometry dump for one track.
type layoutJSON struct {
	Title  string          `json:"title"`
	Z      int             `json:"z"`
	Anchor timeline.Point  `json:"anchor"`
	Bounds timeline.Rect   `json:"bounds"`
	Frames []frameGeomJSON `json:"frames"`
}

type frameGeomJSON struct {
	Title  string        `json:"title,omitempty"`
	State  string        `json:"state"`
	Pos    float64       `json:"pos"`
	Bounds timeline.Rect `json:"bounds"`
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var layoutCmd = &cobra.Command{
	Use:   "layout SCENE_FILE",
	Short: "Print the computed scene geometry as JSON without opening the viewer",
	Long:  "Build the scene and emit every track's anchor, bounds, and per-frame positions in scene coordinates. Useful for debugging workspace files and for driving external renderers.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		st, err := storage.NewStorage(prefsFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create preferences: %v", err)
		}
		_, scene, err := loadScene(args[0], st)
		if err != nil {
			logrus.Fatal(err)
		}

		out := make([]layoutJSON, 0, scene.Len())
		for _, tr := range scene.Tracks() {
			entry := layoutJSON{Title: tr.Title(), Z: tr.Z()}
			if anchor, ok := tr.Anchor(); ok {
				entry.Anchor = anchor
			}
			if bounds, ok := tr.Bounds(); ok {
				entry.Bounds = bounds
			}
			for _, f := range tr.Frames() {
				entry.Frames = append(entry.Frames, frameGeomJSON{
					Title:  f.Title(),
					State:  f.State().String(),
					Pos:    f.Pos(),
					Bounds: f.Bounds(),
				})
			}
			out = append(out, entry)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var discoverCmd = &cobra.Command{
	Use:   "discover [DIR]",
	Short: "Find scene files under a directory. [Defaults to the current directory]",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		found, err := workspace.Discover(cmd.Context(), root)
		if err != nil {
			logrus.Fatal(err)
		}
		for _, p := range found {
			fmt.Fprintln(os.Stdout, p)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened scene files",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := storage.NewStorage(prefsFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if len(st.Data.RecentSceneList) == 0 {
			fmt.Fprintln(os.Stdout, "No recent scenes")
			return
		}
		for _, p := range st.Data.RecentSceneList {
			fmt.Fprintln(os.Stdout, p)
		}
	},
}

func main() {
	Execute()
}

package batch

import (
	"encoding/json"
	"os"

	"foveal-renderer/internal/mathutil"
)

// ManifestEntry represents one frame in the output manifest. Matrices are
// row-major.
type ManifestEntry struct {
	Index      int           `json:"index"`
	Image      string        `json:"image,omitempty"`
	Gaze       [2]float64    `json:"gaze"`
	Rotation   [2]float64    `json:"rotation"`
	FocusMM    float64       `json:"focus_mm,omitempty"`
	Model      mathutil.Mat4 `json:"model"`
	View       mathutil.Mat4 `json:"view"`
	Projection mathutil.Mat4 `json:"projection"`
	Error      string        `json:"error,omitempty"`
}

// WriteManifest writes the per-frame gaze and matrices to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Index:      r.Index,
			Image:      r.Image,
			Gaze:       [2]float64{r.Gaze.X, r.Gaze.Y},
			Rotation:   [2]float64{r.State.Rotation.X, r.State.Rotation.Y},
			FocusMM:    r.Focus,
			Model:      r.Matrices.Model,
			View:       r.Matrices.View,
			Projection: r.Matrices.Projection,
			Error:      r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

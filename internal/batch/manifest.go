package batch

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/finclean-cli/internal/utils"
)

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"

// Manifest records one batch run.
type Manifest struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	OutputDir  string          `json:"output_dir"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Tables     []ManifestEntry `json:"tables"`
}

// ManifestEntry is the per-table line of a Manifest.
type ManifestEntry struct {
	Source     string `json:"source"`
	Output     string `json:"output,omitempty"`
	Report     string `json:"report,omitempty"`
	RowsIn     int    `json:"rows_in"`
	ColsIn     int    `json:"cols_in"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewManifest summarizes results under a fresh run ID.
func NewManifest(outDir string, started, finished time.Time, results []Result) Manifest {
	m := Manifest{
		RunID:      uuid.NewString(),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		OutputDir:  outDir,
		Tables:     make([]ManifestEntry, 0, len(results)),
	}
	for _, r := range results {
		e := ManifestEntry{
			Source:     r.Source,
			Output:     r.Output,
			Report:     r.Report,
			RowsIn:     r.Stats.InputRows,
			ColsIn:     r.Stats.InputCols,
			Rows:       r.Stats.OutputRows,
			Cols:       r.Stats.OutputCols,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
			m.Failed++
		} else {
			m.Succeeded++
		}
		m.Tables = append(m.Tables, e)
	}
	return m
}

// Save writes the manifest as manifest.json in its output directory and
// returns the path.
func (m Manifest) Save() (string, error) {
	path := filepath.Join(m.OutputDir, ManifestFile)
	return path, utils.WriteJSON(path, m)
}

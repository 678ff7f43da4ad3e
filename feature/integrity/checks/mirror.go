package checks

import (
	"os"
	"path/filepath"
	"time"
)

// FileReport describes one mirror document on disk.
type FileReport struct {
	Name       string     `json:"name"`
	Present    bool       `json:"present"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	Stale      bool       `json:"stale"`
}

// MirrorReport is the result of the mirror directory check.
type MirrorReport struct {
	Dir    string       `json:"dir"`
	Status string       `json:"status"`
	Files  []FileReport `json:"files"`
}

// CheckMirror verifies that every named file exists in dir and was
// modified within maxAge of now.
func CheckMirror(dir string, names []string, maxAge time.Duration, now time.Time) MirrorReport {
	report := MirrorReport{Dir: dir, Status: StatusOK, Files: make([]FileReport, 0, len(names))}

	for _, name := range names {
		fr := FileReport{Name: name}
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && info.Mode().IsRegular() {
			mod := info.ModTime()
			fr.Present = true
			fr.ModifiedAt = &mod
			fr.Stale = now.Sub(mod) > maxAge
		}
		if !fr.Present || fr.Stale {
			report.Status = StatusError
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

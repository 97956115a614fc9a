package views

import (
	"fmt"
	"os"
	"path/filepath"
)

// PointFile is the session's data file: truncated once when the session
// starts, then appended to one row at a time. No handle is held between
// writes so the renderer always reads a complete file.
type PointFile struct {
	path string
}

// NewPointFile creates (or truncates) the file at path, making parent
// directories as needed.
func NewPointFile(path string) (*PointFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}
	return &PointFile{path: path}, nil
}

// Append opens the file, writes line as-is and closes it again.
func (p *PointFile) Append(line string) error {
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("append %s: %w", p.path, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", p.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append %s: %w", p.path, err)
	}
	return nil
}

// Path returns the data file location.
func (p *PointFile) Path() string {
	return p.path
}

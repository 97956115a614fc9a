package controller

import (
	"fmt"
	"sync/atomic"

	"fgplot/utils"
	"fgplot/views"
)

// RecordingController is the point recorder stage. It owns the session's
// data file and appends one row per recordable point.
type RecordingController struct {
	file        *views.PointFile
	rowsWritten atomic.Uint64
}

// NewRecordingController truncates the data file at path.
func NewRecordingController(path string) (*RecordingController, error) {
	f, err := views.NewPointFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	utils.L().Info("recording controller ready  data=%s", path)
	return &RecordingController{file: f}, nil
}

// Record appends line to the data file. A failed append is not retried.
func (rc *RecordingController) Record(line string) error {
	if err := rc.file.Append(line); err != nil {
		return fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	rc.rowsWritten.Add(1)
	return nil
}

// DataFile returns the path of the data file.
func (rc *RecordingController) DataFile() string {
	return rc.file.Path()
}

// RowsWritten returns the number of rows persisted. Safe to call from the
// stats goroutine.
func (rc *RecordingController) RowsWritten() uint64 {
	return rc.rowsWritten.Load()
}

package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SessionName returns a per-session tag:
//
//	<prefix>_YYYYMMDD_HHMMSS
func SessionName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, t.Format("20060102_150405"))
}

// NamespacedPath inserts tag between the stem and the extension of path,
// so "runs/pos.txt" becomes "runs/pos_<tag>.txt".
func NamespacedPath(path, tag string) string {
	if tag == "" {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "_" + tag + ext
}

package views

import (
	"os"
	"path/filepath"
	"testing"

	"fgplot/models"
)

func TestPlotCommand(t *testing.T) {
	tests := []struct {
		name string
		plot models.PlotSpec
		want string
	}{
		{
			"bare file",
			nil,
			`splot "pos.txt"`,
		},
		{
			"one series",
			models.PlotSpec{{Title: "Flight path", Using: "1:2:3"}},
			`splot "pos.txt" using 1:2:3 title "Flight path" with lines`,
		},
		{
			"two series repeat the file",
			models.PlotSpec{{Title: "Flight path", Using: "1:2:3"}, {Title: "Ground elevation", Using: "1:2:4"}},
			`splot "pos.txt" using 1:2:3 title "Flight path" with lines, "pos.txt" using 1:2:4 title "Ground elevation" with lines`,
		},
		{
			"quotes escaped",
			models.PlotSpec{{Title: `the "climb"`, Using: "3"}},
			`splot "pos.txt" using 3 title "the \"climb\"" with lines`,
		},
	}
	for _, tc := range tests {
		if got := PlotCommand("splot", "pos.txt", tc.plot); got != tc.want {
			t.Errorf("%s:\n got %s\nwant %s", tc.name, got, tc.want)
		}
	}
}

func TestSaveCommands(t *testing.T) {
	if got := TerminalCommand("postscript eps enhanced"); got != "set term postscript eps enhanced" {
		t.Errorf("TerminalCommand = %q", got)
	}
	if got := OutputCommand(`C:\runs\out.eps`); got != `set output "C:\\runs\\out.eps"` {
		t.Errorf("OutputCommand = %q", got)
	}
}

func TestSelector(t *testing.T) {
	fields := models.FieldSpec{"lat", "lon", "alt", "gnd"}
	got, err := Selector(fields, []string{"lat", "lon", "gnd"})
	if err != nil || got != "1:2:4" {
		t.Errorf("Selector = %q, %v; want 1:2:4", got, err)
	}
	if _, err := Selector(fields, []string{"lat", "speed"}); err == nil {
		t.Error("unknown column accepted")
	}
	if _, err := Selector(fields, nil); err == nil {
		t.Error("empty column list accepted")
	}
}

func TestPointFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "pos.txt")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("left over\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pf, err := NewPointFile(path)
	if err != nil {
		t.Fatalf("NewPointFile: %v", err)
	}
	if b, _ := os.ReadFile(path); len(b) != 0 {
		t.Fatalf("not truncated: %q", b)
	}

	for _, line := range []string{"1 2 3\n", "1 2 4\n"} {
		if err := pf.Append(line); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1 2 3\n1 2 4\n" {
		t.Errorf("contents = %q", b)
	}
	if pf.Path() != path {
		t.Errorf("Path = %s, want %s", pf.Path(), path)
	}
}

func TestPointFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "pos.txt")
	if _, err := NewPointFile(path); err != nil {
		t.Fatalf("NewPointFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("data file missing: %v", err)
	}
}

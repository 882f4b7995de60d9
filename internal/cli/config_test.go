package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/qrsheet/pkg/config"
)

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qrsheet.toml")
	root := New(io.Discard, LogInfo).RootCommand()

	root.SetArgs([]string{"config", "init", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	root.SetArgs([]string{"config", "init", path})
	if err := root.Execute(); err == nil {
		t.Error("second init without --force should fail")
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show", "--config", path, "--toml"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out.String(), "[document]") {
		t.Errorf("show output = %q", out.String())
	}
}

func TestRenderConfigTable(t *testing.T) {
	got := renderConfigTable(config.Default())
	for _, want := range []string{"error_correction", "chunk_size", "100", "a4"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

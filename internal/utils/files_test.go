package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/vgdash/internal/utils"
)

func TestSafeWriteFileCreatesDirAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "charts", "report.md")
	if err := utils.SafeWriteFile(path, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := utils.SafeWriteFile(path, []byte("second")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("got %q, want %q", b, "second")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"top_n": 10})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{\n  \"top_n\": 10\n}" {
		t.Fatalf("unexpected output: %s", b)
	}
}

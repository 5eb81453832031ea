package shell

import (
	"strings"
	"testing"

	"github.com/PapiCZ/minivsfs/vfs"
)

func TestBlockPtrsToStrings(t *testing.T) {
	strs := BlockPtrsToStrings([]vfs.BlockPtr{8, 9, 10})
	if strings.Join(strs, " ") != "8 9 10" {
		t.Fatalf("unexpected output %v", strs)
	}

	if len(BlockPtrsToStrings(nil)) != 0 {
		t.Fatal("expected no strings for no pointers")
	}
}

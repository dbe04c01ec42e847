package kv_test

import (
	"path/filepath"
	"testing"

	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/kv/kvtest"
)

func TestLevelDBStore(t *testing.T) {
	dir := t.TempDir()
	n := 0
	kvtest.RunSuite(t, func() kv.Store {
		n++
		db, err := kv.OpenLevelDB(filepath.Join(dir, "store"+string(rune('a'+n))))
		if err != nil {
			t.Fatalf("open leveldb: %v", err)
		}
		return db
	})
}

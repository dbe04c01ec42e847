// Package kvtest holds a store-agnostic conformance suite shared by every
// kv.Store implementation's tests, mirroring the teacher's
// tosdb/dbtest.TestDatabaseSuite pattern.
package kvtest

import (
	"bytes"
	"testing"

	"github.com/tos-network/gtos-lite/kv"
)

// RunSuite exercises the full kv.Store contract against a freshly
// constructed store returned by newStore.
func RunSuite(t *testing.T, newStore func() kv.Store) {
	t.Run("GetMissing", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		_, ok, err := s.Get([]byte("missing"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected ok=false for missing key")
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		if err := s.Put([]byte("k"), []byte("v")); err != nil {
			t.Fatalf("put: %v", err)
		}
		v, ok, err := s.Get([]byte("k"))
		if err != nil || !ok {
			t.Fatalf("get: ok=%v err=%v", ok, err)
		}
		if !bytes.Equal(v, []byte("v")) {
			t.Fatalf("got %q want %q", v, "v")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		s.Put([]byte("k"), []byte("v1"))
		s.Put([]byte("k"), []byte("v2"))
		v, _, _ := s.Get([]byte("k"))
		if !bytes.Equal(v, []byte("v2")) {
			t.Fatalf("got %q want v2", v)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		s.Put([]byte("k"), []byte("v"))
		if err := s.Delete([]byte("k")); err != nil {
			t.Fatalf("delete: %v", err)
		}
		_, ok, _ := s.Get([]byte("k"))
		if ok {
			t.Fatal("expected key gone after delete")
		}
		if err := s.Delete([]byte("k")); err != nil {
			t.Fatalf("deleting absent key should not error: %v", err)
		}
	})

	t.Run("ScanPrefixOrdered", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		for _, k := range []string{"a:3", "a:1", "a:2", "b:1"} {
			s.Put([]byte(k), []byte(k))
		}
		got, err := s.ScanPrefix([]byte("a:"))
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		want := []string{"a:1", "a:2", "a:3"}
		if len(got) != len(want) {
			t.Fatalf("got %d entries, want %d", len(got), len(want))
		}
		for i, kv := range got {
			if string(kv.Key) != want[i] {
				t.Fatalf("entry %d: got %q want %q", i, kv.Key, want[i])
			}
		}
	})
}

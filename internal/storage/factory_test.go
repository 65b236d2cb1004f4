package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("NewStore(%q): %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("NewStore(%q) = %T, want *MemoryStore", kind, store)
		}
	}
}

func TestNewStoreUnsupportedKind(t *testing.T) {
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestDefaultStoreKind(t *testing.T) {
	if kind := DefaultStoreKind(); kind != "memory" {
		t.Fatalf("default store kind = %s", kind)
	}
}

func TestCloseIfSupportedNoCloser(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Fatalf("close memory store: %v", err)
	}
}

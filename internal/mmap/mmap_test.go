package mmap

import (
	"testing"
)

func TestMapAnon(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		m, err := MapAnon(4096)
		if err != nil {
			t.Fatalf("MapAnon failed: %v", err)
		}
		defer m.Close()

		if m.Size() != 4096 {
			t.Errorf("expected size=4096, got %d", m.Size())
		}
		data := m.Bytes()
		if len(data) != 4096 {
			t.Fatalf("expected len=4096, got %d", len(data))
		}

		// Anonymous mappings are zero-filled and writable.
		for i := 0; i < len(data); i += 512 {
			if data[i] != 0 {
				t.Fatalf("byte at %d not zero: %d", i, data[i])
			}
		}
		data[0] = 1
		data[4095] = 2
		if data[0] != 1 || data[4095] != 2 {
			t.Error("mapping not writable")
		}
	})

	t.Run("zero size", func(t *testing.T) {
		m, err := MapAnon(0)
		if err != nil {
			t.Fatalf("MapAnon(0) failed: %v", err)
		}
		defer m.Close()
		if m.Bytes() != nil {
			t.Error("expected nil bytes for zero-size mapping")
		}
	})

	t.Run("negative size", func(t *testing.T) {
		if _, err := MapAnon(-1); err == nil {
			t.Error("expected error for negative size")
		}
	})

	t.Run("close idempotent", func(t *testing.T) {
		m, err := MapAnon(4096)
		if err != nil {
			t.Fatalf("MapAnon failed: %v", err)
		}
		if err := m.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
		if err := m.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
		if m.Bytes() != nil {
			t.Error("Bytes should be nil after Close")
		}
	})
}

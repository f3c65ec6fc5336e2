package multistorage

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestNewMemory(t *testing.T) {
	m := NewMemory()
	if m == nil {
		t.Fatal("NewMemory returned nil")
	}
	if m.data == nil {
		t.Error("NewMemory did not initialize data map")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemory_ZeroValue(t *testing.T) {
	var m Memory
	ctx := context.Background()

	if _, ok, err := m.GetItem(ctx, "k"); ok || err != nil {
		t.Errorf("GetItem on zero Memory = ok %v, err %v", ok, err)
	}
	if err := m.RemoveItem(ctx, "k"); err != nil {
		t.Errorf("RemoveItem on zero Memory returned error: %v", err)
	}
	if err := m.SetItem(ctx, "k", "v"); err != nil {
		t.Fatalf("SetItem on zero Memory returned error: %v", err)
	}
	if v, ok, _ := m.GetItem(ctx, "k"); !ok || v != "v" {
		t.Errorf("GetItem = %q, %v, want %q, true", v, ok, "v")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	s, err := New(Config{}, WithBackend(&Memory{}))
	if err != nil {
		t.Fatalf("New with zero Memory returned error: %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Errorf("Set returned error: %v", err)
	}
}

func TestMemory_Contract(t *testing.T) {
	testBackendContract(t, NewMemory())
}

func TestMemory_SetItem(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetItem(ctx, "key1", "value1"); err != nil {
		t.Errorf("SetItem returned error: %v", err)
	}

	v, ok := m.data["key1"]
	if !ok {
		t.Fatal("SetItem did not store key")
	}
	if v != "value1" {
		t.Errorf("SetItem stored %q, want %q", v, "value1")
	}
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = m.SetItem(ctx, fmt.Sprintf("key%d", i), "v")
	}
	if m.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", m.Len())
	}

	m.Clear()

	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
}

func TestMemory_InstancesAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemory(), NewMemory()

	_ = a.SetItem(ctx, "shared", "from-a")

	if _, ok, _ := b.GetItem(ctx, "shared"); ok {
		t.Error("a write to one Memory must not be visible in another")
	}
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i)
			_ = m.SetItem(ctx, key, key)
			if v, ok, _ := m.GetItem(ctx, key); !ok || v != key {
				t.Errorf("GetItem(%q) = %q, %v", key, v, ok)
			}
			_ = m.RemoveItem(ctx, key)
		}(i)
	}
	wg.Wait()

	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

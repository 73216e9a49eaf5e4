package box3d_test

import (
	"testing"

	"github.com/bytearena/box3d"
)

type poolItem struct {
	inUse bool
}

func TestPoolReclaimPartition(t *testing.T) {
	created := 0
	pool := box3d.NewB3Pool(func() *poolItem {
		created++
		return &poolItem{}
	}, func(item *poolItem) bool {
		return item.inUse
	}, 4)

	items := make([]*poolItem, 10)
	for i := range items {
		items[i] = pool.Acquire()
		items[i].inUse = true
	}
	if created != 10 || pool.GetCount() != 10 {
		t.Fatalf("expected 10 fresh entries, got created=%d count=%d", created, pool.GetCount())
	}
	if pool.GetCapacity() != 12 {
		t.Fatalf("capacity should grow by the increment, got %d", pool.GetCapacity())
	}

	// Release every other entry.
	for i := 0; i < len(items); i += 2 {
		items[i].inUse = false
	}
	pool.Reclaim()
	if pool.InvalidCount() != 5 || pool.ValidCount() != 5 {
		t.Fatalf("expected 5/5 partition, got invalid=%d valid=%d", pool.InvalidCount(), pool.ValidCount())
	}

	// Recycled entries are handed out before the factory is called again.
	for i := 0; i < 5; i++ {
		item := pool.Acquire()
		if item.inUse {
			t.Fatalf("acquired an entry that is still in use")
		}
		item.inUse = true
	}
	if created != 10 {
		t.Fatalf("factory should not run while recycled entries remain, created=%d", created)
	}
	if pool.InvalidCount() != 0 {
		t.Fatalf("expected no invalid entries left, got %d", pool.InvalidCount())
	}

	pool.Acquire()
	if created != 11 {
		t.Fatalf("factory should run once the recycle partition is empty, created=%d", created)
	}
}

func TestPoolAlwaysInvalid(t *testing.T) {
	pool := box3d.NewB3Pool(func() *poolItem {
		return &poolItem{}
	}, func(*poolItem) bool {
		return false
	}, 8)

	const n = 7
	for i := 0; i < n; i++ {
		pool.Acquire()
	}
	pool.Reclaim()
	if pool.InvalidCount() != n {
		t.Fatalf("expected %d invalid entries, got %d", n, pool.InvalidCount())
	}
	if pool.ValidCount() != 0 {
		t.Fatalf("expected no valid entries, got %d", pool.ValidCount())
	}
}

func TestPoolFactoryNilPanics(t *testing.T) {
	pool := box3d.NewB3Pool(func() *poolItem {
		return nil
	}, func(*poolItem) bool {
		return false
	}, 1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a nil factory result")
		}
	}()
	pool.Acquire()
}

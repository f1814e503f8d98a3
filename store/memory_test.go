package store

import (
	"context"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/rushteam/scorekit/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get missing = %v, want store not found", err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get deleted = %v, want store not found", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got[0] = 'X'

	again, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}

	kvs, err := s.BatchGet(ctx, []string{"k"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	kvs["k"][0] = 'Y'
	again, _ = s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through BatchGet slice: %q", again)
	}
}

func TestMemoryStore_CloseStopsCleanup(t *testing.T) {
	before := runtime.NumGoroutine()

	stores := make([]*MemoryStore, 0, 50)
	for i := 0; i < 50; i++ {
		stores = append(stores, NewMemoryStore())
	}
	for _, s := range stores {
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		// 重复关闭是安全的
		if err := s.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
	}

	// 留给 cleanup goroutine 退出的时间
	deadline := time.Now().Add(2 * time.Second)
	for {
		runtime.Gosched()
		after := runtime.NumGoroutine()
		if after <= before+5 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("goroutines before=%d after=%d, cleanup goroutines not reaped", before, after)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after expiry = %v, want store not found", err)
	}
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	for _, k := range []string{"inputs/2.csv", "inputs/0.csv", "inputs/1.csv", "models/clf/latest"} {
		if err := s.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	keys, err := s.List(ctx, "inputs/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"inputs/0.csv", "inputs/1.csv", "inputs/2.csv"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List = %v, want %v", keys, want)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet = %d entries, want 2 (missing keys omitted)", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStore_Append(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Append(ctx, "out", []byte("7.csv: 1"), []byte("3.csv: 0")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "out", []byte("5.csv: 1")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	n, err := s.Len(ctx, "out")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 3 {
		t.Errorf("Len = %d, want 3", n)
	}

	lines, err := s.Range(ctx, "out", 0, -1)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	want := []string{"7.csv: 1", "3.csv: 0", "5.csv: 1"}
	if len(lines) != len(want) {
		t.Fatalf("Range = %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if string(lines[i]) != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, lines[i], want[i])
		}
	}

	// 子区间
	lines, err = s.Range(ctx, "out", 1, 1)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(lines) != 1 || string(lines[0]) != "3.csv: 0" {
		t.Errorf("Range(1,1) = %v", lines)
	}

	// 不存在的 key 返回空
	lines, err = s.Range(ctx, "nothing", 0, -1)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Range on missing key = %v, want empty", lines)
	}
}

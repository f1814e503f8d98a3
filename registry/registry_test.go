package registry

import (
	"context"
	"testing"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/store"
)

// 两个实现共享同一组契约测试
func registries(t *testing.T) map[string]core.ModelRegistry {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return map[string]core.ModelRegistry{
		"memory": NewMemoryRegistry(),
		"store":  NewStoreRegistry(s, "models/"),
	}
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a1, err := reg.Register(ctx, "clf", "logreg", []byte(`{"bias":0,"weights":[1]}`))
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if a1.Version != "1" {
				t.Errorf("first version = %q, want %q", a1.Version, "1")
			}

			a2, err := reg.Register(ctx, "clf", "logreg", []byte(`{"bias":1,"weights":[2]}`))
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if a2.Version != "2" {
				t.Errorf("second version = %q, want %q", a2.Version, "2")
			}

			// 空版本解析为最新
			latest, err := reg.Resolve(ctx, "clf", "")
			if err != nil {
				t.Fatalf("Resolve latest: %v", err)
			}
			if latest.Version != "2" {
				t.Errorf("latest version = %q, want %q", latest.Version, "2")
			}

			// 指定版本解析
			v1, err := reg.Resolve(ctx, "clf", "1")
			if err != nil {
				t.Fatalf("Resolve v1: %v", err)
			}
			if string(v1.Payload) != `{"bias":0,"weights":[1]}` {
				t.Errorf("v1 payload = %s", v1.Payload)
			}
			if v1.Format != "logreg" {
				t.Errorf("v1 format = %q, want %q", v1.Format, "logreg")
			}
		})
	}
}

func TestRegistry_NotFound(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := reg.Resolve(ctx, "missing", "")
			if !core.IsModelNotFound(err) {
				t.Errorf("Resolve missing = %v, want model not found", err)
			}

			if _, err := reg.Register(ctx, "clf", "logreg", nil); err != nil {
				t.Fatalf("Register: %v", err)
			}
			_, err = reg.Resolve(ctx, "clf", "99")
			if !core.IsModelNotFound(err) {
				t.Errorf("Resolve unknown version = %v, want model not found", err)
			}
		})
	}
}

func TestRegistry_EmptyName(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := reg.Register(context.Background(), "", "logreg", nil); err == nil {
				t.Error("expected error for empty model name")
			}
		})
	}
}

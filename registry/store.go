package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rushteam/scorekit/core"
)

// StoreRegistry 是基于 core.Store 的模型注册表实现，
// 配合 store.RedisStore 可在多个 worker 节点之间共享模型工件。
//
// 存储布局：
//   - <prefix><name>/latest          最新版本号
//   - <prefix><name>/v/<version>     工件 JSON
//
// 注册路径假定单写者（训练/发布流程），解析路径可任意并发。
type StoreRegistry struct {
	store  core.Store
	prefix string
}

func NewStoreRegistry(s core.Store, prefix string) *StoreRegistry {
	if prefix == "" {
		prefix = "models/"
	}
	return &StoreRegistry{store: s, prefix: prefix}
}

type storedArtifact struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Format  string `json:"format"`
	Payload []byte `json:"payload"`
}

func (r *StoreRegistry) Register(ctx context.Context, name, format string, payload []byte) (*core.ModelArtifact, error) {
	if name == "" {
		return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeInvalidInput,
			"registry: model name is required")
	}

	version := "1"
	if latest, err := r.store.Get(ctx, r.latestKey(name)); err == nil {
		n, convErr := strconv.Atoi(string(latest))
		if convErr != nil {
			return nil, fmt.Errorf("registry: corrupt latest pointer for %q: %w", name, convErr)
		}
		version = strconv.Itoa(n + 1)
	} else if !core.IsStoreNotFound(err) {
		return nil, fmt.Errorf("registry: read latest pointer: %w", err)
	}

	artifact := &core.ModelArtifact{
		Name:    name,
		Version: version,
		Format:  format,
		Payload: payload,
	}

	data, err := json.Marshal(storedArtifact{
		Name:    artifact.Name,
		Version: artifact.Version,
		Format:  artifact.Format,
		Payload: artifact.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("registry: marshal artifact: %w", err)
	}

	if err := r.store.Set(ctx, r.versionKey(name, version), data); err != nil {
		return nil, fmt.Errorf("registry: write artifact: %w", err)
	}
	if err := r.store.Set(ctx, r.latestKey(name), []byte(version)); err != nil {
		return nil, fmt.Errorf("registry: write latest pointer: %w", err)
	}
	return artifact, nil
}

func (r *StoreRegistry) Resolve(ctx context.Context, name, version string) (*core.ModelArtifact, error) {
	if version == "" {
		latest, err := r.store.Get(ctx, r.latestKey(name))
		if err != nil {
			if core.IsStoreNotFound(err) {
				return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeNotFound,
					fmt.Sprintf("registry: model %q not found", name))
			}
			return nil, fmt.Errorf("registry: read latest pointer: %w", err)
		}
		version = string(latest)
	}

	data, err := r.store.Get(ctx, r.versionKey(name, version))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeNotFound,
				fmt.Sprintf("registry: model %q version %q not found", name, version))
		}
		return nil, fmt.Errorf("registry: read artifact: %w", err)
	}

	var stored storedArtifact
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("registry: unmarshal artifact: %w", err)
	}
	return &core.ModelArtifact{
		Name:    stored.Name,
		Version: stored.Version,
		Format:  stored.Format,
		Payload: stored.Payload,
	}, nil
}

func (r *StoreRegistry) latestKey(name string) string {
	return r.prefix + name + "/latest"
}

func (r *StoreRegistry) versionKey(name, version string) string {
	return r.prefix + name + "/v/" + version
}

var _ core.ModelRegistry = (*StoreRegistry)(nil)

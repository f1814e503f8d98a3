package registry

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rushteam/scorekit/core"
)

// MemoryRegistry 是内存实现的模型注册表，用于测试/开发/单机场景。
// 版本号从 "1" 开始单调递增；进程重启后数据丢失。
type MemoryRegistry struct {
	mu     sync.RWMutex
	models map[string][]*core.ModelArtifact
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		models: make(map[string][]*core.ModelArtifact),
	}
}

func (r *MemoryRegistry) Register(ctx context.Context, name, format string, payload []byte) (*core.ModelArtifact, error) {
	if name == "" {
		return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeInvalidInput,
			"registry: model name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make([]byte, len(payload))
	copy(cp, payload)

	artifact := &core.ModelArtifact{
		Name:    name,
		Version: strconv.Itoa(len(r.models[name]) + 1),
		Format:  format,
		Payload: cp,
	}
	r.models[name] = append(r.models[name], artifact)
	return artifact, nil
}

func (r *MemoryRegistry) Resolve(ctx context.Context, name, version string) (*core.ModelArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.models[name]
	if !ok || len(versions) == 0 {
		return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeNotFound,
			fmt.Sprintf("registry: model %q not found", name))
	}

	// 空版本解析为最新版本
	if version == "" {
		return versions[len(versions)-1], nil
	}

	for _, a := range versions {
		if a.Version == version {
			return a, nil
		}
	}
	return nil, core.NewDomainError(core.ModuleRegistry, core.ErrorCodeNotFound,
		fmt.Sprintf("registry: model %q version %q not found", name, version))
}

var _ core.ModelRegistry = (*MemoryRegistry)(nil)

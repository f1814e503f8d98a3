package model

import (
	"fmt"
	"sync"

	"github.com/rushteam/scorekit/core"
)

// LoaderFunc 将模型工件的字节负载反序列化为内存中的 Predictor。
type LoaderFunc func(payload []byte) (core.Predictor, error)

// 内置格式
const (
	FormatLogReg = "logreg" // 逻辑回归（JSON 权重）
)

var (
	loadersMu sync.RWMutex
	loaders   = map[string]LoaderFunc{}
)

func init() {
	RegisterLoader(FormatLogReg, LoadLogReg)
}

// RegisterLoader 注册一种模型格式的加载器。
// 自定义格式（如远程模型的配置负载）可在此扩展。
func RegisterLoader(format string, fn LoaderFunc) {
	loadersMu.Lock()
	defer loadersMu.Unlock()
	loaders[format] = fn
}

// Load 按格式反序列化模型工件。
// 未知格式或反序列化失败返回 LOAD_FAILED 领域错误（对 worker 是致命的）。
func Load(artifact *core.ModelArtifact) (core.Predictor, error) {
	loadersMu.RLock()
	fn, ok := loaders[artifact.Format]
	loadersMu.RUnlock()

	if !ok {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeLoadFailed,
			fmt.Sprintf("model: unknown format %q for model %s", artifact.Format, artifact.Name))
	}

	p, err := fn(artifact.Payload)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeLoadFailed,
			fmt.Sprintf("model: load %s@%s: %v", artifact.Name, artifact.Version, err))
	}
	return p, nil
}

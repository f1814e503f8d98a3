package core

import "context"

// ModelArtifact 是注册表中的一个模型工件：名称 + 版本 + 可反序列化的字节负载。
// Format 指明 Payload 的序列化格式（如 "logreg"），由 model 包的 Loader 解析。
type ModelArtifact struct {
	Name    string
	Version string
	Format  string
	Payload []byte
}

// ModelRegistry 是模型注册表的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（registry）实现
//   - 版本单调递增，"" 表示解析最新版本
//   - Resolve 失败返回 NOT_FOUND 领域错误（见 IsModelNotFound）
//
// 实现：
//   - registry.MemoryRegistry 实现此接口
//   - registry.StoreRegistry 实现此接口（可持久化到 Redis 等）
type ModelRegistry interface {
	// Register 注册一个新版本的模型工件，返回带版本号的工件
	Register(ctx context.Context, name, format string, payload []byte) (*ModelArtifact, error)

	// Resolve 按名称与版本解析模型工件；version 为空表示最新版本
	Resolve(ctx context.Context, name, version string) (*ModelArtifact, error)
}

// ErrModelNotFound 表示模型（或指定版本）不存在
var ErrModelNotFound = NewDomainError(ModuleRegistry, ErrorCodeNotFound, "registry: model not found")

// IsModelNotFound 检查错误是否为模型不存在
func IsModelNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleRegistry {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

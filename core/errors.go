package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Registry 错误：NOT_FOUND（模型不存在）
//   - Model 错误：LOAD_FAILED（反序列化失败）
//   - Scorer 错误：MALFORMED_INPUT（输入行解析失败）
//   - Job 错误：THRESHOLD_EXCEEDED（累计失败超过阈值）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "MALFORMED_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "registry", "scorer", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 批量打分错误代码
	ErrorCodeMalformedInput    = "MALFORMED_INPUT"    // 输入行格式错误（列数/数值非法）
	ErrorCodeLoadFailed        = "LOAD_FAILED"        // 模型载入/反序列化失败
	ErrorCodeThresholdExceeded = "THRESHOLD_EXCEEDED" // 累计 item 失败数超过作业阈值
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleRegistry = "registry" // 模型注册表模块
	ModuleModel    = "model"    // 模型模块
	ModuleScorer   = "scorer"   // 批量打分模块
	ModuleDataset  = "dataset"  // 数据集模块
	ModuleJob      = "job"      // 作业编排模块
	ModuleService  = "service"  // 模型服务模块
	ModuleFeature  = "feature"  // 特征模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsMalformedInput 检查错误是否为输入行格式错误
func IsMalformedInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMalformedInput
	}
	return false
}

// IsLoadFailed 检查错误是否为模型载入失败
func IsLoadFailed(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeLoadFailed
	}
	return false
}

// IsThresholdExceeded 检查错误是否为失败阈值超限
func IsThresholdExceeded(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeThresholdExceeded
	}
	return false
}

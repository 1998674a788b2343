package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），包装后的错误（%w）同样可以识别
//
// 错误分类：
//   - VALIDATION：食材输入无效或已过期，调用方丢弃该条并告警
//   - CONFIGURATION：粒度越界、参考数据或模型文件缺失，会话终止
//   - LOOKUP：预测的菜系不在聚类表中，本次请求失败，绝不回退到默认聚类
//   - DATA_INTEGRITY：菜系属于多个聚类、食谱引用了不存在的聚类，加载时报告
type DomainError struct {
	Code    string // 错误代码（如 "VALIDATION", "LOOKUP"）
	Message string // 错误消息
	Module  string // 模块名称（如 "pantry", "cluster"）
	Err     error  // 原始错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
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
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeValidation    = "VALIDATION"     // 输入无效
	ErrorCodeConfiguration = "CONFIGURATION"  // 配置或参考数据错误
	ErrorCodeLookup        = "LOOKUP"         // 查找失败
	ErrorCodeDataIntegrity = "DATA_INTEGRITY" // 参考数据不一致
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore      = "store"
	ModulePantry     = "pantry"
	ModuleCluster    = "cluster"
	ModuleClassifier = "classifier"
	ModuleDataset    = "dataset"
	ModuleVocabulary = "vocabulary"
	ModuleService    = "service"
	ModuleFilter     = "filter"
	ModuleConfig     = "config"
)

// ValidationError 创建 VALIDATION 错误。
func ValidationError(module, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeValidation, fmt.Sprintf(format, args...))
}

// ConfigurationError 创建 CONFIGURATION 错误，err 可为 nil。
func ConfigurationError(module string, err error, format string, args ...any) *DomainError {
	e := NewDomainError(module, ErrorCodeConfiguration, fmt.Sprintf(format, args...))
	e.Err = err
	return e
}

// LookupError 创建 LOOKUP 错误。
func LookupError(module, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeLookup, fmt.Sprintf(format, args...))
}

// DataIntegrityError 创建 DATA_INTEGRITY 错误。
func DataIntegrityError(module, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeDataIntegrity, fmt.Sprintf(format, args...))
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsValidation 检查错误是否为 VALIDATION
func IsValidation(err error) bool { return hasCode(err, ErrorCodeValidation) }

// IsConfiguration 检查错误是否为 CONFIGURATION
func IsConfiguration(err error) bool { return hasCode(err, ErrorCodeConfiguration) }

// IsLookup 检查错误是否为 LOOKUP
func IsLookup(err error) bool { return hasCode(err, ErrorCodeLookup) }

// IsDataIntegrity 检查错误是否为 DATA_INTEGRITY
func IsDataIntegrity(err error) bool { return hasCode(err, ErrorCodeDataIntegrity) }

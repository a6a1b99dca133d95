package core

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code)和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Model 错误：UNAVAILABLE（模型工件加载失败，服务启动即失败）
//   - History 错误：NOT_FOUND, CORRUPTED
//   - Encoder 错误：INVALID_INPUT（档案校验失败）
//   - 其他领域错误
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "model", "history", "encoder"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
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

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在（用户/历史记录）
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效（档案校验失败，调用方可修正）
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 模型/服务不可用（启动级致命错误）
	ErrorCodeCorrupted     = "CORRUPTED"      // 数据损坏（账本/语料解析失败，可降级）
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误（边界处兜底）
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleModel   = "model"   // 模型模块（vectorizer + classifier）
	ModuleEncoder = "encoder" // 档案编码模块
	ModuleHistory = "history" // 预测历史账本模块
	ModuleInsight = "insight" // 相似度洞察模块
	ModuleService = "service" // 服务门面模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT（含 ValidationError）
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*ValidationError); ok {
		return true
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsCorrupted 检查错误是否为 CORRUPTED
func IsCorrupted(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeCorrupted
	}
	return false
}

// 常用领域错误

var (
	// ErrModelUnavailable 表示模型工件（vectorizer/classifier）无法加载。
	// 这是启动级致命错误：服务不得在此状态下对外提供预测。
	ErrModelUnavailable = NewDomainError(ModuleModel, ErrorCodeUnavailable, "model: artifacts unavailable")

	// ErrEntryNotFound 表示请求的历史记录不存在
	ErrEntryNotFound = NewDomainError(ModuleHistory, ErrorCodeNotFound, "history: entry not found")

	// ErrUserNotFound 表示引用的用户不存在
	ErrUserNotFound = NewDomainError(ModuleService, ErrorCodeNotFound, "service: user not found")
)

// ValidationError 是调用方可修正的校验错误，携带字段级错误消息。
//
// 与 DomainError 的区别：
//   - ValidationError 面向调用方展示（字段 -> 消息），不作为系统故障记录
//   - DomainError 面向系统内部分类
//
// 例如档案录入时 CGPA 越界：{"cgpa": "CGPA must be between 0 and 10"}
type ValidationError struct {
	Fields map[string]string // 字段名 -> 错误消息
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError 创建字段级校验错误
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// GetValidationError 获取 ValidationError，如果不是则返回 nil
func GetValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	if vErr, ok := err.(*ValidationError); ok {
		return vErr
	}
	return nil
}

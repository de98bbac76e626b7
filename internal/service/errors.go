package service

import (
	"errors"

	"bakesight-dashboard/internal/central"
)

var (
	// ErrValidation 请求参数不合法，不会发送任何上游请求
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("not found")
	// ErrUnsupported central API 没有对应的功能
	ErrUnsupported = errors.New("operation not supported by central API")
)

// IsNotFound 本地 ErrNotFound 或 central 404
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, central.ErrNotFound)
}

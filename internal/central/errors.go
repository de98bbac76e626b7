package central

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotFound central API 返回 404 时，APIError 可通过 errors.Is 匹配
var ErrNotFound = errors.New("central: resource not found")

// APIError central API 非 2xx 响应
// Message 优先取 JSON 错误体的 detail 字段，否则为 "HTTP <status>"
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is 404 匹配 ErrNotFound
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	msg := fmt.Sprintf("HTTP %d", status)
	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch {
		case detail.Type == gjson.String && strings.TrimSpace(detail.Str) != "":
			msg = detail.Str
		case detail.IsArray() || detail.IsObject():
			// FastAPI 校验错误：detail 是数组
			msg = detail.Raw
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

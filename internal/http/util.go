package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// statusForError 错误 → HTTP 状态码
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, domain.ErrInvalidCandidates):
		return http.StatusBadRequest
	case service.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

// writeError 统一错误输出；上游失败记 Error，其余记 Info
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, op string, err error) {
	status := statusForError(err)
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status == http.StatusBadGateway {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}
	writeJSON(w, status, Fail(err.Error()))
}

// splitPath 去掉前缀后按 "/" 切分，空路径返回 nil
func splitPath(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

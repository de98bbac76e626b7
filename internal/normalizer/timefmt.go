package normalizer

import (
	"fmt"
	"strings"
	"time"
)

// KST 韩国标准时间（UTC+9，无夏令时，不依赖系统 tzdata）
var KST = time.FixedZone("KST", 9*60*60)

// DisplayLayout 展示时间格式（秒级精度）
const DisplayLayout = "2006. 01. 02. 15:04:05"

// ParseBackendTime 解析 central 的时间戳；没有时区标记时按 UTC 处理
func ParseBackendTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	// Python naive isoformat："2024-01-01T03:00:00" / "2024-01-01 03:00:00.123456"
	s = strings.Replace(s, " ", "T", 1)
	t, err := time.Parse(time.RFC3339Nano, s+"Z")
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// FormatKST UTC 时间 → KST 展示字符串
func FormatKST(t time.Time) string {
	return FormatIn(t, KST)
}

// FormatIn 按指定时区格式化；loc 为 nil 时使用 KST
func FormatIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = KST
	}
	return t.In(loc).Format(DisplayLayout)
}

// DisplayTime 解析并格式化；失败时原样返回 raw 和零值时间
func DisplayTime(raw string, loc *time.Location) (string, time.Time, error) {
	t, err := ParseBackendTime(raw)
	if err != nil {
		return raw, time.Time{}, err
	}
	return FormatIn(t, loc), t, nil
}

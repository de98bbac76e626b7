package normalizer

import "strings"

const gcsScheme = "gs://"

// DefaultPublicHost 公开存储域名
const DefaultPublicHost = "https://storage.googleapis.com"

// PublicClipURL gs://bucket/path → <host>/bucket/path；其它格式返回空字符串
func PublicClipURL(locator, host string) string {
	locator = strings.TrimSpace(locator)
	if !strings.HasPrefix(locator, gcsScheme) {
		return ""
	}
	rest := strings.TrimPrefix(locator, gcsScheme)
	if rest == "" {
		return ""
	}
	if host == "" {
		host = DefaultPublicHost
	}
	return strings.TrimRight(host, "/") + "/" + rest
}

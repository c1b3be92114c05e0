// Package i18n 提供错误提示的多语言文案
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en-IN"
	LocaleHI = "hi-IN"

	DefaultLocale = LocaleEN
)

// SupportedLocales 返回支持的语言列表
func SupportedLocales() []string {
	return []string{LocaleEN, LocaleHI}
}

// ResolveLocale 解析请求语言：优先 lang 参数，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		if locale := NormalizeLocale(tag); locale != DefaultLocale || strings.HasPrefix(strings.ToLower(tag), "en") {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，未知语言回退到默认语言
func NormalizeLocale(tag string) string {
	lower := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	switch {
	case strings.HasPrefix(lower, "hi"):
		return LocaleHI
	default:
		return DefaultLocale
	}
}

// T 翻译文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if msg, ok := catalog[locale][key]; ok {
		return msg
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

package utils

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// StripTags 去掉所有标签后的纯文本（实体还原）
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(strict().Sanitize(s))
}

// HasMarkup 输入里是否含有会被当作标签去掉的内容；"a < b"、"&" 这类纯文本不算
func HasMarkup(s string) bool { return StripTags(s) != s }

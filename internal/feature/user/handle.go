package user

import (
	"strings"
	"unicode/utf8"
)

const (
	HandlePrefix = "USER-"
	handleSep    = "-"

	// 名字达到该长度才生成 username
	HandleMinNameLen = 3
)

// DeriveHandle 由显示名生成 username：空白段折叠为 "-"，转小写，加前缀
func DeriveHandle(name string) string {
	return HandlePrefix + strings.ToLower(strings.Join(strings.Fields(name), handleSep))
}

func canDeriveHandle(name string) bool {
	return utf8.RuneCountInString(name) >= HandleMinNameLen
}

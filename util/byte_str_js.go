//go:build javascript
// +build javascript

package util

// BytesToStr 转换 []byte 为 string。JavaScript 端不使用 unsafe。
func BytesToStr(bytes []byte) string {
	return string(bytes)
}

// StrToBytes 转换 string 为 []byte。JavaScript 端不使用 unsafe。
func StrToBytes(str string) []byte {
	return []byte(str)
}

package render

import (
	"bytes"

	"github.com/pafthang/mdk/util"
)

var (
	amp  = []byte("&amp;")
	lt   = []byte("&lt;")
	gt   = []byte("&gt;")
	quot = []byte("&quot;")
)

// EscapeHTML 转义 tokens 中的 HTML 特殊字符。
func EscapeHTML(tokens []byte) (ret []byte) {
	ret = tokens
	var i int
	var token byte
	for i < len(ret) {
		token = ret[i]
		var esc []byte
		switch token {
		case '&':
			esc = amp
		case '<':
			esc = lt
		case '>':
			esc = gt
		case '"':
			esc = quot
		default:
			i++
			continue
		}
		remains := ret[i+1:]
		ret = append(ret[:i:i], esc...)
		ret = append(ret, remains...)
		i += len(esc)
	}
	return
}

// EscapeHTMLStr 转义 str 中的 HTML 特殊字符。
func EscapeHTMLStr(str string) string {
	return util.BytesToStr(EscapeHTML(util.StrToBytes(str)))
}

// escapeAttr 转义属性值。
func escapeAttr(value string) string {
	if !bytes.ContainsAny(util.StrToBytes(value), "&\"<>") {
		return value
	}
	return EscapeHTMLStr(value)
}

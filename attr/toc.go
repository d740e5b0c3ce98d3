package attr

import (
	"bytes"

	"github.com/pafthang/mdk/lex"
)

// ParseTOCMarker 判断花括号体是否是目录标记：去除两端空白后以 toc
//（不区分大小写）开头，且其后为体结尾或空白。命中时返回剩余部分作为
// 不透明的目录选项。
func ParseTOCMarker(body []byte) (options []byte, ok bool) {
	body = lex.TrimWhitespace(body)
	if 3 > len(body) || !bytes.EqualFold(body[:3], []byte("toc")) {
		return
	}
	if 3 == len(body) {
		return nil, true
	}
	if !lex.IsWhitespace(body[3]) {
		return
	}
	return lex.TrimWhitespace(body[3:]), true
}

package render

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/util"
)

// assignHeadingIDs 在渲染前为所有标题预先计算自动 ID。装饰片段已经
// 显式指定 id 的标题不再生成自动 ID。
func (r *HtmlRenderer) assignHeadingIDs() {
	if !r.Options.HeadingID {
		return
	}
	seen := map[string]int{}
	for _, heading := range r.Tree.Root.ChildrenByType(ast.NodeHeading) {
		if strings.Contains(heading.DecorationAttr(), "id=\"") {
			continue
		}
		id := normalizeHeadingID(heading.Text())
		if "" == id {
			id = "heading"
		}
		if count := seen[id]; 0 < count {
			seen[id] = count + 1
			id = id + "-" + strconv.Itoa(count)
		} else {
			seen[id] = 1
		}
		r.headingIDs[heading] = id
	}
}

// normalizeHeadingID 将标题文本归一化为 ID:NFKC 规范化、转小写、
// 空白折叠为连字符,其余只保留字母、数字和连字符。
func normalizeHeadingID(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	var builder strings.Builder
	hyphen := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !hyphen && 0 < builder.Len() {
				builder.WriteByte('-')
				hyphen = true
			}
			continue
		}
		if util.IsIDRune(r) {
			builder.WriteRune(r)
			hyphen = false
		}
	}
	return strings.Trim(builder.String(), "-")
}

//go:build javascript
// +build javascript

package render

import (
	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
	"github.com/pafthang/mdk/util"
)

// renderCodeBlock 进行代码块 HTML 渲染，不实现语法高亮。
func (r *HtmlRenderer) renderCodeBlock(node *ast.Node, entering bool) ast.WalkStatus {
	if !entering {
		return ast.WalkContinue
	}
	r.Newline()

	var language string
	if 0 < len(node.CodeBlockInfo) {
		infoWords := lex.Split(node.CodeBlockInfo, lex.ItemSpace)
		language = util.BytesToStr(infoWords[0])
	}

	r.Tag("pre", nil, node, false)
	if "" != language {
		r.WriteString("<code class=\"language-" + language + "\">")
	} else {
		r.WriteString("<code>")
	}
	r.Write(EscapeHTML(node.Tokens))
	r.WriteString("</code></pre>")
	r.Newline()
	return ast.WalkSkipChildren
}

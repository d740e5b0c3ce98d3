//go:build !javascript
// +build !javascript

package render

import (
	"bytes"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
	"github.com/pafthang/mdk/util"
)

// renderCodeBlock 进行代码块 HTML 渲染。带装饰片段的代码块始终走
// 普通渲染路径，否则高亮器内联的样式会和装饰属性混在一起。
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

	if r.Options.CodeSyntaxHighlight && 0 == len(node.Decorations) {
		if r.highlightCode(node.Tokens, language) {
			r.Newline()
			return ast.WalkSkipChildren
		}
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

// highlightCode 使用 Chroma 渲染高亮后的代码块，返回是否渲染成功。
func (r *HtmlRenderer) highlightCode(tokens []byte, language string) bool {
	codeLexer := lexers.Get(language)
	if nil == codeLexer {
		codeLexer = lexers.Analyse(util.BytesToStr(tokens))
	}
	if nil == codeLexer {
		return false
	}
	codeLexer = chroma.Coalesce(codeLexer)

	style := styles.Get(r.Options.CodeSyntaxHighlightStyleName)
	if nil == style {
		style = styles.Fallback
	}

	iterator, err := codeLexer.Tokenise(nil, util.BytesToStr(tokens))
	if nil != err {
		return false
	}
	formatterOpts := []chromahtml.Option{chromahtml.PreventSurroundingPre(false)}
	if r.Options.CodeSyntaxHighlightInlineStyle {
		formatterOpts = append(formatterOpts, chromahtml.WithClasses(false))
	} else {
		formatterOpts = append(formatterOpts, chromahtml.WithClasses(true), chromahtml.ClassPrefix("highlight-"))
	}
	formatter := chromahtml.New(formatterOpts...)
	var buf bytes.Buffer
	if err = formatter.Format(&buf, style, iterator); nil != err {
		return false
	}
	r.Write(buf.Bytes())
	return true
}

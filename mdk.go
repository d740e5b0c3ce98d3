// Package mdk 提供了一款带属性装饰和表格扩展的 Markdown 引擎，支持 Go 和 JavaScript。
//
// 处理管线分为五步：表格文本规整、属性定义收集、解析、语法树装饰、
// 渲染，最后对渲染出的 HTML 表格做一次对账，把合并单元格、表脚和
// 表题落到最终输出上。
package mdk

import (
	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/attr"
	"github.com/pafthang/mdk/parse"
	"github.com/pafthang/mdk/render"
	"github.com/pafthang/mdk/tbl"
	"github.com/pafthang/mdk/util"
)

const Version = "1.0.0"

// MDK 描述了引擎的顶层使用入口。
type MDK struct {
	ParseOptions  *parse.Options  // 解析选项
	RenderOptions *render.Options // 渲染选项
}

// New 创建一个新的引擎。
//
// 默认启用的解析选项：
//   - GFM 表格及其合并、表脚、表题扩展
//   - 属性装饰
//   - 标题自定义 ID
//   - [toc] 目录
//   - YAML Front Matter
//
// 默认启用的渲染选项：
//   - 代码块语法高亮
//   - 标题自动 ID
func New(opts ...Option) (ret *MDK) {
	ret = &MDK{ParseOptions: parse.NewOptions(), RenderOptions: render.NewOptions()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Markdown 将 markdown 文本字节数组处理为相应的 html 字节数组。name 参数仅用于标识文本，比如可传入 id 或者标题，也可以传入 ""。
func (e *MDK) Markdown(name string, markdown []byte) (html []byte) {
	defer util.RecoverPanic(nil)

	markdown = tbl.Normalize(markdown)

	registry := attr.NewRegistry()
	if e.ParseOptions.Attribute {
		markdown = registry.CollectDefinitions(markdown)
	}

	tree := parse.Parse(name, markdown, e.ParseOptions)
	parse.Decorate(tree, registry)

	renderer := render.NewHtmlRenderer(tree, e.RenderOptions)
	html = renderer.Render()

	html = tbl.Reconcile(html, tree.Root, &tbl.Options{
		CaptionBelow: e.RenderOptions.TableCaptionBelow,
		AlignStyle:   e.RenderOptions.TableAlignStyle,
		Timeout:      e.RenderOptions.TableReconcileTimeout,
	})
	return
}

// MarkdownStr 接受 string 类型的 markdown 后直接调用 Markdown 进行处理。
func (e *MDK) MarkdownStr(name, markdown string) (html string) {
	htmlBytes := e.Markdown(name, util.StrToBytes(markdown))
	html = util.BytesToStr(htmlBytes)
	return
}

// WordCount 统计 markdown 正文内容的字数和词数，语法标记不计入。
func (e *MDK) WordCount(markdown string) (runeCount, wordCount int) {
	tree := parse.Parse("", util.StrToBytes(markdown), e.ParseOptions)
	ast.Walk(tree.Root, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.WalkContinue
		}
		switch n.Type {
		case ast.NodeText, ast.NodeCodeSpan:
			runes, words := util.WordCount(n.TokensStr())
			runeCount += runes
			wordCount += words
		}
		return ast.WalkContinue
	})
	return
}

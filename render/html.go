// Package render 实现了语法树到 HTML 的渲染。
//
// 渲染器对节点上的装饰片段一无所知其语义：凡是带装饰的节点，渲染时
// 把拼接后的片段逐字嵌入该节点开始标签的属性位置。表格扩展落在节点
// 字段上的合并标记不在这里处理，由渲染后的表格对账负责。
package render

import (
	"bytes"
	"strconv"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/parse"
	"github.com/pafthang/mdk/util"
)

// RendererFunc 描述了渲染节点 n 时需要执行的操作。
type RendererFunc func(n *ast.Node, entering bool) ast.WalkStatus

// HtmlRenderer 描述了 HTML 渲染器。
type HtmlRenderer struct {
	Tree          *parse.Tree
	Options       *Options
	Writer        *bytes.Buffer
	RendererFuncs map[ast.NodeType]RendererFunc

	headingIDs    map[*ast.Node]string
	tableBodyOpen bool
}

// NewHtmlRenderer 创建一个 HTML 渲染器。
func NewHtmlRenderer(tree *parse.Tree, options *Options) (ret *HtmlRenderer) {
	if nil == options {
		options = NewOptions()
	}
	ret = &HtmlRenderer{
		Tree:          tree,
		Options:       options,
		Writer:        &bytes.Buffer{},
		RendererFuncs: map[ast.NodeType]RendererFunc{},
		headingIDs:    map[*ast.Node]string{},
	}
	ret.Writer.Grow(4096)

	ret.RendererFuncs[ast.NodeDocument] = ret.renderDocument
	ret.RendererFuncs[ast.NodeParagraph] = ret.renderParagraph
	ret.RendererFuncs[ast.NodeHeading] = ret.renderHeading
	ret.RendererFuncs[ast.NodeThematicBreak] = ret.renderThematicBreak
	ret.RendererFuncs[ast.NodeBlockquote] = ret.renderBlockquote
	ret.RendererFuncs[ast.NodeList] = ret.renderList
	ret.RendererFuncs[ast.NodeListItem] = ret.renderListItem
	ret.RendererFuncs[ast.NodeCodeBlock] = ret.renderCodeBlock
	ret.RendererFuncs[ast.NodeTable] = ret.renderTable
	ret.RendererFuncs[ast.NodeTableHead] = ret.renderTableHead
	ret.RendererFuncs[ast.NodeTableRow] = ret.renderTableRow
	ret.RendererFuncs[ast.NodeTableCell] = ret.renderTableCell
	ret.RendererFuncs[ast.NodeToC] = ret.renderToC
	ret.RendererFuncs[ast.NodeText] = ret.renderText
	ret.RendererFuncs[ast.NodeCodeSpan] = ret.renderCodeSpan
	ret.RendererFuncs[ast.NodeEmphasis] = ret.renderEmphasis
	ret.RendererFuncs[ast.NodeStrong] = ret.renderStrong
	ret.RendererFuncs[ast.NodeLink] = ret.renderLink
	ret.RendererFuncs[ast.NodeImage] = ret.renderImage
	return
}

// Render 渲染整棵树。
func (r *HtmlRenderer) Render() []byte {
	r.assignHeadingIDs()
	ast.Walk(r.Tree.Root, func(n *ast.Node, entering bool) ast.WalkStatus {
		rendererFunc := r.RendererFuncs[n.Type]
		if nil == rendererFunc {
			return ast.WalkContinue
		}
		return rendererFunc(n, entering)
	})
	return r.Writer.Bytes()
}

func (r *HtmlRenderer) Write(content []byte) {
	r.Writer.Write(content)
}

func (r *HtmlRenderer) WriteString(content string) {
	r.Writer.WriteString(content)
}

// Newline 保证输出以换行结尾。
func (r *HtmlRenderer) Newline() {
	if 0 < r.Writer.Len() && '\n' != r.Writer.Bytes()[r.Writer.Len()-1] {
		r.Writer.WriteByte('\n')
	}
}

// Tag 输出一个开始标签，attrs 的值做属性转义，node 上的装饰片段逐字
// 嵌入。
func (r *HtmlRenderer) Tag(name string, attrs [][]string, node *ast.Node, selfClose bool) {
	r.WriteString("<" + name)
	for _, attr := range attrs {
		r.WriteString(" " + attr[0] + "=\"" + escapeAttr(attr[1]) + "\"")
	}
	if nil != node {
		if decor := node.DecorationAttr(); "" != decor {
			r.WriteString(" " + decor)
		}
	}
	if selfClose {
		r.WriteString(" /")
	}
	r.WriteString(">")
}

func (r *HtmlRenderer) renderDocument(node *ast.Node, entering bool) ast.WalkStatus {
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderParagraph(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("p", nil, node, false)
	} else {
		r.WriteString("</p>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderHeading(node *ast.Node, entering bool) ast.WalkStatus {
	level := " 123456"[node.HeadingLevel : node.HeadingLevel+1]
	if entering {
		var attrs [][]string
		if id, ok := r.headingIDs[node]; ok {
			attrs = append(attrs, []string{"id", id})
		}
		r.Tag("h"+level, attrs, node, false)
	} else {
		r.WriteString("</h" + level + ">")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderThematicBreak(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("hr", nil, node, true)
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderBlockquote(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("blockquote", nil, node, false)
		r.Newline()
	} else {
		r.WriteString("</blockquote>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderList(node *ast.Node, entering bool) ast.WalkStatus {
	tag := "ul"
	if node.ListOrdered {
		tag = "ol"
	}
	if entering {
		var attrs [][]string
		if node.ListOrdered && 1 != node.ListStart && 0 < node.ListStart {
			attrs = append(attrs, []string{"start", strconv.Itoa(node.ListStart)})
		}
		r.Tag(tag, attrs, node, false)
		r.Newline()
	} else {
		r.WriteString("</" + tag + ">")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderListItem(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("li", nil, node, false)
	} else {
		r.WriteString("</li>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderText(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Write(EscapeHTML(node.Tokens))
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderCodeSpan(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("code", nil, node, false)
		r.Write(EscapeHTML(node.Tokens))
		r.WriteString("</code>")
	}
	return ast.WalkSkipChildren
}

func (r *HtmlRenderer) renderEmphasis(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("em", nil, node, false)
	} else {
		r.WriteString("</em>")
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderStrong(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.Tag("strong", nil, node, false)
	} else {
		r.WriteString("</strong>")
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderLink(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		attrs := [][]string{{"href", util.BytesToStr(node.LinkDest)}}
		if 0 < len(node.LinkTitle) {
			attrs = append(attrs, []string{"title", util.BytesToStr(node.LinkTitle)})
		}
		r.Tag("a", attrs, node, false)
	} else {
		r.WriteString("</a>")
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderImage(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		attrs := [][]string{{"src", util.BytesToStr(node.LinkDest)}, {"alt", node.Text()}}
		if 0 < len(node.LinkTitle) {
			attrs = append(attrs, []string{"title", util.BytesToStr(node.LinkTitle)})
		}
		r.Tag("img", attrs, node, true)
	}
	return ast.WalkSkipChildren
}

func (r *HtmlRenderer) renderTable(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.tableBodyOpen = false
		r.Tag("table", nil, node, false)
		r.Newline()
	} else {
		if r.tableBodyOpen {
			r.WriteString("</tbody>")
			r.Newline()
			r.tableBodyOpen = false
		}
		r.WriteString("</table>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderTableHead(node *ast.Node, entering bool) ast.WalkStatus {
	if entering {
		r.WriteString("<thead>")
		r.Newline()
	} else {
		r.WriteString("</thead>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderTableRow(node *ast.Node, entering bool) ast.WalkStatus {
	if allCellsRemoved(node) {
		// 全删除行不产生任何输出
		return ast.WalkSkipChildren
	}
	if entering {
		if nil != node.Parent && ast.NodeTableHead != node.Parent.Type && !r.tableBodyOpen {
			r.WriteString("<tbody>")
			r.Newline()
			r.tableBodyOpen = true
		}
		r.Tag("tr", nil, node, false)
		r.Newline()
	} else {
		r.WriteString("</tr>")
		r.Newline()
	}
	return ast.WalkContinue
}

func (r *HtmlRenderer) renderTableCell(node *ast.Node, entering bool) ast.WalkStatus {
	if node.TableCellRemoved {
		return ast.WalkSkipChildren
	}
	tag := "td"
	if nil != node.Parent && nil != node.Parent.Parent && ast.NodeTableHead == node.Parent.Parent.Type {
		tag = "th"
	}
	if entering {
		var attrs [][]string
		switch node.TableCellAlign {
		case ast.TableAlignLeft:
			attrs = append(attrs, []string{"align", "left"})
		case ast.TableAlignCenter:
			attrs = append(attrs, []string{"align", "center"})
		case ast.TableAlignRight:
			attrs = append(attrs, []string{"align", "right"})
		}
		r.Tag(tag, attrs, node, false)
	} else {
		r.WriteString("</" + tag + ">")
		r.Newline()
	}
	return ast.WalkContinue
}

// allCellsRemoved 判断一行是否所有单元格都带删除标记。
func allCellsRemoved(row *ast.Node) bool {
	if ast.NodeTableRow != row.Type || nil == row.FirstChild {
		return false
	}
	for cell := row.FirstChild; nil != cell; cell = cell.Next {
		if !cell.TableCellRemoved {
			return false
		}
	}
	return true
}

func (r *HtmlRenderer) renderToC(node *ast.Node, entering bool) ast.WalkStatus {
	if !entering {
		return ast.WalkContinue
	}
	r.WriteString("<div class=\"toc\">")
	r.Newline()
	r.WriteString("<ul>")
	r.Newline()
	for _, heading := range r.Tree.Root.ChildrenByType(ast.NodeHeading) {
		id := r.headingIDs[heading]
		r.WriteString("<li class=\"toc-h" + strconv.Itoa(heading.HeadingLevel) + "\">")
		if "" != id {
			r.WriteString("<a href=\"#" + escapeAttr(id) + "\">")
			r.Write(EscapeHTML(util.StrToBytes(heading.Text())))
			r.WriteString("</a>")
		} else {
			r.Write(EscapeHTML(util.StrToBytes(heading.Text())))
		}
		r.WriteString("</li>")
		r.Newline()
	}
	r.WriteString("</ul>")
	r.Newline()
	r.WriteString("</div>")
	r.Newline()
	return ast.WalkSkipChildren
}

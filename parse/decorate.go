package parse

import (
	"bytes"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/attr"
	"github.com/pafthang/mdk/lex"
)

// Decorate 在解析完成后对树做一次前序遍历，把花括号属性标记解析为
// 装饰并挂到目标节点上。
//
// 遍历期间绝不断开或释放正在访问的节点及其兄弟：待删除节点先收集到
// 列表里，遍历结束后再统一断开。遍历中途断开节点会使建立在兄弟和
// 父链接上的遍历状态失效。
func Decorate(tree *Tree, registry *attr.Registry) {
	if !tree.Options.Attribute {
		return
	}
	d := &decorator{
		options:  tree.Options,
		registry: registry,
		consumed: map[*ast.Node]bool{},
	}
	d.block(tree.Root)
	for _, n := range d.removals {
		n.Unlink()
	}
}

type decorator struct {
	options  *Options
	registry *attr.Registry
	removals []*ast.Node        // 待删除节点，遍历结束后统一断开
	consumed map[*ast.Node]bool // 已作为块尾标记消费的段落
}

func (d *decorator) block(container *ast.Node) {
	for child := container.FirstChild; nil != child; child = child.Next {
		if d.consumed[child] {
			continue
		}
		switch child.Type {
		case ast.NodeHeading:
			d.heading(child)
		case ast.NodeParagraph:
			if d.paragraphMarker(child) {
				continue
			}
			d.inlines(child)
		case ast.NodeBlockquote, ast.NodeList, ast.NodeListItem:
			d.block(child)
		case ast.NodeTable:
			d.tableCells(child)
		}
		d.blockTrailing(child)
	}
}

// heading 处理标题结尾的属性标记：{: ...}，或以 # 和 . 开头的
// 简写形式 {#id .cls}。标记后只允许空白。
func (d *decorator) heading(h *ast.Node) {
	last := h.LastChild
	if nil == last || ast.NodeText != last.Type {
		return
	}
	tokens := bytes.TrimRight(last.Tokens, " \t")
	body, start, ok := markerAtEnd(tokens, d.options.HeadingID)
	if !ok {
		return
	}
	set := attr.ParseBody(body, d.registry)
	if nil == set {
		return
	}
	h.Decorate(set.String())

	remain := bytes.TrimRight(tokens[:start], " \t")
	if 1 > len(remain) {
		d.removals = append(d.removals, last)
	} else {
		last.Tokens = remain
	}
}

// tableCells 处理表格单元格结尾的属性标记，装饰挂在单元格自身上。
func (d *decorator) tableCells(table *ast.Node) {
	for _, cell := range table.ChildrenByType(ast.NodeTableCell) {
		last := cell.LastChild
		if nil == last || ast.NodeText != last.Type {
			continue
		}
		tokens := bytes.TrimRight(last.Tokens, " \t")
		body, start, ok := markerAtEnd(tokens, false)
		if !ok {
			continue
		}
		set := attr.ParseBody(body, d.registry)
		if nil == set {
			continue
		}
		cell.Decorate(set.String())

		remain := bytes.TrimRight(tokens[:start], " \t")
		if 1 > len(remain) {
			d.removals = append(d.removals, last)
		} else {
			last.Tokens = remain
		}
	}
}

// inlines 在段落和可嵌套的行级容器内扫描文本节点上的属性标记。
func (d *decorator) inlines(container *ast.Node) {
	for child := container.FirstChild; nil != child; child = child.Next {
		switch child.Type {
		case ast.NodeEmphasis, ast.NodeStrong, ast.NodeLink:
			d.inlines(child)
		case ast.NodeText:
			d.textMarker(container, child)
		}
	}
}

// textMarker 在文本节点内容的最开头（允许前导空白）或最结尾识别
// 标记，向前越过中间的纯文本兄弟找到最近的可装饰元素并附加装饰。
// 没有可装饰元素或解析失败时原样保留。
func (d *decorator) textMarker(container, text *ast.Node) {
	ws, remains := lex.TrimLeftWhitespace(text.Tokens)
	if body, end, ok := markerAtStart(remains); ok {
		if d.attach(container, text, body) {
			d.spliceText(text, ws, ws+end)
			return
		}
	}

	trimmed := bytes.TrimRight(text.Tokens, " \t")
	if body, start, ok := markerAtEnd(trimmed, false); ok {
		if d.attach(container, text, body) {
			d.spliceText(text, start, len(trimmed))
		}
	}
}

// attach 解析 body 并把装饰挂到 text 之前最近的可装饰元素上。
func (d *decorator) attach(container, text *ast.Node, body []byte) bool {
	target := eligibleBefore(text)
	if nil == target || target.Parent != container {
		return false
	}
	set := attr.ParseBody(body, d.registry)
	if nil == set {
		return false
	}
	target.Decorate(set.String())
	return true
}

// spliceText 从文本节点中删除 [from, to) 区间，合并剩余前后缀；
// 删空时把节点排进待删除列表。
func (d *decorator) spliceText(text *ast.Node, from, to int) {
	tokens := make([]byte, 0, len(text.Tokens)-(to-from))
	tokens = append(tokens, text.Tokens[:from]...)
	tokens = append(tokens, text.Tokens[to:]...)
	if 1 > len(tokens) {
		d.removals = append(d.removals, text)
		return
	}
	text.Tokens = tokens
}

// eligibleBefore 向前越过纯文本兄弟，返回最近的可装饰元素。
func eligibleBefore(text *ast.Node) *ast.Node {
	p := text.Previous
	for nil != p && ast.NodeText == p.Type {
		p = p.Previous
	}
	if nil == p {
		return nil
	}
	switch p.Type {
	case ast.NodeLink, ast.NodeImage, ast.NodeEmphasis, ast.NodeStrong, ast.NodeCodeSpan:
		return p
	}
	return nil
}

// paragraphMarker 处理整段恰为一个标记的段落中的目录标记
// （{: toc ...}），改写为目录节点。返回是否已处理。
func (d *decorator) paragraphMarker(p *ast.Node) bool {
	body, ok := soleMarker(p)
	if !ok {
		return false
	}
	options, isTOC := attr.ParseTOCMarker(body)
	if !isTOC || !d.options.ToC {
		return false
	}
	p.InsertBefore(&ast.Node{Type: ast.NodeToC, Tokens: options})
	d.removals = append(d.removals, p)
	return true
}

// blockTrailing 处理块尾形式：紧随其后的兄弟段落整段恰为一个标记时，
// 解析后挂到当前块上，并把该段落排进待删除列表。
func (d *decorator) blockTrailing(n *ast.Node) {
	switch n.Type {
	case ast.NodeHeading, ast.NodeParagraph, ast.NodeBlockquote, ast.NodeCodeBlock,
		ast.NodeList, ast.NodeListItem, ast.NodeTable:
	default:
		return
	}

	next := n.Next
	if nil == next || ast.NodeParagraph != next.Type || d.consumed[next] {
		return
	}
	body, ok := soleMarker(next)
	if !ok {
		return
	}
	if _, isTOC := attr.ParseTOCMarker(body); isTOC {
		return
	}
	set := attr.ParseBody(body, d.registry)
	if nil == set {
		return
	}
	n.Decorate(set.String())
	d.consumed[next] = true
	d.removals = append(d.removals, next)
}

// soleMarker 判断段落的全部内容去除两端空白后是否恰为一个标记。
func soleMarker(p *ast.Node) (body []byte, ok bool) {
	if nil == p.FirstChild || p.FirstChild != p.LastChild || ast.NodeText != p.FirstChild.Type {
		return
	}
	trimmed := lex.TrimWhitespace(p.FirstChild.Tokens)
	if 3 > len(trimmed) || lex.ItemOpenBrace != trimmed[0] || lex.ItemColon != trimmed[1] ||
		lex.ItemCloseBrace != trimmed[len(trimmed)-1] {
		return
	}
	if bytes.IndexByte(trimmed, lex.ItemCloseBrace) != len(trimmed)-1 {
		return
	}
	return trimmed[2 : len(trimmed)-1], true
}

// markerAtStart 识别 tokens 开头的 {: ...} 标记，返回标记体和标记的
// 结束偏移。
func markerAtStart(tokens []byte) (body []byte, end int, ok bool) {
	if 3 > len(tokens) || lex.ItemOpenBrace != tokens[0] || lex.ItemColon != tokens[1] {
		return
	}
	closeIdx := bytes.IndexByte(tokens, lex.ItemCloseBrace)
	if 2 > closeIdx {
		return
	}
	return tokens[2:closeIdx], closeIdx + 1, true
}

// markerAtEnd 识别 tokens 结尾的 {: ...} 标记，返回标记体和标记的
// 开始偏移。allowShort 同时接受标题上的 {#id .cls} 简写形式。
func markerAtEnd(tokens []byte, allowShort bool) (body []byte, start int, ok bool) {
	if 3 > len(tokens) || lex.ItemCloseBrace != tokens[len(tokens)-1] {
		return
	}
	open := bytes.LastIndexByte(tokens, lex.ItemOpenBrace)
	if 0 > open {
		return
	}
	inner := tokens[open+1 : len(tokens)-1]
	if 0 < len(inner) && lex.ItemColon == inner[0] {
		return inner[1:], open, true
	}
	if allowShort && 0 < len(inner) && (lex.ItemCrosshatch == inner[0] || lex.ItemDot == inner[0]) {
		return inner, open, true
	}
	return
}

// Package ast 描述了抽象语法树节点结构。
package ast

import (
	"bytes"
	"strings"
)

// NodeType 描述了节点类型。
type NodeType int

const (
	NodeDocument NodeType = iota
	NodeParagraph
	NodeHeading
	NodeThematicBreak
	NodeBlockquote
	NodeList
	NodeListItem
	NodeCodeBlock
	NodeTable
	NodeTableHead
	NodeTableRow
	NodeTableCell
	NodeToC
	NodeText
	NodeCodeSpan
	NodeEmphasis
	NodeStrong
	NodeLink
	NodeImage
)

func (typ NodeType) String() string {
	switch typ {
	case NodeDocument:
		return "NodeDocument"
	case NodeParagraph:
		return "NodeParagraph"
	case NodeHeading:
		return "NodeHeading"
	case NodeThematicBreak:
		return "NodeThematicBreak"
	case NodeBlockquote:
		return "NodeBlockquote"
	case NodeList:
		return "NodeList"
	case NodeListItem:
		return "NodeListItem"
	case NodeCodeBlock:
		return "NodeCodeBlock"
	case NodeTable:
		return "NodeTable"
	case NodeTableHead:
		return "NodeTableHead"
	case NodeTableRow:
		return "NodeTableRow"
	case NodeTableCell:
		return "NodeTableCell"
	case NodeToC:
		return "NodeToC"
	case NodeText:
		return "NodeText"
	case NodeCodeSpan:
		return "NodeCodeSpan"
	case NodeEmphasis:
		return "NodeEmphasis"
	case NodeStrong:
		return "NodeStrong"
	case NodeLink:
		return "NodeLink"
	case NodeImage:
		return "NodeImage"
	}
	return "NodeUnknown"
}

// 表格单元格对齐方式。
const (
	TableAlignNone = iota
	TableAlignLeft
	TableAlignCenter
	TableAlignRight
)

// Node 描述了树节点结构。节点的布局和链接关系归解析引擎所有，
// 装饰子系统只读取类型和位置并写入 Decorations 一个字段。
type Node struct {
	Type       NodeType
	Parent     *Node
	Previous   *Node
	Next       *Node
	FirstChild *Node
	LastChild  *Node
	Tokens     []byte

	// Decorations 是渲染就绪的属性片段列表，按附加顺序保存。
	// 渲染器将其逐字嵌入到该节点开始标签的属性位置。
	Decorations []string

	HeadingLevel int // 1~6

	IsFencedCodeBlock bool
	CodeBlockInfo     []byte

	ListOrdered bool
	ListStart   int

	LinkDest  []byte
	LinkTitle []byte

	TableAligns []int // 表级：每列的对齐方式

	TableCellAlign        int // 单元格所在列的对齐方式
	TableCellColSpan      int // 列合并数，0 或 1 表示不合并
	TableCellRowSpan      int // 行合并数，0 或 1 表示不合并
	TableCellRemoved      bool // 该单元格不产生任何输出
	TableCellContinuation bool // 纯续行占位单元格（^^）

	TableRowFooter bool   // 该行属于表尾
	TableCaption   []byte // 表标题
}

// Decorate 将属性片段 fragment 附加到节点上，多次附加按顺序拼接。
func (n *Node) Decorate(fragment string) {
	if "" == fragment {
		return
	}
	n.Decorations = append(n.Decorations, fragment)
}

// DecorationAttr 返回拼接后的属性片段，没有装饰时返回 ""。
func (n *Node) DecorationAttr() string {
	if 1 > len(n.Decorations) {
		return ""
	}
	return strings.Join(n.Decorations, " ")
}

// AppendChild 添加一个子节点。
func (n *Node) AppendChild(child *Node) {
	child.Unlink()
	child.Parent = n
	if nil != n.LastChild {
		n.LastChild.Next = child
		child.Previous = n.LastChild
		n.LastChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
}

// PrependChild 添加一个子节点到开头。
func (n *Node) PrependChild(child *Node) {
	child.Unlink()
	child.Parent = n
	if nil != n.FirstChild {
		n.FirstChild.Previous = child
		child.Next = n.FirstChild
		n.FirstChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
}

// InsertAfter 在当前节点后插入一个兄弟节点。
func (n *Node) InsertAfter(sibling *Node) {
	sibling.Unlink()
	sibling.Next = n.Next
	if nil != sibling.Next {
		sibling.Next.Previous = sibling
	}
	sibling.Previous = n
	n.Next = sibling
	sibling.Parent = n.Parent
	if nil == sibling.Next && nil != sibling.Parent {
		sibling.Parent.LastChild = sibling
	}
}

// InsertBefore 在当前节点前插入一个兄弟节点。
func (n *Node) InsertBefore(sibling *Node) {
	sibling.Unlink()
	sibling.Previous = n.Previous
	if nil != sibling.Previous {
		sibling.Previous.Next = sibling
	}
	sibling.Next = n
	n.Previous = sibling
	sibling.Parent = n.Parent
	if nil == sibling.Previous && nil != sibling.Parent {
		sibling.Parent.FirstChild = sibling
	}
}

// Unlink 将当前节点从树上断开。断开后节点自身仍然有效，可以再链接。
func (n *Node) Unlink() {
	if nil != n.Previous {
		n.Previous.Next = n.Next
	} else if nil != n.Parent {
		n.Parent.FirstChild = n.Next
	}
	if nil != n.Next {
		n.Next.Previous = n.Previous
	} else if nil != n.Parent {
		n.Parent.LastChild = n.Previous
	}
	n.Parent = nil
	n.Next = nil
	n.Previous = nil
}

// Text 返回节点及其子节点的文本内容。
func (n *Node) Text() string {
	buf := &bytes.Buffer{}
	Walk(n, func(node *Node, entering bool) WalkStatus {
		if !entering {
			return WalkContinue
		}
		switch node.Type {
		case NodeText, NodeCodeSpan, NodeCodeBlock:
			buf.Write(node.Tokens)
		}
		return WalkContinue
	})
	return buf.String()
}

// TokensStr 返回节点的 Tokens 字符串。
func (n *Node) TokensStr() string {
	return string(n.Tokens)
}

// ChildrenByType 返回当前节点下类型为 typ 的所有子节点（深度优先）。
func (n *Node) ChildrenByType(typ NodeType) (ret []*Node) {
	Walk(n, func(node *Node, entering bool) WalkStatus {
		if entering && typ == node.Type && n != node {
			ret = append(ret, node)
		}
		return WalkContinue
	})
	return
}

// IsBlock 判断节点是否为块级节点。
func (n *Node) IsBlock() bool {
	switch n.Type {
	case NodeDocument, NodeParagraph, NodeHeading, NodeThematicBreak, NodeBlockquote,
		NodeList, NodeListItem, NodeCodeBlock, NodeTable, NodeToC:
		return true
	}
	return false
}

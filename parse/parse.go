// Package parse 实现了对 Markdown 文本的解析，产出语法树。
package parse

import (
	"bytes"
	"strconv"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
)

// Tree 描述了语法树，同时维护一次解析范围内的上下文。
type Tree struct {
	Name    string
	Root    *ast.Node
	Options *Options

	// FrontMatter 是文档头部 YAML 元数据解析后的键值
	FrontMatter map[string]interface{}
}

// Parse 将 tokens 解析为语法树。name 参数仅用于标识文本。
func Parse(name string, tokens []byte, options *Options) (ret *Tree) {
	if nil == options {
		options = NewOptions()
	}
	ret = &Tree{Name: name, Root: &ast.Node{Type: ast.NodeDocument}, Options: options}

	lines := lex.SplitLines(tokens)
	if options.YamlFrontMatter {
		lines = ret.parseFrontMatter(lines)
	}
	ret.parseBlocks(ret.Root, lines)
	ret.parseInlines()
	return
}

// parseBlocks 将 lines 解析为 parent 下的块级节点。
func (t *Tree) parseBlocks(parent *ast.Node, lines [][]byte) {
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := lex.TrimWhitespace(line)

		switch {
		case 1 > len(trimmed):
			i++
		case t.isATXHeading(trimmed):
			t.appendHeading(parent, trimmed)
			i++
		case isThematicBreak(trimmed):
			parent.AppendChild(&ast.Node{Type: ast.NodeThematicBreak})
			i++
		case isFenceOpen(trimmed):
			i = t.parseFencedCode(parent, lines, i)
		case isBlockquoteLine(line):
			i = t.parseBlockquote(parent, lines, i)
		case isListItemLine(trimmed):
			i = t.parseList(parent, lines, i)
		case t.isTableStart(lines, i):
			i = t.parseTable(parent, lines, i)
		default:
			i = t.parseParagraph(parent, lines, i)
		}
	}
}

func (t *Tree) isATXHeading(trimmed []byte) bool {
	level := 0
	for level < len(trimmed) && lex.ItemCrosshatch == trimmed[level] {
		level++
	}
	if 1 > level || 6 < level {
		return false
	}
	return level == len(trimmed) || lex.IsWhitespace(trimmed[level])
}

func (t *Tree) appendHeading(parent *ast.Node, trimmed []byte) {
	level := 0
	for level < len(trimmed) && lex.ItemCrosshatch == trimmed[level] {
		level++
	}
	content := lex.TrimWhitespace(trimmed[level:])
	// 去掉 ATX 结尾的 # 序列
	content = bytes.TrimRight(content, "#")
	content = bytes.TrimRight(content, " \t")

	heading := &ast.Node{Type: ast.NodeHeading, HeadingLevel: level, Tokens: content}
	parent.AppendChild(heading)
}

func isThematicBreak(trimmed []byte) bool {
	markerCnt := 0
	var marker byte
	for _, token := range trimmed {
		if lex.ItemSpace == token || lex.ItemTab == token {
			continue
		}
		if lex.ItemHyphen != token && lex.ItemUnderscore != token && lex.ItemAsterisk != token {
			return false
		}
		if 0 != marker && marker != token {
			return false
		}
		marker = token
		markerCnt++
	}
	return 3 <= markerCnt
}

func isFenceOpen(trimmed []byte) bool {
	return fenceLen(trimmed, lex.ItemBacktick) >= 3 || fenceLen(trimmed, lex.ItemTilde) >= 3
}

func fenceLen(trimmed []byte, marker byte) (ret int) {
	for ret < len(trimmed) && marker == trimmed[ret] {
		ret++
	}
	return
}

func (t *Tree) parseFencedCode(parent *ast.Node, lines [][]byte, i int) int {
	open := lex.TrimWhitespace(lines[i])
	marker := open[0]
	openLen := fenceLen(open, marker)
	info := lex.TrimWhitespace(open[openLen:])

	var content [][]byte
	j := i + 1
	for ; j < len(lines); j++ {
		trimmed := lex.TrimWhitespace(lines[j])
		if 0 < len(trimmed) && marker == trimmed[0] && fenceLen(trimmed, marker) >= openLen &&
			fenceLen(trimmed, marker) == len(trimmed) {
			j++
			break
		}
		content = append(content, lines[j])
	}

	code := &ast.Node{Type: ast.NodeCodeBlock, IsFencedCodeBlock: true, CodeBlockInfo: info}
	if 0 < len(content) {
		code.Tokens = append(bytes.Join(content, []byte{lex.ItemNewline}), lex.ItemNewline)
	}
	parent.AppendChild(code)
	return j
}

func isBlockquoteLine(line []byte) bool {
	_, remains := lex.TrimLeftWhitespace(line)
	return 0 < len(remains) && lex.ItemGreater == remains[0]
}

func (t *Tree) parseBlockquote(parent *ast.Node, lines [][]byte, i int) int {
	var inner [][]byte
	j := i
	for ; j < len(lines); j++ {
		if !isBlockquoteLine(lines[j]) {
			break
		}
		_, remains := lex.TrimLeftWhitespace(lines[j])
		remains = remains[1:]
		if 0 < len(remains) && lex.ItemSpace == remains[0] {
			remains = remains[1:]
		}
		inner = append(inner, remains)
	}

	bq := &ast.Node{Type: ast.NodeBlockquote}
	parent.AppendChild(bq)
	t.parseBlocks(bq, inner)
	return j
}

// listItemMarker 返回列表项标记信息：marker 长度（含其后空格）和是否有序。
func listItemMarker(trimmed []byte) (markerLen int, ordered bool, start int, ok bool) {
	if 1 > len(trimmed) {
		return
	}
	c := trimmed[0]
	if lex.ItemHyphen == c || lex.ItemAsterisk == c || lex.ItemPlus == c {
		if 1 < len(trimmed) && lex.IsWhitespace(trimmed[1]) {
			return 2, false, 0, true
		}
		return
	}
	digits := 0
	for digits < len(trimmed) && '0' <= trimmed[digits] && '9' >= trimmed[digits] {
		digits++
	}
	if 1 > digits || 9 < digits || digits+1 >= len(trimmed) {
		return
	}
	if ('.' == trimmed[digits] || ')' == trimmed[digits]) && lex.IsWhitespace(trimmed[digits+1]) {
		start, _ = strconv.Atoi(string(trimmed[:digits]))
		return digits + 2, true, start, true
	}
	return
}

func isListItemLine(trimmed []byte) bool {
	_, _, _, ok := listItemMarker(trimmed)
	return ok
}

func (t *Tree) parseList(parent *ast.Node, lines [][]byte, i int) int {
	first := lex.TrimWhitespace(lines[i])
	_, ordered, start, _ := listItemMarker(first)

	list := &ast.Node{Type: ast.NodeList, ListOrdered: ordered, ListStart: start}
	parent.AppendChild(list)

	var item *ast.Node
	j := i
	for ; j < len(lines); j++ {
		trimmed := lex.TrimWhitespace(lines[j])
		if 1 > len(trimmed) {
			j++
			break
		}
		if markerLen, itemOrdered, _, ok := listItemMarker(trimmed); ok {
			if itemOrdered != ordered {
				break
			}
			item = &ast.Node{Type: ast.NodeListItem}
			list.AppendChild(item)
			p := &ast.Node{Type: ast.NodeParagraph, Tokens: lex.TrimWhitespace(trimmed[markerLen-1:])}
			item.AppendChild(p)
			continue
		}
		if nil == item {
			break
		}
		// 列表项的延续行
		p := item.LastChild
		p.Tokens = append(p.Tokens, lex.ItemNewline)
		p.Tokens = append(p.Tokens, trimmed...)
	}
	return j
}

func (t *Tree) parseParagraph(parent *ast.Node, lines [][]byte, i int) int {
	var content [][]byte
	j := i
	for ; j < len(lines); j++ {
		trimmed := lex.TrimWhitespace(lines[j])
		if 1 > len(trimmed) {
			break
		}
		if 0 < len(content) && t.interruptsParagraph(lines, j, trimmed) {
			break
		}
		content = append(content, trimmed)
	}

	tokens := bytes.Join(content, []byte{lex.ItemNewline})
	if t.Options.ToC && 1 == len(content) && bytes.EqualFold(tokens, []byte("[toc]")) {
		parent.AppendChild(&ast.Node{Type: ast.NodeToC})
		return j
	}

	p := &ast.Node{Type: ast.NodeParagraph, Tokens: tokens}
	parent.AppendChild(p)
	return j
}

// interruptsParagraph 判断第 j 行是否中断当前段落的积累。
func (t *Tree) interruptsParagraph(lines [][]byte, j int, trimmed []byte) bool {
	return t.isATXHeading(trimmed) || isThematicBreak(trimmed) || isFenceOpen(trimmed) ||
		isBlockquoteLine(lines[j]) || isListItemLine(trimmed) || t.isTableStart(lines, j)
}

package parse

import (
	"bytes"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
)

// parseInlines 把块级节点上暂存的 Tokens 解析为行级子节点。
func (t *Tree) parseInlines() {
	ast.Walk(t.Root, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.WalkContinue
		}
		switch n.Type {
		case ast.NodeParagraph, ast.NodeHeading, ast.NodeTableCell:
			if nil == n.FirstChild && 0 < len(n.Tokens) {
				for _, child := range parseInline(n.Tokens) {
					n.AppendChild(child)
				}
				n.Tokens = nil
			}
		}
		return ast.WalkContinue
	})
}

// parseInline 将 tokens 解析为行级节点列表。无法闭合的标记按字面文本
// 处理，不报错。
func parseInline(tokens []byte) (ret []*ast.Node) {
	var text []byte
	appendText := func() {
		if 0 < len(text) {
			ret = append(ret, &ast.Node{Type: ast.NodeText, Tokens: text})
			text = nil
		}
	}

	pos := 0
	length := len(tokens)
	for pos < length {
		token := tokens[pos]
		switch token {
		case lex.ItemBackslash:
			if pos+1 < length && isPunct(tokens[pos+1]) {
				text = append(text, tokens[pos+1])
				pos += 2
				continue
			}
			text = append(text, token)
			pos++
		case lex.ItemBacktick:
			if node, next := parseCodeSpan(tokens, pos); nil != node {
				appendText()
				ret = append(ret, node)
				pos = next
				continue
			}
			text = append(text, token)
			pos++
		case lex.ItemAsterisk, lex.ItemUnderscore:
			if node, next := parseEmphasis(tokens, pos); nil != node {
				appendText()
				ret = append(ret, node)
				pos = next
				continue
			}
			text = append(text, token)
			pos++
		case lex.ItemBang:
			if node, next := parseLink(tokens, pos+1, true); nil != node {
				appendText()
				ret = append(ret, node)
				pos = next
				continue
			}
			text = append(text, token)
			pos++
		case lex.ItemOpenBracket:
			if node, next := parseLink(tokens, pos, false); nil != node {
				appendText()
				ret = append(ret, node)
				pos = next
				continue
			}
			text = append(text, token)
			pos++
		default:
			text = append(text, token)
			pos++
		}
	}
	appendText()
	return
}

func isPunct(token byte) bool {
	return (token >= '!' && token <= '/') || (token >= ':' && token <= '@') ||
		(token >= '[' && token <= '`') || (token >= '{' && token <= '~')
}

func parseCodeSpan(tokens []byte, pos int) (ret *ast.Node, next int) {
	openLen := 0
	for pos+openLen < len(tokens) && lex.ItemBacktick == tokens[pos+openLen] {
		openLen++
	}
	opener := tokens[pos : pos+openLen]
	closer := bytes.Index(tokens[pos+openLen:], opener)
	for 0 <= closer {
		// 关闭序列必须与开启序列等长
		end := pos + openLen + closer
		closeLen := 0
		for end+closeLen < len(tokens) && lex.ItemBacktick == tokens[end+closeLen] {
			closeLen++
		}
		if closeLen == openLen {
			content := tokens[pos+openLen : end]
			return &ast.Node{Type: ast.NodeCodeSpan, Tokens: content}, end + closeLen
		}
		advance := bytes.Index(tokens[end+closeLen:], opener)
		if 0 > advance {
			break
		}
		closer = closer + closeLen + advance
	}
	return nil, pos
}

func parseEmphasis(tokens []byte, pos int) (ret *ast.Node, next int) {
	marker := tokens[pos]
	strong := pos+1 < len(tokens) && marker == tokens[pos+1]

	if strong {
		delim := []byte{marker, marker}
		end := bytes.Index(tokens[pos+2:], delim)
		if 0 > end || 0 == end {
			strong = false
		} else {
			content := tokens[pos+2 : pos+2+end]
			node := &ast.Node{Type: ast.NodeStrong}
			for _, child := range parseInline(content) {
				node.AppendChild(child)
			}
			return node, pos + 2 + end + 2
		}
	}

	end := bytes.IndexByte(tokens[pos+1:], marker)
	if 1 > end {
		return nil, pos
	}
	content := tokens[pos+1 : pos+1+end]
	if lex.IsBlank(content) {
		return nil, pos
	}
	node := &ast.Node{Type: ast.NodeEmphasis}
	for _, child := range parseInline(content) {
		node.AppendChild(child)
	}
	return node, pos + 1 + end + 1
}

// parseLink 解析 [text](dest "title") 或 ![alt](src "title")。
func parseLink(tokens []byte, pos int, image bool) (ret *ast.Node, next int) {
	if pos >= len(tokens) || lex.ItemOpenBracket != tokens[pos] {
		return nil, pos
	}

	depth := 0
	closeIdx := -1
	for i := pos; i < len(tokens); i++ {
		switch tokens[i] {
		case lex.ItemBackslash:
			i++
		case lex.ItemOpenBracket:
			depth++
		case lex.ItemCloseBracket:
			depth--
			if 0 == depth {
				closeIdx = i
			}
		}
		if 0 <= closeIdx {
			break
		}
	}
	if 0 > closeIdx || closeIdx+1 >= len(tokens) || lex.ItemOpenParen != tokens[closeIdx+1] {
		return nil, pos
	}

	parenEnd := -1
	for i := closeIdx + 2; i < len(tokens); i++ {
		if lex.ItemBackslash == tokens[i] {
			i++
			continue
		}
		if lex.ItemCloseParen == tokens[i] {
			parenEnd = i
			break
		}
	}
	if 0 > parenEnd {
		return nil, pos
	}

	dest, title := splitLinkDest(lex.TrimWhitespace(tokens[closeIdx+2 : parenEnd]))
	label := tokens[pos+1 : closeIdx]

	typ := ast.NodeLink
	if image {
		typ = ast.NodeImage
	}
	node := &ast.Node{Type: typ, LinkDest: dest, LinkTitle: title}
	for _, child := range parseInline(label) {
		node.AppendChild(child)
	}
	return node, parenEnd + 1
}

func splitLinkDest(tokens []byte) (dest, title []byte) {
	space := bytes.IndexAny(tokens, " \t")
	if 0 > space {
		return tokens, nil
	}
	dest = tokens[:space]
	rest := lex.TrimWhitespace(tokens[space:])
	if 2 <= len(rest) && lex.ItemDoublequote == rest[0] && lex.ItemDoublequote == rest[len(rest)-1] {
		title = rest[1 : len(rest)-1]
	}
	return
}

// Package attr 实现了花括号属性微语法的解析（{: .cls #id key="value"}）
// 以及具名属性定义表。本包只做文本到结构的转换，不依赖语法树。
package attr

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/pafthang/mdk/lex"
	"github.com/pafthang/mdk/util"
)

// Set 描述了一组属性：至多一个 id、有序的 class 列表和有序的键值对列表。
// class 和键值对保留重复项和插入顺序。
type Set struct {
	ID      string
	Classes []string
	Pairs   [][]string // 每项为 {key, value}
}

// IsEmpty 判断属性集是否为空。
func (s *Set) IsEmpty() bool {
	return "" == s.ID && 1 > len(s.Classes) && 1 > len(s.Pairs)
}

// Clone 深拷贝属性集。
func (s *Set) Clone() (ret *Set) {
	ret = &Set{ID: s.ID}
	ret.Classes = append(ret.Classes, s.Classes...)
	for _, pair := range s.Pairs {
		ret.Pairs = append(ret.Pairs, []string{pair[0], pair[1]})
	}
	return
}

// MergeOver 将 over 合并到当前属性集上：id 替换，class 追加，
// 键值对按键覆盖，其余追加。
func (s *Set) MergeOver(over *Set) {
	if nil == over {
		return
	}
	if "" != over.ID {
		s.ID = over.ID
	}
	s.Classes = append(s.Classes, over.Classes...)
	for _, pair := range over.Pairs {
		s.replacePair(pair[0], pair[1])
	}
}

// replacePair 覆盖第一个同键项并删除其余同键项，不存在时追加。
func (s *Set) replacePair(key, value string) {
	replaced := false
	pairs := s.Pairs[:0]
	for _, pair := range s.Pairs {
		if key == pair[0] {
			if !replaced {
				pairs = append(pairs, []string{key, value})
				replaced = true
			}
			continue
		}
		pairs = append(pairs, pair)
	}
	if !replaced {
		pairs = append(pairs, []string{key, value})
	}
	s.Pairs = pairs
}

// Attrs 返回渲染用的属性对列表，class 在前，id 次之，键值对最后。
func (s *Set) Attrs() (ret [][]string) {
	if 0 < len(s.Classes) {
		ret = append(ret, []string{"class", strings.Join(s.Classes, " ")})
	}
	if "" != s.ID {
		ret = append(ret, []string{"id", s.ID})
	}
	for _, pair := range s.Pairs {
		ret = append(ret, []string{pair[0], pair[1]})
	}
	return
}

// String 将属性集渲染为属性片段，比如 class="warning" id="w1"。
func (s *Set) String() string {
	buf := &bytes.Buffer{}
	for i, pair := range s.Attrs() {
		if 0 < i {
			buf.WriteByte(lex.ItemSpace)
		}
		buf.WriteString(pair[0])
		buf.WriteString("=\"")
		buf.WriteString(escapeAttrValue(pair[1]))
		buf.WriteByte(lex.ItemDoublequote)
	}
	return buf.String()
}

func escapeAttrValue(value string) string {
	if !strings.ContainsAny(value, "&\"<") {
		return value
	}
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "\"", "&quot;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	return value
}

// ParseBody 解析花括号属性体 body（不含定界符），返回属性集。
// body 为空或没有解析出任何属性时返回 nil；非法 token 跳过，不报错。
//
// body 的第一个 token 是不含 #、.、= 的裸词时视为引用：在 registry
// 中按名字精确查找，找到则在其上合并剩余 token；找不到则把整个 body
// 按普通 token 解析。
func ParseBody(body []byte, registry *Registry) *Set {
	body = lex.TrimWhitespace(body)
	if 1 > len(body) {
		return nil
	}

	first, rest := firstToken(body)
	if isBareName(first) && nil != registry {
		if def := registry.Get(util.BytesToStr(first)); nil != def {
			ret := def.Clone()
			ret.MergeOver(parseTokens(rest))
			return ret
		}
	}

	ret := parseTokens(body)
	if nil == ret || ret.IsEmpty() {
		return nil
	}
	return ret
}

func firstToken(tokens []byte) (first, rest []byte) {
	i := 0
	for i < len(tokens) && !lex.IsWhitespace(tokens[i]) {
		i++
	}
	return tokens[:i], tokens[i:]
}

func isBareName(token []byte) bool {
	if 1 > len(token) {
		return false
	}
	return !bytes.ContainsAny(token, "#.=")
}

// parseTokens 从左到右扫描空白分隔的 token：#name 设置 id（后出现者
// 生效）、.name 追加 class、key=value 追加键值对，其余跳过。
func parseTokens(tokens []byte) (ret *Set) {
	ret = &Set{}
	pos := 0
	length := len(tokens)
	for pos < length {
		for pos < length && lex.IsWhitespace(tokens[pos]) {
			pos++
		}
		if pos >= length {
			break
		}

		switch tokens[pos] {
		case lex.ItemCrosshatch:
			name, next := scanWord(tokens, pos+1)
			if 0 < len(name) {
				ret.ID = util.BytesToStr(name)
			}
			pos = next
		case lex.ItemDot:
			name, next := scanWord(tokens, pos+1)
			if 0 < len(name) {
				ret.Classes = append(ret.Classes, util.BytesToStr(name))
			}
			pos = next
		default:
			key, next := scanKey(tokens, pos)
			if next < length && lex.ItemEqual == tokens[next] && 0 < len(key) {
				value, after := scanValue(tokens, next+1)
				ret.put(util.BytesToStr(key), util.BytesToStr(value))
				pos = after
			} else {
				// 裸词不是合法 token，跳过
				_, pos = scanWord(tokens, pos)
			}
		}
	}
	if ret.IsEmpty() {
		return nil
	}
	return
}

// put 追加一个键值对。id 和 class 两个键特殊处理，以便属性片段可以
// 往返解析回等价的属性集。重复的普通键按原样累积。
func (s *Set) put(key, value string) {
	switch key {
	case "id":
		s.ID = value
	case "class":
		s.Classes = append(s.Classes, strings.Fields(value)...)
	default:
		s.Pairs = append(s.Pairs, []string{key, value})
	}
}

func scanWord(tokens []byte, pos int) (word []byte, next int) {
	next = pos
	for next < len(tokens) && !lex.IsWhitespace(tokens[next]) {
		next++
	}
	word = tokens[pos:next]
	return
}

func scanKey(tokens []byte, pos int) (key []byte, next int) {
	next = pos
	for next < len(tokens) && !lex.IsWhitespace(tokens[next]) && lex.ItemEqual != tokens[next] {
		next++
	}
	key = tokens[pos:next]
	return
}

// 弯引号定界符对。
var (
	curlyOpeners = map[rune]rune{'“': '”', '‘': '’'}
)

// scanValue 解析 key= 之后的值：双引号、单引号或弯引号包围的串
//（三类定界符等价，直引号内反斜杠转义按字面透传），或到空白为止的
// 不带引号的串。
func scanValue(tokens []byte, pos int) (value []byte, next int) {
	length := len(tokens)
	if pos >= length {
		return nil, pos
	}

	if quote := tokens[pos]; lex.ItemDoublequote == quote || lex.ItemSinglequote == quote {
		next = pos + 1
		for next < length {
			if lex.ItemBackslash == tokens[next] && next+1 < length {
				next += 2
				continue
			}
			if quote == tokens[next] {
				return tokens[pos+1 : next], next + 1
			}
			next++
		}
		// 引号未闭合，取到结尾
		return tokens[pos+1:], length
	}

	if r, size := utf8.DecodeRune(tokens[pos:]); utf8.RuneError != r {
		if closer, ok := curlyOpeners[r]; ok {
			next = pos + size
			start := next
			for next < length {
				c, cSize := utf8.DecodeRune(tokens[next:])
				if closer == c {
					return tokens[start:next], next + cSize
				}
				next += cSize
			}
			return tokens[start:], length
		}
	}

	next = pos
	for next < length && !lex.IsWhitespace(tokens[next]) {
		next++
	}
	return tokens[pos:next], next
}

package attr

import (
	"bytes"

	"github.com/pafthang/mdk/lex"
	"github.com/pafthang/mdk/util"
)

// Registry 是一次转换范围内的具名属性定义表。定义行（{:name:body}）
// 在解析前收集并从文本中删除，解析引擎不会看到定义语法。
type Registry struct {
	defs map[string]*Set
}

// NewRegistry 创建一个空的定义表。
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*Set{}}
}

// Get 按名字精确查找定义，不存在时返回 nil。
func (r *Registry) Get(name string) *Set {
	return r.defs[name]
}

// Put 存入一个定义。
func (r *Registry) Put(name string, set *Set) {
	r.defs[name] = set
}

// Len 返回定义数量。
func (r *Registry) Len() int {
	return len(r.defs)
}

// CollectDefinitions 对 text 做一次线性扫描，收集所有定义行并将其从
// 文本中删除。没有发现定义时原样返回输入，调用方可以据此跳过后续处理。
func (r *Registry) CollectDefinitions(text []byte) []byte {
	if !bytes.Contains(text, []byte("{:")) {
		return text
	}

	lines := lex.SplitLines(text)
	var out [][]byte
	changed := false
	for _, line := range lines {
		if name, body, ok := matchDefinition(line); ok {
			if set := ParseBody(body, r); nil != set {
				r.Put(util.BytesToStr(name), set)
			}
			changed = true
			continue
		}
		out = append(out, line)
	}
	if !changed {
		return text
	}
	return bytes.Join(out, []byte{lex.ItemNewline})
}

// matchDefinition 判断 line（去除两端空白后）是否匹配 {:name:body}。
// name 是 {: 之后到下一个冒号为止的串，不允许为空或含空白、花括号。
func matchDefinition(line []byte) (name, body []byte, ok bool) {
	line = lex.TrimWhitespace(line)
	if 5 > len(line) || lex.ItemOpenBrace != line[0] || lex.ItemColon != line[1] ||
		lex.ItemCloseBrace != line[len(line)-1] {
		return
	}

	inner := line[2 : len(line)-1]
	colon := bytes.IndexByte(inner, lex.ItemColon)
	if 1 > colon {
		return
	}

	name = lex.TrimWhitespace(inner[:colon])
	if 1 > len(name) || bytes.ContainsAny(name, " \t{}") {
		return
	}
	body = inner[colon+1:]
	ok = true
	return
}

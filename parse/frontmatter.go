package parse

import (
	"bytes"

	"github.com/pafthang/mdk/lex"
	"gopkg.in/yaml.v3"
)

var frontMatterFence = []byte("---")

// parseFrontMatter 识别并剥离文档最前面的 YAML Front Matter，
// 解析结果放到 Tree.FrontMatter 上。识别失败时原样返回 lines。
func (t *Tree) parseFrontMatter(lines [][]byte) [][]byte {
	if 2 > len(lines) || !bytes.Equal(lex.TrimWhitespace(lines[0]), frontMatterFence) {
		return lines
	}

	for i := 1; i < len(lines); i++ {
		if !bytes.Equal(lex.TrimWhitespace(lines[i]), frontMatterFence) {
			continue
		}
		meta := map[string]interface{}{}
		if err := yaml.Unmarshal(bytes.Join(lines[1:i], []byte{lex.ItemNewline}), &meta); nil != err {
			return lines
		}
		t.FrontMatter = meta
		return lines[i+1:]
	}
	return lines
}

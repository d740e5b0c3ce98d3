package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBody(t *testing.T) {
	for _, test := range []struct {
		body     string
		expected string
	}{
		{".btn", `class="btn"`},
		{"#w1", `id="w1"`},
		{".warning #w1", `class="warning" id="w1"`},
		{"#w1 .warning", `class="warning" id="w1"`},
		{".a .b .a", `class="a b a"`},
		{`title="hello"`, `title="hello"`},
		{`title='hello'`, `title="hello"`},
		{"title=hello", `title="hello"`},
		{`data-x="a b" .c`, `class="c" data-x="a b"`},
		{`title="say \"hi\""`, `title="say \&quot;hi\&quot;"`},
		{`title=“curly value”`, `title="curly value"`},
		{"title=‘single curly’", `title="single curly"`},
		{"", ``},
		{"   ", ``},
	} {
		set := ParseBody([]byte(test.body), NewRegistry())
		if "" == test.expected {
			assert.Nil(t, set, "body %q", test.body)
			continue
		}
		if assert.NotNil(t, set, "body %q", test.body) {
			assert.Equal(t, test.expected, set.String(), "body %q", test.body)
		}
	}
}

func TestParseBodyDuplicateKeys(t *testing.T) {
	// 重复键在直接解析时全部保留
	set := ParseBody([]byte(`data-x="1" data-x="2"`), NewRegistry())
	assert.NotNil(t, set)
	assert.Equal(t, `data-x="1" data-x="2"`, set.String())
}

func TestParseBodyIDClassKeys(t *testing.T) {
	// id= 和 class= 键值写法回落到 ID 和 Classes 上
	set := ParseBody([]byte(`id="w1" class="warning"`), NewRegistry())
	assert.NotNil(t, set)
	assert.Equal(t, "w1", set.ID)
	assert.Equal(t, []string{"warning"}, set.Classes)
	assert.Equal(t, `class="warning" id="w1"`, set.String())
}

func TestMergeOver(t *testing.T) {
	base := ParseBody([]byte(`.a #x k="1" j="2"`), NewRegistry())
	over := ParseBody([]byte(`.b #y k="9"`), NewRegistry())
	base.MergeOver(over)

	assert.Equal(t, "y", base.ID)
	assert.Equal(t, []string{"a", "b"}, base.Classes)
	assert.Equal(t, [][]string{{"k", "9"}, {"j", "2"}}, base.Pairs)
}

func TestCloneIndependence(t *testing.T) {
	orig := ParseBody([]byte(`.a k="1"`), NewRegistry())
	clone := orig.Clone()
	clone.Classes = append(clone.Classes, "b")
	clone.replacePair("k", "2")

	assert.Equal(t, []string{"a"}, orig.Classes)
	assert.Equal(t, [][]string{{"k", "1"}}, orig.Pairs)
}

func TestParseBodyReference(t *testing.T) {
	registry := NewRegistry()
	registry.Put("warn", &Set{ID: "w1", Classes: []string{"warning"}})

	// 引用命中：在定义之上合并剩余 token
	set := ParseBody([]byte("warn .extra"), registry)
	assert.NotNil(t, set)
	assert.Equal(t, `class="warning extra" id="w1"`, set.String())

	// 引用未命中：整个 body 按普通 token 解析，裸词被跳过
	set = ParseBody([]byte("missing .extra"), registry)
	assert.NotNil(t, set)
	assert.Equal(t, `class="extra"`, set.String())

	// 引用不应污染定义本身
	def := registry.Get("warn")
	assert.Equal(t, []string{"warning"}, def.Classes)
}

func TestStringEscaping(t *testing.T) {
	set := &Set{Pairs: [][]string{{"title", `a "b" & <c>`}}}
	assert.Equal(t, `title="a &quot;b&quot; &amp; &lt;c>"`, set.String())
}

func TestParseTOCMarker(t *testing.T) {
	_, ok := ParseTOCMarker([]byte(" toc "))
	assert.True(t, ok)
	_, ok = ParseTOCMarker([]byte("TOC"))
	assert.True(t, ok)
	options, ok := ParseTOCMarker([]byte("toc depth=2"))
	assert.True(t, ok)
	assert.Equal(t, "depth=2", string(options))
	_, ok = ParseTOCMarker([]byte("tocx"))
	assert.False(t, ok)
	_, ok = ParseTOCMarker([]byte(".toc"))
	assert.False(t, ok)
}

package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDefinitions(t *testing.T) {
	registry := NewRegistry()
	input := []byte("{:warn: .warning #w1}\n\nSome text.\n{:note: .note}\n")
	out := registry.CollectDefinitions(input)

	assert.Equal(t, "\nSome text.\n", string(out))
	assert.Equal(t, 2, registry.Len())

	warn := registry.Get("warn")
	require.NotNil(t, warn)
	assert.Equal(t, "w1", warn.ID)
	assert.Equal(t, []string{"warning"}, warn.Classes)

	require.NotNil(t, registry.Get("note"))
	assert.Nil(t, registry.Get("missing"))
}

func TestCollectDefinitionsUnchanged(t *testing.T) {
	registry := NewRegistry()

	// 没有定义行时原样返回输入切片
	input := []byte("plain text\n{: .inline-marker}\n")
	out := registry.CollectDefinitions(input)
	assert.Equal(t, &input[0], &out[0])
	assert.Equal(t, 0, registry.Len())

	// 完全不含 {: 的文本走快速路径
	input = []byte("no braces here")
	out = registry.CollectDefinitions(input)
	assert.Equal(t, &input[0], &out[0])
}

func TestCollectDefinitionsRejects(t *testing.T) {
	for _, line := range []string{
		"{:: .warning}",        // 空名字
		"{:bad name: .x}",      // 名字含空白
		"{:a{b: .x}",           // 名字含花括号
		"{:warn .warning}",     // 缺少第二个冒号
		"x {:warn: .warning}",  // 不在行首
		"{:warn: .warning} x",  // 不在行尾
	} {
		registry := NewRegistry()
		out := registry.CollectDefinitions([]byte(line))
		assert.Equal(t, line, string(out), "line %q", line)
		assert.Equal(t, 0, registry.Len(), "line %q", line)
	}
}

func TestCollectDefinitionsChaining(t *testing.T) {
	// 后收集的定义可以引用先收集的
	registry := NewRegistry()
	registry.CollectDefinitions([]byte("{:base: .box}\n{:warn: base .warning}\n"))

	warn := registry.Get("warn")
	require.NotNil(t, warn)
	assert.Equal(t, []string{"box", "warning"}, warn.Classes)
}

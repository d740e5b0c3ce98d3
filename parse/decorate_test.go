package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/attr"
)

func decorated(t *testing.T, input string) *Tree {
	t.Helper()
	registry := attr.NewRegistry()
	text := registry.CollectDefinitions([]byte(input))
	tree := Parse("", text, NewOptions())
	Decorate(tree, registry)
	return tree
}

func TestDecorateHeadingMarker(t *testing.T) {
	tree := decorated(t, "# Title {: .big #t1}\n")
	heading := tree.Root.FirstChild
	require.Equal(t, ast.NodeHeading, heading.Type)
	assert.Equal(t, []string{`class="big" id="t1"`}, heading.Decorations)
	assert.Equal(t, "Title", heading.Text())
}

func TestDecorateHeadingShortForm(t *testing.T) {
	tree := decorated(t, "## Section {#sec .wide}\n")
	heading := tree.Root.FirstChild
	assert.Equal(t, []string{`class="wide" id="sec"`}, heading.Decorations)
	assert.Equal(t, "Section", heading.Text())

	// 简写形式随标题 ID 选项关闭
	registry := attr.NewRegistry()
	options := NewOptions()
	options.HeadingID = false
	tree = Parse("", []byte("## Section {#sec .wide}\n"), options)
	Decorate(tree, registry)
	heading = tree.Root.FirstChild
	assert.Empty(t, heading.Decorations)
	assert.Equal(t, "Section {#sec .wide}", heading.Text())
}

func TestDecorateInlineMarker(t *testing.T) {
	tree := decorated(t, "See [docs](https://e.com){: .btn} now.\n")
	p := tree.Root.FirstChild
	link := p.ChildrenByType(ast.NodeLink)[0]
	assert.Equal(t, []string{`class="btn"`}, link.Decorations)

	// 标记文本已从后继文本节点剥离
	assert.Equal(t, "See docs now.", p.Text())
}

func TestDecorateInlineMarkerAfterWhitespace(t *testing.T) {
	tree := decorated(t, "A *word* {: .hl} here.\n")
	p := tree.Root.FirstChild
	em := p.ChildrenByType(ast.NodeEmphasis)[0]
	assert.Equal(t, []string{`class="hl"`}, em.Decorations)
	assert.Equal(t, "A word  here.", p.Text())
}

func TestDecorateInlineNoTarget(t *testing.T) {
	// 没有可装饰元素时标记按字面保留
	tree := decorated(t, "{: .orphan} plain text\n")
	p := tree.Root.FirstChild
	assert.Equal(t, "{: .orphan} plain text", p.Text())
}

func TestDecorateBlockTrailing(t *testing.T) {
	tree := decorated(t, "Some paragraph.\n\n{: .note}\n\nNext.\n")
	p := tree.Root.FirstChild
	assert.Equal(t, []string{`class="note"`}, p.Decorations)

	// 标记段落已删除
	next := p.Next
	require.NotNil(t, next)
	assert.Equal(t, "Next.", next.Text())
	assert.Empty(t, next.Decorations)
}

func TestDecorateBlockTrailingTable(t *testing.T) {
	tree := decorated(t, "| a |\n|---|\n| 1 |\n\n{: .stats}\n")
	table := tree.Root.FirstChild
	require.Equal(t, ast.NodeTable, table.Type)
	assert.Equal(t, []string{`class="stats"`}, table.Decorations)
	assert.Nil(t, table.Next)
}

func TestDecorateTableCellMarker(t *testing.T) {
	tree := decorated(t, "| a {: .hl} | b |\n|---|---|\n| 1 | 2 |\n")
	table := tree.Root.FirstChild
	require.Equal(t, ast.NodeTable, table.Type)
	cell := table.FirstChild.FirstChild.FirstChild
	assert.Equal(t, []string{`class="hl"`}, cell.Decorations)
	assert.Equal(t, "a", cell.Text())
	assert.Empty(t, table.FirstChild.FirstChild.LastChild.Decorations)
}

func TestDecorateReference(t *testing.T) {
	tree := decorated(t, "{:warn: .warning #w1}\n\nHeads up.\n\n{: warn}\n")
	p := tree.Root.FirstChild
	assert.Equal(t, []string{`class="warning" id="w1"`}, p.Decorations)
}

func TestDecorateTOCMarkerParagraph(t *testing.T) {
	tree := decorated(t, "{: toc}\n\n# One\n")
	assert.Equal(t, ast.NodeToC, tree.Root.FirstChild.Type)
	assert.Equal(t, ast.NodeHeading, tree.Root.FirstChild.Next.Type)
}

func TestDecorateDisabled(t *testing.T) {
	options := NewOptions()
	options.Attribute = false
	tree := Parse("", []byte("# Title {: .big}\n"), options)
	Decorate(tree, attr.NewRegistry())
	assert.Empty(t, tree.Root.FirstChild.Decorations)
	assert.Equal(t, "Title {: .big}", tree.Root.FirstChild.Text())
}

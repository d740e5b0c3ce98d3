package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pafthang/mdk/ast"
)

func TestParseBlocks(t *testing.T) {
	tree := Parse("", []byte("# Title\n\nSome text.\n\n> quoted\n\n- one\n- two\n\n---\n"), NewOptions())

	var types []ast.NodeType
	for child := tree.Root.FirstChild; nil != child; child = child.Next {
		types = append(types, child.Type)
	}
	assert.Equal(t, []ast.NodeType{
		ast.NodeHeading, ast.NodeParagraph, ast.NodeBlockquote, ast.NodeList, ast.NodeThematicBreak,
	}, types)

	heading := tree.Root.FirstChild
	assert.Equal(t, 1, heading.HeadingLevel)
	assert.Equal(t, "Title", heading.Text())

	list := tree.Root.FirstChild.Next.Next.Next
	assert.False(t, list.ListOrdered)
	assert.Len(t, list.ChildrenByType(ast.NodeListItem), 2)
}

func TestParseOrderedList(t *testing.T) {
	tree := Parse("", []byte("3. three\n4. four\n"), NewOptions())
	list := tree.Root.FirstChild
	require.Equal(t, ast.NodeList, list.Type)
	assert.True(t, list.ListOrdered)
	assert.Equal(t, 3, list.ListStart)
}

func TestParseFencedCode(t *testing.T) {
	tree := Parse("", []byte("```go\nfmt.Println(1)\n```\n"), NewOptions())
	code := tree.Root.FirstChild
	require.Equal(t, ast.NodeCodeBlock, code.Type)
	assert.True(t, code.IsFencedCodeBlock)
	assert.Equal(t, "go", string(code.CodeBlockInfo))
	assert.Equal(t, "fmt.Println(1)\n", string(code.Tokens))
}

func TestParseInlines(t *testing.T) {
	tree := Parse("", []byte("a *em* **strong** `code` [t](https://e.com \"ti\") x\n"), NewOptions())
	p := tree.Root.FirstChild
	require.Equal(t, ast.NodeParagraph, p.Type)

	var types []ast.NodeType
	for child := p.FirstChild; nil != child; child = child.Next {
		types = append(types, child.Type)
	}
	assert.Equal(t, []ast.NodeType{
		ast.NodeText, ast.NodeEmphasis, ast.NodeText, ast.NodeStrong, ast.NodeText,
		ast.NodeCodeSpan, ast.NodeText, ast.NodeLink, ast.NodeText,
	}, types)

	link := p.ChildrenByType(ast.NodeLink)[0]
	assert.Equal(t, "https://e.com", string(link.LinkDest))
	assert.Equal(t, "ti", string(link.LinkTitle))
	assert.Equal(t, "t", link.Text())
}

func TestParseFrontMatter(t *testing.T) {
	tree := Parse("", []byte("---\ntitle: Hello\ndraft: true\n---\n\nBody.\n"), NewOptions())
	require.NotNil(t, tree.FrontMatter)
	assert.Equal(t, "Hello", tree.FrontMatter["title"])
	assert.Equal(t, true, tree.FrontMatter["draft"])
	assert.Equal(t, ast.NodeParagraph, tree.Root.FirstChild.Type)
	assert.Equal(t, "Body.", tree.Root.FirstChild.Text())
}

func TestParseTOCParagraph(t *testing.T) {
	tree := Parse("", []byte("[toc]\n\n# One\n"), NewOptions())
	assert.Equal(t, ast.NodeToC, tree.Root.FirstChild.Type)
}

func TestParseTable(t *testing.T) {
	tree := Parse("", []byte("| a | b |\n|:--|--:|\n| 1 | 2 |\n"), NewOptions())
	table := tree.Root.FirstChild
	require.Equal(t, ast.NodeTable, table.Type)
	assert.Equal(t, []int{ast.TableAlignLeft, ast.TableAlignRight}, table.TableAligns)

	head := table.FirstChild
	require.Equal(t, ast.NodeTableHead, head.Type)
	headerRow := head.FirstChild
	assert.Equal(t, "a", headerRow.FirstChild.Text())
	assert.Equal(t, ast.TableAlignLeft, headerRow.FirstChild.TableCellAlign)

	bodyRow := head.Next
	require.Equal(t, ast.NodeTableRow, bodyRow.Type)
	assert.Equal(t, ast.TableAlignRight, bodyRow.LastChild.TableCellAlign)
}

func TestParseTableColSpan(t *testing.T) {
	tree := Parse("", []byte("| a | b | c |\n|---|---|---|\n| wide || x |\n"), NewOptions())
	table := tree.Root.FirstChild
	row := table.LastChild

	var cells []*ast.Node
	for cell := row.FirstChild; nil != cell; cell = cell.Next {
		cells = append(cells, cell)
	}
	require.Len(t, cells, 2)
	assert.Equal(t, "wide", cells[0].Text())
	assert.Equal(t, 2, cells[0].TableCellColSpan)
	assert.Equal(t, "x", cells[1].Text())
}

func TestParseTableRowSpan(t *testing.T) {
	tree := Parse("", []byte("| a | b |\n|---|---|\n| x | y |\n| ^^ | z |\n"), NewOptions())
	table := tree.Root.FirstChild

	anchorRow := table.FirstChild.Next
	assert.Equal(t, 2, anchorRow.FirstChild.TableCellRowSpan)
	contRow := anchorRow.Next
	assert.True(t, contRow.FirstChild.TableCellContinuation)

	// 链式续行把合并数都记在最上方的锚上
	tree = Parse("", []byte("| a | b |\n|---|---|\n| x | y |\n| ^^ | z |\n| ^^ | w |\n"), NewOptions())
	anchorRow = tree.Root.FirstChild.FirstChild.Next
	assert.Equal(t, 3, anchorRow.FirstChild.TableCellRowSpan)
}

func TestParseTableBoundaryFooter(t *testing.T) {
	tree := Parse("", []byte("| h1 | h2 |\n|----|----|\n| a | b |\n|----|----|\n| t1 | t2 |\n"), NewOptions())
	table := tree.Root.FirstChild
	require.Equal(t, ast.NodeTable, table.Type)

	var rows []*ast.Node
	for child := table.FirstChild; nil != child; child = child.Next {
		if ast.NodeTableRow == child.Type {
			rows = append(rows, child)
		}
	}
	require.Len(t, rows, 3)

	boundary := rows[1]
	for cell := boundary.FirstChild; nil != cell; cell = cell.Next {
		assert.True(t, cell.TableCellRemoved)
	}
	assert.False(t, rows[0].TableRowFooter)
	assert.True(t, rows[2].TableRowFooter)
	assert.Equal(t, "t1", rows[2].FirstChild.Text())
}

func TestParseTableShortAndLongRows(t *testing.T) {
	tree := Parse("", []byte("| a | b | c |\n|---|---|---|\n| 1 |\n| 1 | 2 | 3 | 4 |\n"), NewOptions())
	table := tree.Root.FirstChild

	short := table.FirstChild.Next
	cnt := 0
	for cell := short.FirstChild; nil != cell; cell = cell.Next {
		cnt++
	}
	assert.Equal(t, 3, cnt, "short row padded to column count")

	long := short.Next
	cnt = 0
	for cell := long.FirstChild; nil != cell; cell = cell.Next {
		cnt++
	}
	assert.Equal(t, 3, cnt, "long row truncated to column count")
}

func TestParseEscapedPipe(t *testing.T) {
	tree := Parse("", []byte("| a\\|b | c |\n|---|---|\n| 1 | 2 |\n"), NewOptions())
	headerRow := tree.Root.FirstChild.FirstChild.FirstChild
	assert.Equal(t, "a|b", headerRow.FirstChild.Text())
}

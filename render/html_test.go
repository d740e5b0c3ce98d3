package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/parse"
)

func renderPlain(t *testing.T, input string) string {
	t.Helper()
	tree := parse.Parse("", []byte(input), parse.NewOptions())
	options := NewOptions()
	options.CodeSyntaxHighlight = false
	return string(NewHtmlRenderer(tree, options).Render())
}

func TestRenderBasics(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected string
	}{
		{"Hello.\n", "<p>Hello.</p>\n"},
		{"*em* and **strong**\n", "<p><em>em</em> and <strong>strong</strong></p>\n"},
		{"`x < y`\n", "<p><code>x &lt; y</code></p>\n"},
		{"> quoted\n", "<blockquote>\n<p>quoted</p>\n</blockquote>\n"},
		{"---\n", "<hr />\n"},
		{"- one\n- two\n", "<ul>\n<li><p>one</p>\n</li>\n<li><p>two</p>\n</li>\n</ul>\n"},
		{"3. three\n", "<ol start=\"3\">\n<li><p>three</p>\n</li>\n</ol>\n"},
		{"[t](https://e.com \"ti\")\n", "<p><a href=\"https://e.com\" title=\"ti\">t</a></p>\n"},
		{"![alt](pic.png)\n", "<p><img src=\"pic.png\" alt=\"alt\" /></p>\n"},
	} {
		got := renderPlain(t, test.input)
		if diff := cmp.Diff(test.expected, got); "" != diff {
			t.Errorf("input %q (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestRenderHeadingAutoID(t *testing.T) {
	got := renderPlain(t, "# Hello World\n\n## Hello World\n")
	expected := "<h1 id=\"hello-world\">Hello World</h1>\n<h2 id=\"hello-world-1\">Hello World</h2>\n"
	assert.Equal(t, expected, got)
}

func TestRenderHeadingDecorationWins(t *testing.T) {
	tree := parse.Parse("", []byte("# Title\n"), parse.NewOptions())
	tree.Root.FirstChild.Decorate(`class="big" id="t1"`)
	options := NewOptions()
	options.CodeSyntaxHighlight = false
	got := string(NewHtmlRenderer(tree, options).Render())
	assert.Equal(t, "<h1 class=\"big\" id=\"t1\">Title</h1>\n", got)
}

func TestRenderDecorationOnInline(t *testing.T) {
	tree := parse.Parse("", []byte("[t](https://e.com)\n"), parse.NewOptions())
	link := tree.Root.FirstChild.FirstChild
	link.Decorate(`class="btn"`)
	options := NewOptions()
	options.CodeSyntaxHighlight = false
	got := string(NewHtmlRenderer(tree, options).Render())
	assert.Equal(t, "<p><a href=\"https://e.com\" class=\"btn\">t</a></p>\n", got)
}

func TestRenderCodeBlockPlain(t *testing.T) {
	got := renderPlain(t, "```go\na < b\n```\n")
	assert.Equal(t, "<pre><code class=\"language-go\">a &lt; b\n</code></pre>\n", got)
}

func TestRenderTable(t *testing.T) {
	got := renderPlain(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n")
	expected := "<table>\n" +
		"<thead>\n<tr>\n<th align=\"left\">a</th>\n<th align=\"right\">b</th>\n</tr>\n</thead>\n" +
		"<tbody>\n<tr>\n<td align=\"left\">1</td>\n<td align=\"right\">2</td>\n</tr>\n</tbody>\n" +
		"</table>\n"
	if diff := cmp.Diff(expected, got); "" != diff {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRenderTableSkipsRemoved(t *testing.T) {
	// 全删除行不占输出行，单个删除单元格不产生输出，续行占位照常输出
	got := renderPlain(t, "| a | b |\n|---|---|\n| x | y |\n|---|---|\n| ^^ | z |\n")
	expected := "<table>\n" +
		"<thead>\n<tr>\n<th>a</th>\n<th>b</th>\n</tr>\n</thead>\n" +
		"<tbody>\n<tr>\n<td>x</td>\n<td>y</td>\n</tr>\n" +
		"<tr>\n<td>^^</td>\n<td>z</td>\n</tr>\n</tbody>\n" +
		"</table>\n"
	if diff := cmp.Diff(expected, got); "" != diff {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRenderToC(t *testing.T) {
	got := renderPlain(t, "[toc]\n\n# One\n\n## Two\n")
	expected := "<div class=\"toc\">\n<ul>\n" +
		"<li class=\"toc-h1\"><a href=\"#one\">One</a></li>\n" +
		"<li class=\"toc-h2\"><a href=\"#two\">Two</a></li>\n" +
		"</ul>\n</div>\n" +
		"<h1 id=\"one\">One</h1>\n<h2 id=\"two\">Two</h2>\n"
	if diff := cmp.Diff(expected, got); "" != diff {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRenderHeadingIDDisabled(t *testing.T) {
	tree := parse.Parse("", []byte("# Hello\n"), parse.NewOptions())
	options := NewOptions()
	options.CodeSyntaxHighlight = false
	options.HeadingID = false
	got := string(NewHtmlRenderer(tree, options).Render())
	assert.Equal(t, "<h1>Hello</h1>\n", got)
}

func TestNormalizeHeadingID(t *testing.T) {
	assert.Equal(t, "hello-world", normalizeHeadingID("Hello World"))
	assert.Equal(t, "a-b", normalizeHeadingID("  A   B  "))
	assert.Equal(t, "café-5", normalizeHeadingID("Café 5"))
	assert.Equal(t, "x1", normalizeHeadingID("ｘ１"))
	assert.Equal(t, "", normalizeHeadingID("!!!"))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot;", string(EscapeHTML([]byte(`a & b <c> "d"`))))
	assert.Equal(t, "plain", string(EscapeHTML([]byte("plain"))))
}

func TestAllCellsRemoved(t *testing.T) {
	row := &ast.Node{Type: ast.NodeTableRow}
	cell := &ast.Node{Type: ast.NodeTableCell, TableCellRemoved: true}
	row.AppendChild(cell)
	assert.True(t, allCellsRemoved(row))
	row.AppendChild(&ast.Node{Type: ast.NodeTableCell})
	assert.False(t, allCellsRemoved(row))
}

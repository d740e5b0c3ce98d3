package tbl

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
)

// cellRecord 是对账前对树上一个单元格拍的只读快照，按
// (表序号, 行序号, 列序号) 定位。fingerprint 缓存去除两端空白的
// 字面文本，在树和渲染文本不再按同样方式编号时用来恢复身份。
type cellRecord struct {
	table, row, col int
	colSpan, rowSpan int
	removed      bool
	continuation bool
	fingerprint  string
	attrs        string // 待拼接进开始标签的属性片段
	consumed     bool
}

// spanBearing 判断记录是否带有合并或占位标记。
func (c *cellRecord) spanBearing() bool {
	return 1 < c.colSpan || 1 < c.rowSpan || c.removed || c.continuation
}

type rowRecord struct {
	footer     bool
	allRemoved bool
	cells      []*cellRecord // 按树内顺序，列序号不一定连续
}

func (r *rowRecord) cellAt(col int) *cellRecord {
	for _, cell := range r.cells {
		if col == cell.col {
			return cell
		}
	}
	return nil
}

type tableRecord struct {
	cols     int
	rows     []*rowRecord
	boundary int // 第一个全删除行的行序号，-1 表示没有

	caption        string
	captionSibling string // 标题来源段落渲染后的内部文本，用于去重删除

	headerFirstEmpty bool
	hasMarkers       bool
}

// snapshot 对装饰完成的树做一次遍历，为每张表建立快照记录。
// 记录在对账前建立、对账后即弃。
func snapshot(root *ast.Node) (ret []*tableRecord) {
	ast.Walk(root, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering || ast.NodeTable != n.Type {
			return ast.WalkContinue
		}
		ret = append(ret, snapshotTable(n, len(ret)))
		return ast.WalkSkipChildren
	})
	return
}

func snapshotTable(table *ast.Node, ordinal int) (ret *tableRecord) {
	ret = &tableRecord{cols: len(table.TableAligns), boundary: -1}

	row := 0
	for child := table.FirstChild; nil != child; child = child.Next {
		switch child.Type {
		case ast.NodeTableHead:
			for tr := child.FirstChild; nil != tr; tr = tr.Next {
				ret.appendRow(tr, ordinal, row)
				row++
			}
		case ast.NodeTableRow:
			ret.appendRow(child, ordinal, row)
			row++
		}
	}

	if 0 < len(ret.rows) && 0 < len(ret.rows[0].cells) && "" == ret.rows[0].cells[0].fingerprint {
		ret.headerFirstEmpty = true
		ret.hasMarkers = true
	}

	if caption := lex.TrimWhitespace(table.TableCaption); 0 < len(caption) {
		ret.caption = string(caption)
		ret.hasMarkers = true
	} else {
		ret.siblingCaption(table)
	}
	return
}

func (t *tableRecord) appendRow(tr *ast.Node, tableOrdinal, row int) {
	rec := &rowRecord{footer: tr.TableRowFooter}
	col := 0
	removedCnt := 0
	for cell := tr.FirstChild; nil != cell; cell = cell.Next {
		if ast.NodeTableCell != cell.Type {
			continue
		}
		c := &cellRecord{
			table:        tableOrdinal,
			row:          row,
			col:          col,
			colSpan:      cell.TableCellColSpan,
			rowSpan:      cell.TableCellRowSpan,
			removed:      cell.TableCellRemoved,
			continuation: cell.TableCellContinuation,
			fingerprint:  strings.TrimSpace(cell.Text()),
		}
		c.attrs = cellAttrs(cell)
		rec.cells = append(rec.cells, c)
		if c.removed {
			removedCnt++
		}
		if c.spanBearing() || "" != c.attrs {
			t.hasMarkers = true
		}
		if 1 < c.colSpan {
			col += c.colSpan
		} else {
			col++
		}
	}
	rec.allRemoved = 0 < len(rec.cells) && removedCnt == len(rec.cells)
	if rec.allRemoved && 0 > t.boundary {
		t.boundary = row
	}
	if rec.footer || rec.allRemoved {
		t.hasMarkers = true
	}
	t.rows = append(t.rows, rec)
}

// cellAttrs 从单元格节点上的合并标记构造待拼接属性。装饰片段不在
// 这里出现：渲染器已经把它们嵌进开始标签了。
func cellAttrs(cell *ast.Node) string {
	var parts []string
	if 1 < cell.TableCellColSpan {
		parts = append(parts, "colspan=\""+strconv.Itoa(cell.TableCellColSpan)+"\"")
	}
	if 1 < cell.TableCellRowSpan {
		parts = append(parts, "rowspan=\""+strconv.Itoa(cell.TableCellRowSpan)+"\"")
	}
	return strings.Join(parts, " ")
}

// siblingCaption 在表格前后紧邻的兄弟段落中识别 [...] 形式的标题。
func (t *tableRecord) siblingCaption(table *ast.Node) {
	if p := table.Previous; nil != p && captionText(p) != "" {
		t.caption = captionText(p)
		t.captionSibling = strings.TrimSpace(p.Text())
		t.hasMarkers = true
		return
	}
	if p := table.Next; nil != p && captionText(p) != "" {
		t.caption = captionText(p)
		t.captionSibling = strings.TrimSpace(p.Text())
		t.hasMarkers = true
	}
}

// captionText 判断段落的文本去除两端空白后是否恰为 [...]，是则返回
// 方括号内的标题文本。
func captionText(p *ast.Node) string {
	if ast.NodeParagraph != p.Type {
		return ""
	}
	text := strings.TrimSpace(p.Text())
	if 3 > len(text) || '[' != text[0] || ']' != text[len(text)-1] {
		return ""
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])
	if strings.ContainsAny(inner, "[]") {
		return ""
	}
	return inner
}

// renderedRows 返回会出现在渲染文本中的树行序号列表：全删除行不消耗
// 任何 HTML 行。
func (t *tableRecord) renderedRows() (ret []int) {
	for i, row := range t.rows {
		if !row.allRemoved {
			ret = append(ret, i)
		}
	}
	return
}

// boundaryPos 返回表头表尾边界对应的渲染行位置：边界行（含）之前的
// 非全删除行数。没有边界时返回 -1。
func (t *tableRecord) boundaryPos() int {
	if 0 > t.boundary {
		return -1
	}
	pos := 0
	for i := 0; i <= t.boundary && i < len(t.rows); i++ {
		if !t.rows[i].allRemoved {
			pos++
		}
	}
	return pos
}

// columnMapping 为一个渲染行新建列映射：对每个原始列回答"该列在这个
// 树行里是否产生一个新单元格"——除非该列被严格更早的树行里开始的、
// 尚未到期的合并所覆盖。映射内容取决于此前各行哪些合并仍然生效，
// 所以每个渲染行都要重新计算。
func (t *tableRecord) columnMapping(row int) (ret []int) {
	covered := make([]bool, t.cols)
	for r := 0; r < row && r < len(t.rows); r++ {
		for _, cell := range t.rows[r].cells {
			span := cell.rowSpan
			if 2 > span || r+span <= row {
				continue
			}
			width := cell.colSpan
			if 1 > width {
				width = 1
			}
			for c := cell.col; c < cell.col+width && c < t.cols; c++ {
				covered[c] = true
			}
		}
	}
	for c := 0; c < t.cols; c++ {
		if !covered[c] {
			ret = append(ret, c)
		}
	}
	return
}

// stripTags 去掉 HTML 片段中的标签，用于计算渲染侧指纹。
func stripTags(fragment []byte) []byte {
	if !bytes.ContainsRune(fragment, '<') {
		return fragment
	}
	buf := make([]byte, 0, len(fragment))
	inTag := false
	for _, token := range fragment {
		switch {
		case '<' == token:
			inTag = true
		case '>' == token && inTag:
			inTag = false
		case !inTag:
			buf = append(buf, token)
		}
	}
	return buf
}

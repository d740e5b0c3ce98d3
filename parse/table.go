package parse

import (
	"bytes"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
)

// isTableStart 判断第 i 行是否开始一个表格：本行是含竖线的内容行，
// 下一行是分隔行。
func (t *Tree) isTableStart(lines [][]byte, i int) bool {
	if !t.Options.GFMTable || i+1 >= len(lines) {
		return false
	}
	header := lex.TrimWhitespace(lines[i])
	if !bytes.ContainsRune(header, '|') || isTableSeparator(header) {
		return false
	}
	separator := lex.TrimWhitespace(lines[i+1])
	if !isTableSeparator(separator) {
		return false
	}
	return tableColumns(header) == len(parseAligns(separator))
}

func isTableSeparator(trimmed []byte) bool {
	if !bytes.ContainsRune(trimmed, '|') || !bytes.ContainsRune(trimmed, '-') {
		return false
	}
	for _, token := range trimmed {
		switch token {
		case lex.ItemHyphen, lex.ItemPipe, lex.ItemColon, lex.ItemPlus, lex.ItemSpace, lex.ItemTab:
		default:
			return false
		}
	}
	return true
}

func tableColumns(trimmed []byte) int {
	return len(splitCells(trimmed))
}

// parseAligns 解析分隔行的每列对齐方式。
func parseAligns(separator []byte) (ret []int) {
	for _, cell := range splitCells(separator) {
		cell = lex.TrimWhitespace(cell)
		left := 0 < len(cell) && lex.ItemColon == cell[0]
		right := 0 < len(cell) && lex.ItemColon == cell[len(cell)-1]
		switch {
		case left && right:
			ret = append(ret, ast.TableAlignCenter)
		case left:
			ret = append(ret, ast.TableAlignLeft)
		case right:
			ret = append(ret, ast.TableAlignRight)
		default:
			ret = append(ret, ast.TableAlignNone)
		}
	}
	return
}

// splitCells 按未转义的竖线切分一行，保留零长度单元格（用于列合并
// 语法 ||）。行首行尾的定界竖线产生的空串去除。
func splitCells(trimmed []byte) (ret [][]byte) {
	var cell []byte
	escaped := false
	for _, token := range trimmed {
		if escaped {
			cell = append(cell, lex.ItemBackslash, token)
			escaped = false
			continue
		}
		switch token {
		case lex.ItemBackslash:
			escaped = true
		case lex.ItemPipe:
			ret = append(ret, cell)
			cell = nil
		default:
			cell = append(cell, token)
		}
	}
	if escaped {
		cell = append(cell, lex.ItemBackslash)
	}
	ret = append(ret, cell)

	if 1 < len(ret) && 0 == len(lex.TrimWhitespace(ret[0])) && 0 == len(ret[0]) {
		ret = ret[1:]
	}
	if 1 < len(ret) && 0 == len(ret[len(ret)-1]) {
		ret = ret[:len(ret)-1]
	}
	return
}

// parseTable 解析一个表格块并运行表格扩展（列合并、行合并、表尾和
// 删除标记的计算）。
func (t *Tree) parseTable(parent *ast.Node, lines [][]byte, i int) int {
	header := lex.TrimWhitespace(lines[i])
	aligns := parseAligns(lex.TrimWhitespace(lines[i+1]))
	cols := len(aligns)

	table := &ast.Node{Type: ast.NodeTable, TableAligns: aligns}
	parent.AppendChild(table)

	head := &ast.Node{Type: ast.NodeTableHead}
	table.AppendChild(head)
	head.AppendChild(t.parseTableRow(header, aligns, cols))

	j := i + 2
	for ; j < len(lines); j++ {
		trimmed := lex.TrimWhitespace(lines[j])
		if 1 > len(trimmed) || !bytes.ContainsRune(trimmed, '|') {
			break
		}
		table.AppendChild(t.parseTableRow(trimmed, aligns, cols))
	}

	computeSpans(table, cols)
	return j
}

// parseTableRow 解析一行单元格。零长度单元格扩展前一单元格的列合并
// 数；短行用空单元格补齐，超出列数的单元格截断。
func (t *Tree) parseTableRow(trimmed []byte, aligns []int, cols int) (ret *ast.Node) {
	ret = &ast.Node{Type: ast.NodeTableRow}

	col := 0
	var cells []*ast.Node
	for _, content := range splitCells(trimmed) {
		if 0 == len(content) && 0 < len(cells) {
			prev := cells[len(cells)-1]
			if 2 > prev.TableCellColSpan {
				prev.TableCellColSpan = 1
			}
			prev.TableCellColSpan++
			col++
			continue
		}
		cell := &ast.Node{Type: ast.NodeTableCell, Tokens: lex.TrimWhitespace(content)}
		cells = append(cells, cell)
		col++
	}

	col = 0
	for _, cell := range cells {
		if col >= cols {
			break
		}
		cell.TableCellAlign = aligns[col]
		ret.AppendChild(cell)
		if 1 < cell.TableCellColSpan {
			col += cell.TableCellColSpan
		} else {
			col++
		}
	}
	for ; col < cols; col++ {
		ret.AppendChild(&ast.Node{Type: ast.NodeTableCell, TableCellAlign: aligns[col]})
	}
	return
}

// computeSpans 是解析期表格扩展：识别 ^^ 续行占位、全划线边界行和
// 表尾行，并把合并数落在锚单元格上。
func computeSpans(table *ast.Node, cols int) {
	var rows []*ast.Node
	for child := table.FirstChild; nil != child; child = child.Next {
		switch child.Type {
		case ast.NodeTableHead:
			for tr := child.FirstChild; nil != tr; tr = tr.Next {
				rows = append(rows, tr)
			}
		case ast.NodeTableRow:
			rows = append(rows, child)
		}
	}

	// 每行按列序号登记单元格
	grid := make([]map[int]*ast.Node, len(rows))
	for i, row := range rows {
		grid[i] = map[int]*ast.Node{}
		col := 0
		for cell := row.FirstChild; nil != cell; cell = cell.Next {
			grid[i][col] = cell
			if 1 < cell.TableCellColSpan {
				col += cell.TableCellColSpan
			} else {
				col++
			}
		}
	}

	boundary := -1
	for i, row := range rows {
		if isBoundaryRow(row) {
			for cell := row.FirstChild; nil != cell; cell = cell.Next {
				cell.TableCellRemoved = true
			}
			if 0 > boundary {
				boundary = i
			}
			continue
		}
		if 0 <= boundary {
			row.TableRowFooter = true
		}

		for col, cell := range grid[i] {
			if !bytes.Equal(cell.Tokens, []byte("^^")) {
				continue
			}
			cell.TableCellContinuation = true
			if anchor := spanAnchor(grid, i, col); nil != anchor {
				if 2 > anchor.TableCellRowSpan {
					anchor.TableCellRowSpan = 1
				}
				anchor.TableCellRowSpan++
			}
		}
	}
}

// isBoundaryRow 判断是否为全划线行（每个单元格只由 - 或 = 组成）。
func isBoundaryRow(row *ast.Node) bool {
	if nil == row.FirstChild {
		return false
	}
	for cell := row.FirstChild; nil != cell; cell = cell.Next {
		tokens := lex.TrimWhitespace(cell.Tokens)
		if 1 > len(tokens) {
			return false
		}
		for _, token := range tokens {
			if lex.ItemHyphen != token && lex.ItemEqual != token {
				return false
			}
		}
	}
	return true
}

// spanAnchor 自下而上寻找 col 列上第一个非续行单元格。
func spanAnchor(grid []map[int]*ast.Node, row, col int) *ast.Node {
	for i := row - 1; 0 <= i; i-- {
		cell, ok := grid[i][col]
		if !ok {
			continue
		}
		if cell.TableCellContinuation || cell.TableCellRemoved {
			continue
		}
		return cell
	}
	return nil
}

// Package tbl 实现了表格方言的文本规范化和渲染后 HTML 的回填对账。
//
// 规范化在解析前运行，把缺少分隔行或表头行的表格源码改写为基础引擎
// 能接受的形式；对账在渲染后运行，沿着装饰过的语法树恢复渲染器丢弃
// 的结构信息（行列位置、表头表尾边界、表标题）并拼接回 HTML 文本。
package tbl

import (
	"bytes"

	"github.com/pafthang/mdk/lex"
)

type lineClass int

const (
	lineBlank lineClass = iota
	lineRule            // 水平分隔线：只有 3 个以上的 - 和空白，不含 |
	lineSeparator       // 表格分隔行：至少一个 - 和一个 |，字符都在 -|:+ 和空白内
	lineCandidate       // 候选表格行：至少一个 |
	lineOther
)

func classifyLine(line []byte) lineClass {
	if lex.IsBlank(line) {
		return lineBlank
	}

	hyphens, pipes, others := 0, 0, 0
	separatorOnly := true
	for _, token := range line {
		switch token {
		case lex.ItemHyphen:
			hyphens++
		case lex.ItemPipe:
			pipes++
		case lex.ItemColon, lex.ItemPlus:
			others++
		case lex.ItemSpace, lex.ItemTab:
		default:
			others++
			separatorOnly = false
		}
	}

	if 1 > pipes {
		if 3 <= hyphens && separatorOnly && 1 > others {
			return lineRule
		}
		return lineOther
	}
	if 1 <= hyphens && separatorOnly {
		return lineSeparator
	}
	return lineCandidate
}

// columnCount 计算候选行或分隔行的列数。以 | 开头（忽略前导空白）的行
// 列数为竖线数减一，否则加一；结果不为正时该行不能作为表格行。
func columnCount(line []byte) int {
	pipes := bytes.Count(line, []byte{lex.ItemPipe})
	if startsWithPipe(line) {
		return pipes - 1
	}
	return pipes + 1
}

func startsWithPipe(line []byte) bool {
	_, remains := lex.TrimLeftWhitespace(line)
	return 0 < len(remains) && lex.ItemPipe == remains[0]
}

// Normalize 对原始文本做两遍独立的行分类改写：补全缺失的分隔行，再
// 补全缺失的表头行。没有任何改写时原样返回输入。
func Normalize(text []byte) []byte {
	return missingHeader(missingSeparator(text))
}

// missingSeparator 把连续的、列数一致的候选行组补上一条合成分隔行。
// 真正的分隔行会把已积累的行原样冲刷（不插入合成行），其后的行视为
// 已成形表格的一部分，原样通过。
func missingSeparator(text []byte) []byte {
	lines := lex.SplitLines(text)
	var out [][]byte
	var acc [][]byte
	accCols := 0
	inTable := false
	changed := false

	flush := func() {
		if 2 <= len(acc) {
			out = append(out, acc[0], synthSeparator(acc[0], accCols))
			out = append(out, acc[1:]...)
			changed = true
		} else {
			out = append(out, acc...)
		}
		acc = nil
		accCols = 0
	}

	for _, line := range lines {
		switch classifyLine(line) {
		case lineSeparator:
			out = append(out, acc...)
			acc = nil
			accCols = 0
			out = append(out, line)
			inTable = true
		case lineCandidate:
			if inTable {
				out = append(out, line)
				continue
			}
			cols := columnCount(line)
			if 1 > cols {
				flush()
				out = append(out, line)
				continue
			}
			if 0 < len(acc) && cols != accCols {
				flush()
			}
			acc = append(acc, line)
			accCols = cols
		default:
			flush()
			inTable = false
			out = append(out, line)
		}
	}
	flush()

	if !changed {
		return text
	}
	return bytes.Join(out, []byte{lex.ItemNewline})
}

// missingHeader 为前一非空行不是候选行、后一非空行是候选行的分隔行
// 补上一条空白单元格的表头行。
func missingHeader(text []byte) []byte {
	lines := lex.SplitLines(text)
	var out [][]byte
	changed := false
	for i, line := range lines {
		if lineSeparator == classifyLine(line) {
			prev := neighborLine(lines, i, -1)
			next := neighborLine(lines, i, 1)
			if (nil == prev || lineCandidate != classifyLine(prev)) &&
				nil != next && lineCandidate == classifyLine(next) {
				if cols := columnCount(line); 0 < cols {
					out = append(out, synthHeader(line, cols))
					changed = true
				}
			}
		}
		out = append(out, line)
	}
	if !changed {
		return text
	}
	return bytes.Join(out, []byte{lex.ItemNewline})
}

// neighborLine 返回 i 前（direction -1）或后（direction 1）第一个非空行。
func neighborLine(lines [][]byte, i, direction int) []byte {
	for i += direction; 0 <= i && i < len(lines); i += direction {
		if lineBlank != classifyLine(lines[i]) {
			return lines[i]
		}
	}
	return nil
}

// synthSeparator 合成一条分隔行，列数和前导竖线风格与 style 行一致。
func synthSeparator(style []byte, cols int) []byte {
	return synthRow(style, cols, []byte("---"))
}

// synthHeader 合成一条全空单元格的表头行。
func synthHeader(style []byte, cols int) []byte {
	return synthRow(style, cols, []byte("  "))
}

func synthRow(style []byte, cols int, cell []byte) []byte {
	cells := make([][]byte, cols)
	for i := range cells {
		cells[i] = cell
	}
	row := bytes.Join(cells, []byte{lex.ItemPipe})
	if startsWithPipe(style) {
		buf := make([]byte, 0, len(row)+2)
		buf = append(buf, lex.ItemPipe)
		buf = append(buf, row...)
		buf = append(buf, lex.ItemPipe)
		return buf
	}
	return row
}

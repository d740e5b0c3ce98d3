package tbl

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/lex"
)

// Options 描述了对账选项，按值传入，不读取任何文件或全局状态。
type Options struct {
	CaptionBelow bool          // 表标题渲染在表格之后
	AlignStyle   string        // 对齐样式模板，%s 处替换 left/center/right
	Timeout      time.Duration // 墙钟预算，超出后剩余 HTML 原样拷贝
}

// NewOptions 创建默认对账选项。
func NewOptions() *Options {
	return &Options{AlignStyle: "text-align: %s", Timeout: 10 * time.Second}
}

// Reconcile 沿着装饰完成的树对渲染后的 HTML 做一次对账：恢复渲染器
// 丢弃的行列身份，移除占位单元格，拼接合并与装饰属性，安置表尾和
// 表标题。任何一次查找失败都降级为"不应用装饰"而不是报错；只有
// 缓冲区增长失败会中止本趟，即便如此也返回已有的 HTML 而不丢弃。
func Reconcile(htmlText []byte, root *ast.Node, opts *Options) (ret []byte) {
	ret = htmlText
	if nil == opts {
		opts = NewOptions()
	}

	tables := snapshot(root)
	if fastPath(tables, htmlText) {
		return
	}

	defer func() {
		if e := recover(); nil != e {
			ret = htmlText
		}
	}()

	r := &reconciler{
		data:     htmlText,
		opts:     opts,
		tables:   tables,
		deadline: time.Now().Add(opts.Timeout),
	}
	ret = r.run()
	return
}

// fastPath 判断是否可以原样返回：树上任何表格都没有合并、表尾、
// 表标题或删除标记，且渲染文本中没有对齐冒号模式。
func fastPath(tables []*tableRecord, htmlText []byte) bool {
	for _, t := range tables {
		if t.hasMarkers {
			return false
		}
	}
	return !hasAlignColon(htmlText)
}

// hasAlignColon 判断渲染文本的单元格内容是否以冒号开头或结尾。
func hasAlignColon(htmlText []byte) bool {
	for pos := 0; ; {
		cellStart := indexCellOpen(htmlText, pos)
		if 0 > cellStart {
			return false
		}
		gt := bytes.IndexByte(htmlText[cellStart:], '>')
		if 0 > gt {
			return false
		}
		innerStart := cellStart + gt + 1
		closeIdx := indexCellClose(htmlText, innerStart)
		if 0 > closeIdx {
			return false
		}
		inner := lex.TrimWhitespace(htmlText[innerStart:closeIdx])
		if 0 < len(inner) && (lex.ItemColon == inner[0] || lex.ItemColon == inner[len(inner)-1]) {
			return true
		}
		pos = closeIdx + 1
	}
}

type reconciler struct {
	data     []byte
	opts     *Options
	tables   []*tableRecord
	deadline time.Time
	out      bytes.Buffer

	// dropParagraphs 记录待删除的标题来源段落文本，各删除一次
	dropParagraphs map[string]bool
}

func (r *reconciler) run() []byte {
	r.dropParagraphs = map[string]bool{}
	for _, t := range r.tables {
		if "" != t.captionSibling {
			r.dropParagraphs[t.captionSibling] = true
		}
	}

	pos := 0
	tableOrdinal := 0
	for {
		if time.Now().After(r.deadline) {
			r.out.Write(r.data[pos:])
			break
		}

		tableStart := indexTableOpen(r.data, pos)
		if 0 > tableStart {
			r.copyThrough(r.data[pos:])
			break
		}
		r.copyThrough(r.data[pos:tableStart])

		end := bytes.Index(r.data[tableStart:], []byte("</table>"))
		if 0 > end {
			r.out.Write(r.data[tableStart:])
			break
		}
		end = tableStart + end + len("</table>")

		region := r.data[tableStart:end]
		if tableOrdinal < len(r.tables) {
			r.processTable(region, r.tables[tableOrdinal])
		} else {
			r.out.Write(region)
		}
		tableOrdinal++
		pos = end
	}
	return r.out.Bytes()
}

// copyThrough 原样拷贝表格之外的区域，途中删除与表标题来源重复的段落。
func (r *reconciler) copyThrough(region []byte) {
	if 1 > len(r.dropParagraphs) {
		r.out.Write(region)
		return
	}

	pos := 0
	for {
		pStart := indexParagraphOpen(region, pos)
		if 0 > pStart {
			break
		}
		gt := bytes.IndexByte(region[pStart:], '>')
		if 0 > gt {
			break
		}
		innerStart := pStart + gt + 1
		closeIdx := bytes.Index(region[innerStart:], []byte("</p>"))
		if 0 > closeIdx {
			break
		}
		closeIdx += innerStart
		afterClose := closeIdx + len("</p>")

		text := strings.TrimSpace(html.UnescapeString(string(stripTags(region[innerStart:closeIdx]))))
		if r.dropParagraphs[text] {
			delete(r.dropParagraphs, text)
			r.out.Write(region[pos:pStart])
			if lex.ItemNewline == lex.Peek(region, afterClose) {
				afterClose++
			}
			pos = afterClose
			continue
		}
		r.out.Write(region[pos:afterClose])
		pos = afterClose
	}
	r.out.Write(region[pos:])
}

// processTable 处理一个 <table>...</table> 区域。行按出现顺序扫描，
// 渲染行号翻译回树行号时只数有至少一个未删除单元格的树行——全删除
// 行不消耗任何 HTML 行。
func (r *reconciler) processTable(region []byte, t *tableRecord) {
	caption := "" != t.caption
	if caption {
		r.out.WriteString("<figure>\n")
		if !r.opts.CaptionBelow {
			r.out.WriteString("<figcaption>" + html.EscapeString(t.caption) + "</figcaption>\n")
		}
	}

	rendered := t.renderedRows()
	boundaryPos := t.boundaryPos()
	var foot bytes.Buffer

	pos := 0
	htmlRow := 0
	for {
		if time.Now().After(r.deadline) {
			// 预算耗尽：已摘出的表尾行先放回，剩余部分原样拷贝
			r.out.Write(foot.Bytes())
			foot.Reset()
			r.out.Write(region[pos:])
			pos = len(region)
			break
		}

		trStart := indexRowOpen(region, pos)
		if 0 > trStart {
			break
		}
		trEnd := bytes.Index(region[trStart:], []byte("</tr>"))
		if 0 > trEnd {
			break
		}
		trEnd = trStart + trEnd + len("</tr>")
		if lex.ItemNewline == lex.Peek(region, trEnd) {
			trEnd++
		}

		r.out.Write(region[pos:trStart])
		pos = trEnd

		treeRow := -1
		if htmlRow < len(rendered) {
			treeRow = rendered[htmlRow]
		}
		htmlPos := htmlRow
		htmlRow++

		chunk, drop := r.processRow(region[trStart:trEnd], t, treeRow)
		if drop {
			continue
		}
		if 0 <= treeRow && t.rows[treeRow].footer && 0 <= boundaryPos &&
			htmlPos >= boundaryPos && 3 <= htmlPos {
			// 表尾行：位置在边界之后且不在最前三个渲染行中才摘出
			foot.Write(chunk)
			continue
		}
		r.out.Write(chunk)
	}

	tail := region[pos:]
	if 0 < foot.Len() {
		closeIdx := bytes.LastIndex(tail, []byte("</table>"))
		if 0 > closeIdx {
			closeIdx = len(tail)
		}
		r.out.Write(tail[:closeIdx])
		r.out.WriteString("<tfoot>\n")
		r.out.Write(foot.Bytes())
		r.out.WriteString("</tfoot>\n")
		r.out.Write(tail[closeIdx:])
	} else {
		r.out.Write(tail)
	}

	if caption {
		if r.opts.CaptionBelow {
			r.out.WriteString("<figcaption>" + html.EscapeString(t.caption) + "</figcaption>\n")
		}
		r.out.WriteString("</figure>")
	}
}

// processRow 处理一个 <tr>...</tr> 块，返回改写后的字节和该行是否
// 应整体丢弃（所有单元格都被移除时）。
func (r *reconciler) processRow(chunk []byte, t *tableRecord, treeRow int) (ret []byte, drop bool) {
	var mapping []int
	if 0 <= treeRow {
		mapping = t.columnMapping(treeRow)
	}
	mi := 0

	var buf bytes.Buffer
	pos := 0
	cellCnt, removedCnt := 0, 0
	for {
		cellStart := indexCellOpen(chunk, pos)
		if 0 > cellStart {
			break
		}
		gt := bytes.IndexByte(chunk[cellStart:], '>')
		if 0 > gt {
			break
		}
		innerStart := cellStart + gt + 1
		closeIdx := indexCellClose(chunk, innerStart)
		if 0 > closeIdx {
			break
		}

		buf.Write(chunk[pos:cellStart])
		opening := chunk[cellStart:innerStart]
		inner := chunk[innerStart:closeIdx]
		isTH := 'h' == chunk[cellStart+2]
		closeTag := "</td>"
		if isTH {
			closeTag = "</th>"
		}
		pos = closeIdx + len(closeTag)
		cellCnt++

		fingerprint := strings.TrimSpace(html.UnescapeString(string(stripTags(inner))))
		rec, col := resolveCell(t, treeRow, mapping, &mi, fingerprint)

		switch {
		case nil != rec && (rec.removed || rec.continuation):
			// 占位或删除单元格：连同其后的换行一起整体移除
			if lex.ItemNewline == lex.Peek(chunk, pos) {
				pos++
			}
			removedCnt++
		case nil != rec && "" != rec.attrs:
			buf.Write(spliceAttrs(opening, rec.attrs))
			buf.Write(inner)
			buf.WriteString(closeTag)
		case t.headerFirstEmpty && 0 < treeRow && 0 == col && !isTH:
			// 表头首格为空：首列提升为行头元素
			buf.WriteString("<th scope=\"row\"")
			buf.Write(opening[len("<td"):])
			buf.Write(inner)
			buf.WriteString("</th>")
		default:
			if newInner, align := alignColon(inner); "" != align {
				style := "style=\"" + fmt.Sprintf(r.opts.AlignStyle, align) + "\""
				buf.Write(spliceAttrs(opening, style))
				buf.Write(newInner)
			} else {
				buf.Write(opening)
				buf.Write(inner)
			}
			buf.WriteString(closeTag)
		}
	}
	buf.Write(chunk[pos:])

	if 0 < cellCnt && removedCnt == cellCnt {
		return nil, true
	}
	return buf.Bytes(), false
}

// resolveCell 恢复一个渲染单元格的树上身份。级联匹配：位置匹配（用
// 指纹校验以拒绝漂移）→ 同一树行内的内容相等搜索（优先带合并标记的
// 记录）→ 上下各一行内带合并标记记录的唯一性匹配。歧义时不应用。
func resolveCell(t *tableRecord, treeRow int, mapping []int, mi *int, fingerprint string) (rec *cellRecord, col int) {
	col = -1
	if 0 > treeRow || treeRow >= len(t.rows) {
		return
	}
	row := t.rows[treeRow]

	if *mi < len(mapping) {
		col = mapping[*mi]
		if c := row.cellAt(col); nil != c && !c.consumed && c.fingerprint == fingerprint {
			c.consumed = true
			*mi++
			return c, col
		}
	}

	var matches []*cellRecord
	for _, c := range row.cells {
		if !c.consumed && c.fingerprint == fingerprint {
			matches = append(matches, c)
		}
	}
	if pick := pickUnique(matches); nil != pick {
		pick.consumed = true
		if pick.col == col {
			*mi++
		}
		return pick, pick.col
	}

	var slack []*cellRecord
	for i := treeRow - 1; i <= treeRow+1; i++ {
		if 0 > i || i >= len(t.rows) || treeRow == i {
			continue
		}
		for _, c := range t.rows[i].cells {
			if !c.consumed && c.spanBearing() && c.fingerprint == fingerprint {
				slack = append(slack, c)
			}
		}
	}
	if 1 == len(slack) {
		slack[0].consumed = true
		return slack[0], slack[0].col
	}

	// 一无所获：该渲染单元格仍然消耗一个位置
	if *mi < len(mapping) {
		*mi++
	}
	return nil, col
}

// pickUnique 在同行内容匹配结果中挑选唯一候选，歧义时返回 nil。
func pickUnique(matches []*cellRecord) *cellRecord {
	if 1 == len(matches) {
		return matches[0]
	}
	var span []*cellRecord
	for _, c := range matches {
		if c.spanBearing() {
			span = append(span, c)
		}
	}
	if 1 == len(span) {
		return span[0]
	}
	return nil
}

// alignColon 识别单元格内容首尾的对齐冒号并将其剥除。
// 首冒号靠左，尾冒号靠右，两者都有居中。
func alignColon(inner []byte) (ret []byte, align string) {
	ret = inner
	lead, trail := false, false

	i := 0
	for i < len(ret) && (lex.ItemSpace == ret[i] || lex.ItemTab == ret[i]) {
		i++
	}
	if i < len(ret) && lex.ItemColon == ret[i] {
		lead = true
		ret = append(append([]byte{}, ret[:i]...), ret[i+1:]...)
	}

	j := len(ret)
	for 0 < j && (lex.ItemSpace == ret[j-1] || lex.ItemTab == ret[j-1]) {
		j--
	}
	if 0 < j && lex.ItemColon == ret[j-1] {
		trail = true
		ret = append(append([]byte{}, ret[:j-1]...), ret[j:]...)
	}

	switch {
	case lead && trail:
		align = "center"
	case lead:
		align = "left"
	case trail:
		align = "right"
	default:
		ret = inner
	}
	return
}

// spliceAttrs 把属性片段拼接进开始标签。
func spliceAttrs(opening []byte, attrs string) []byte {
	buf := make([]byte, 0, len(opening)+len(attrs)+1)
	buf = append(buf, opening[:len(opening)-1]...)
	buf = append(buf, lex.ItemSpace)
	buf = append(buf, attrs...)
	buf = append(buf, '>')
	return buf
}

// indexTableOpen 查找下一个 <table 开始标签。
func indexTableOpen(data []byte, from int) int {
	return indexTag(data, from, "<table")
}

// indexRowOpen 查找下一个 <tr 开始标签。
func indexRowOpen(data []byte, from int) int {
	return indexTag(data, from, "<tr")
}

// indexParagraphOpen 查找下一个 <p 开始标签。
func indexParagraphOpen(data []byte, from int) int {
	return indexTag(data, from, "<p")
}

// indexCellOpen 查找下一个 <td 或 <th 开始标签。
func indexCellOpen(data []byte, from int) int {
	td := indexTag(data, from, "<td")
	th := indexTag(data, from, "<th")
	if 0 > td {
		return th
	}
	if 0 > th {
		return td
	}
	if td < th {
		return td
	}
	return th
}

// indexCellClose 查找下一个 </td> 或 </th> 结束标签。
func indexCellClose(data []byte, from int) int {
	td := bytes.Index(data[from:], []byte("</td>"))
	th := bytes.Index(data[from:], []byte("</th>"))
	if 0 > td && 0 > th {
		return -1
	}
	if 0 > td || (0 <= th && th < td) {
		return from + th
	}
	return from + td
}

// indexTag 查找 tag 的下一次出现，要求其后紧跟 >、空白或 /，
// 以免 <th 命中 <thead 这样的前缀。
func indexTag(data []byte, from int, tag string) int {
	for i := from; i < len(data); {
		j := bytes.Index(data[i:], []byte(tag))
		if 0 > j {
			return -1
		}
		k := i + j
		end := k + len(tag)
		if end >= len(data) {
			return -1
		}
		c := data[end]
		if '>' == c || ' ' == c || '\t' == c || '/' == c || '\n' == c {
			return k
		}
		i = k + 1
	}
	return -1
}

package mdk

import "time"

// Option 描述了初始化引擎时可选的配置。
type Option func(e *MDK)

// SetGFMTable 设置是否启用表格扩展。
func (e *MDK) SetGFMTable(b bool) {
	e.ParseOptions.GFMTable = b
}

// SetAttribute 设置是否启用属性装饰。
func (e *MDK) SetAttribute(b bool) {
	e.ParseOptions.Attribute = b
}

// SetHeadingID 设置是否启用标题 ID：解析时识别 {#id} 短形式，渲染时
// 为未显式指定 ID 的标题生成自动 ID。
func (e *MDK) SetHeadingID(b bool) {
	e.ParseOptions.HeadingID = b
	e.RenderOptions.HeadingID = b
}

// SetToC 设置是否启用 [toc] 目录。
func (e *MDK) SetToC(b bool) {
	e.ParseOptions.ToC = b
}

// SetYamlFrontMatter 设置是否启用 YAML Front Matter。
func (e *MDK) SetYamlFrontMatter(b bool) {
	e.ParseOptions.YamlFrontMatter = b
}

// SetCodeSyntaxHighlight 设置是否启用代码块语法高亮。
func (e *MDK) SetCodeSyntaxHighlight(b bool) {
	e.RenderOptions.CodeSyntaxHighlight = b
}

// SetCodeSyntaxHighlightInlineStyle 设置代码块语法高亮是否使用内联样式。
func (e *MDK) SetCodeSyntaxHighlightInlineStyle(b bool) {
	e.RenderOptions.CodeSyntaxHighlightInlineStyle = b
}

// SetCodeSyntaxHighlightStyleName 设置代码块语法高亮样式名。
func (e *MDK) SetCodeSyntaxHighlightStyleName(name string) {
	e.RenderOptions.CodeSyntaxHighlightStyleName = name
}

// SetTableCaptionBelow 设置表题是否渲染在表格下方。
func (e *MDK) SetTableCaptionBelow(b bool) {
	e.RenderOptions.TableCaptionBelow = b
}

// SetTableAlignStyle 设置列对齐落到单元格上的 style 模板。
func (e *MDK) SetTableAlignStyle(format string) {
	e.RenderOptions.TableAlignStyle = format
}

// SetTableReconcileTimeout 设置表格对账的最长耗时，超时的表格按原样
// 输出。
func (e *MDK) SetTableReconcileTimeout(d time.Duration) {
	e.RenderOptions.TableReconcileTimeout = d
}

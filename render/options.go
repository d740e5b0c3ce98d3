package render

import (
	"time"
)

// Options 描述了渲染选项。
type Options struct {
	// HeadingID 设置是否给标题生成 id 属性
	HeadingID bool
	// CodeSyntaxHighlight 设置是否对代码块进行语法高亮
	CodeSyntaxHighlight bool
	// CodeSyntaxHighlightInlineStyle 设置语法高亮是否使用内联样式，
	// 关闭时输出带 highlight- 前缀的 class，样式表由 chroma-styles 生成
	CodeSyntaxHighlightInlineStyle bool
	// CodeSyntaxHighlightStyleName 设置语法高亮样式名
	CodeSyntaxHighlightStyleName string
	// TableCaptionBelow 设置表标题渲染在表格之后
	TableCaptionBelow bool
	// TableAlignStyle 设置单元格对齐冒号改写出的样式模板，%s 处替换 left/center/right
	TableAlignStyle string
	// TableReconcileTimeout 设置表格对账的墙钟预算
	TableReconcileTimeout time.Duration
}

// NewOptions 创建默认渲染选项。
func NewOptions() *Options {
	return &Options{
		HeadingID:                    true,
		CodeSyntaxHighlight:          true,
		CodeSyntaxHighlightStyleName: "github",
		TableAlignStyle:              "text-align: %s",
		TableReconcileTimeout:        10 * time.Second,
	}
}

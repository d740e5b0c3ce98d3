package parse

// Options 描述了解析选项。
type Options struct {
	// GFMTable 设置是否打开表格支持
	GFMTable bool
	// Attribute 设置是否打开花括号属性（{: .cls #id key="value"}）支持
	Attribute bool
	// HeadingID 设置是否打开标题自定义 ID（# foo {#id}）支持
	HeadingID bool
	// ToC 设置是否打开目录（[toc]、{: toc}）支持
	ToC bool
	// YamlFrontMatter 设置是否打开 YAML Front Matter 支持
	YamlFrontMatter bool
}

// NewOptions 创建默认解析选项。
func NewOptions() *Options {
	return &Options{
		GFMTable:        true,
		Attribute:       true,
		HeadingID:       true,
		ToC:             true,
		YamlFrontMatter: true,
	}
}

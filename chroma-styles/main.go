package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/styles"
)

// 生成代码高亮样式表。引擎在非内联样式模式下输出带 highlight- 前缀的
// class，这里为每个 Chroma 样式生成对应的 CSS 文件。
func main() {
	dir := "chroma-styles"
	prefix := "highlight-"
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.ClassPrefix(prefix))
	var b bytes.Buffer
	names := styles.Names()
	for _, name := range names {
		if err := formatter.WriteCSS(&b, styles.Get(name)); nil != err {
			fmt.Fprintln(os.Stderr, name+": "+err.Error())
			b.Reset()
			continue
		}
		os.WriteFile(filepath.Join(dir, name)+".css", b.Bytes(), 0644)
		b.Reset()
	}

	fmt.Println("[\"" + strings.Join(names, "\", \"") + "\"]")
}

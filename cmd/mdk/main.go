// mdk 命令行工具：读取 markdown 文件或标准输入，输出渲染后的 HTML。
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/pafthang/mdk"
)

var CLI struct {
	Input        string        `arg:"" optional:"" name:"input" help:"Markdown file to render, reads stdin when omitted." type:"existingfile"`
	Output       string        `name:"output" short:"o" help:"Write HTML to this file instead of stdout."`
	CaptionBelow bool          `name:"caption-below" help:"Render table captions below tables."`
	Style        string        `name:"style" default:"github" help:"Code highlight style name."`
	NoHighlight  bool          `name:"no-highlight" help:"Disable code syntax highlighting."`
	Timeout      time.Duration `name:"timeout" default:"10s" help:"Per-document table processing deadline."`
	Version      bool          `name:"version" help:"Print version and exit."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("mdk"),
		kong.Description("Markdown renderer with attribute decorations and extended tables"),
		kong.UsageOnError(),
	)

	if CLI.Version {
		fmt.Println("mdk v" + mdk.Version)
		return
	}

	input, name, err := readInput()
	ctx.FatalIfErrorf(err)

	engine := mdk.New()
	engine.SetCodeSyntaxHighlight(!CLI.NoHighlight)
	engine.SetCodeSyntaxHighlightStyleName(CLI.Style)
	engine.SetTableCaptionBelow(CLI.CaptionBelow)
	engine.SetTableReconcileTimeout(CLI.Timeout)

	html := engine.Markdown(name, input)

	if "" != CLI.Output {
		err = os.WriteFile(CLI.Output, html, 0644)
	} else {
		_, err = os.Stdout.Write(html)
	}
	ctx.FatalIfErrorf(err)
}

func readInput() (data []byte, name string, err error) {
	if "" == CLI.Input {
		data, err = io.ReadAll(os.Stdin)
		return
	}
	name = CLI.Input
	data, err = os.ReadFile(CLI.Input)
	return
}

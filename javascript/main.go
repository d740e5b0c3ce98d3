package main

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/pafthang/mdk"
	"github.com/pafthang/mdk/ast"
	"github.com/pafthang/mdk/render"
)

func main() {
	js.Global.Set("MDK", map[string]interface{}{
		"Version":          mdk.Version,
		"New":              New,
		"Render":           Render,
		"WalkStop":         ast.WalkStop,
		"WalkSkipChildren": ast.WalkSkipChildren,
		"WalkContinue":     ast.WalkContinue,
		"EscapeHTMLStr":    render.EscapeHTMLStr,
	})
}

func New() *js.Object {
	engine := mdk.New()
	return js.MakeWrapper(engine)
}

// Render 一次性将 markdown 渲染为 HTML，适合不需要保留引擎实例的调用方。
func Render(markdown string) string {
	engine := mdk.New()
	return engine.MarkdownStr("", markdown)
}

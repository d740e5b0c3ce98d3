// Package lex 提供了词法标记定义和行级扫描辅助函数。
package lex

import (
	"bytes"
)

const (
	ItemNewline     = byte('\n')
	ItemCarriage    = byte('\r')
	ItemSpace       = byte(' ')
	ItemTab         = byte('\t')
	ItemHyphen      = byte('-')
	ItemEqual       = byte('=')
	ItemPipe        = byte('|')
	ItemColon       = byte(':')
	ItemPlus        = byte('+')
	ItemCrosshatch  = byte('#')
	ItemDot         = byte('.')
	ItemAsterisk    = byte('*')
	ItemUnderscore  = byte('_')
	ItemBacktick    = byte('`')
	ItemTilde       = byte('~')
	ItemGreater     = byte('>')
	ItemBang        = byte('!')
	ItemCaret       = byte('^')
	ItemOpenBracket = byte('[')
	ItemCloseBracket = byte(']')
	ItemOpenParen   = byte('(')
	ItemCloseParen  = byte(')')
	ItemOpenBrace   = byte('{')
	ItemCloseBrace  = byte('}')
	ItemDoublequote = byte('"')
	ItemSinglequote = byte('\'')
	ItemBackslash   = byte('\\')
)

// IsWhitespace 判断 token 是否是空白字符。
func IsWhitespace(token byte) bool {
	return ItemSpace == token || ItemNewline == token || ItemTab == token || ItemCarriage == token
}

// IsBlank 判断 tokens 是否都为空白字符。
func IsBlank(tokens []byte) bool {
	for _, token := range tokens {
		if !IsWhitespace(token) {
			return false
		}
	}
	return true
}

// Peek 返回 tokens 中 pos 位置的字节，越界时返回 0。
func Peek(tokens []byte, pos int) byte {
	if pos < len(tokens) {
		return tokens[pos]
	}
	return 0
}

// Split 按 separator 分割 tokens。
func Split(tokens []byte, separator byte) (ret [][]byte) {
	ret = bytes.Split(tokens, []byte{separator})
	return
}

// SplitLines 按换行分割 tokens，结果不含换行符。
func SplitLines(tokens []byte) [][]byte {
	tokens = bytes.ReplaceAll(tokens, []byte{ItemCarriage, ItemNewline}, []byte{ItemNewline})
	return bytes.Split(tokens, []byte{ItemNewline})
}

// TrimWhitespace 去除 tokens 两端的空白字符。
func TrimWhitespace(tokens []byte) []byte {
	return bytes.TrimFunc(tokens, func(r rune) bool {
		return r < 256 && IsWhitespace(byte(r))
	})
}

// TrimLeftWhitespace 去除 tokens 左端的空白字符，返回去除的字节数和剩余部分。
func TrimLeftWhitespace(tokens []byte) (trimmed int, remains []byte) {
	for trimmed < len(tokens) && IsWhitespace(tokens[trimmed]) {
		trimmed++
	}
	remains = tokens[trimmed:]
	return
}

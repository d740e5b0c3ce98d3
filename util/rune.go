package util

import (
	"unicode"
	"unicode/utf8"
)

// IsASCIILetterNumHyphen 判断 token 是否是 ASCII 字母、数字或连字符。
func IsASCIILetterNumHyphen(token byte) bool {
	return ('a' <= token && 'z' >= token) ||
		('A' <= token && 'Z' >= token) ||
		('0' <= token && '9' >= token) ||
		'-' == token
}

// IsIDRune 判断 r 是否可以出现在标题自定义 ID 中。
func IsIDRune(r rune) bool {
	if r < utf8.RuneSelf {
		return IsASCIILetterNumHyphen(byte(r))
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// WordCount 统计 str 的字数和词数。
func WordCount(str string) (runeCount, wordCount int) {
	inWord := false
	for _, r := range str {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		runeCount++
		if r >= utf8.RuneSelf {
			wordCount++
			inWord = false
			continue
		}
		if !inWord {
			wordCount++
			inWord = true
		}
	}
	return
}

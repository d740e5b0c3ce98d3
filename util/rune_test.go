package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	for _, test := range []struct {
		str   string
		runes int
		words int
	}{
		{"", 0, 0},
		{"hello", 5, 1},
		{"hello world", 10, 2},
		{"  spaced   out  ", 9, 2},
		{"你好", 2, 2},
		{"你好 world", 7, 3},
	} {
		runes, words := WordCount(test.str)
		assert.Equal(t, test.runes, runes, "str %q", test.str)
		assert.Equal(t, test.words, words, "str %q", test.str)
	}
}

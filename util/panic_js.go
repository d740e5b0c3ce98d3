//go:build javascript
// +build javascript

package util

import (
	"errors"
	"fmt"
)

// RecoverPanic 恢复 panic 并将其转换为 err。JavaScript 端不输出调用栈。
func RecoverPanic(err *error) {
	if e := recover(); nil != e {
		if nil != err {
			*err = errors.New("PANIC RECOVERED: " + fmt.Sprint(e))
		}
	}
}

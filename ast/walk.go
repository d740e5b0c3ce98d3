package ast

// WalkStatus 描述了遍历状态。
type WalkStatus int

const (
	// WalkStop 意味着不需要继续遍历。
	WalkStop WalkStatus = iota
	// WalkSkipChildren 意味着不要遍历子节点。
	WalkSkipChildren
	// WalkContinue 意味着继续遍历。
	WalkContinue
)

// WalkFunc 描述了遍历节点 n 时需要执行的操作，进入节点设置 entering 为 true，离开节点设置为 false。
type WalkFunc func(n *Node, entering bool) WalkStatus

// Walk 使用深度优先算法遍历指定的树节点 n。
func Walk(n *Node, walkFunc WalkFunc) {
	walk(n, walkFunc)
}

func walk(n *Node, walkFunc WalkFunc) WalkStatus {
	status := walkFunc(n, true)
	if WalkStop == status {
		return status
	}
	if WalkSkipChildren != status {
		// 先取 Next 以允许 walkFunc 中处理当前子节点，但不允许断开兄弟链接
		for child := n.FirstChild; nil != child; {
			next := child.Next
			if WalkStop == walk(child, walkFunc) {
				return WalkStop
			}
			child = next
		}
	}
	return walkFunc(n, false)
}

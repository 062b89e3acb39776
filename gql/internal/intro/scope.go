package intro

import "github.com/vektah/gqlparser/v2/ast"

// Scope 解析上下文，随值树一起传递，不会出现在输出中
type Scope struct {
	// Type 所属类型名: __Type节点为被描述的类型，__Field/__InputValue节点为声明它的类型
	Type string
	// Field 所属字段名，用于重新定位字段参数
	Field string
	// Directive 所属指令名，用于重新定位指令参数
	Directive string
	// Ref 尚未展开的类型引用，ofType与type依赖它继续递归
	Ref *ast.Type
	// Shallow 作为possibleTypes渲染的类型不再展开interfaces与possibleTypes
	Shallow bool
}

// Node 一个自省对象及其解析上下文
type Node struct {
	Value *ObjectValue
	Scope Scope
}

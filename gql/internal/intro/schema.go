package intro

import (
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
)

// Schema 只读的schema索引，构建后不可修改，可在并发请求之间共享
type Schema struct {
	doc        *ast.SchemaDocument
	types      map[string]*ast.Definition
	directives map[string]*ast.DirectiveDefinition
}

// NewSchema 为schema文档建立名称索引，重名时保留第一个定义
func NewSchema(doc *ast.SchemaDocument) *Schema {
	if doc == nil {
		doc = &ast.SchemaDocument{}
	}
	s := &Schema{
		doc:        doc,
		types:      make(map[string]*ast.Definition, len(doc.Definitions)),
		directives: make(map[string]*ast.DirectiveDefinition, len(doc.Directives)),
	}
	for _, def := range doc.Definitions {
		if _, ok := s.types[def.Name]; !ok {
			s.types[def.Name] = def
		}
	}
	for _, dir := range doc.Directives {
		if _, ok := s.directives[dir.Name]; !ok {
			s.directives[dir.Name] = dir
		}
	}
	return s
}

// Definitions 按声明顺序返回所有类型定义
func (my *Schema) Definitions() ast.DefinitionList {
	return my.doc.Definitions
}

// Directives 按声明顺序返回所有指令定义
func (my *Schema) Directives() ast.DirectiveDefinitionList {
	return my.doc.Directives
}

// NamedType 按名称查找任意种类的类型定义
func (my *Schema) NamedType(name string) (*ast.Definition, bool) {
	def, ok := my.types[name]
	return def, ok
}

// Resolve 解析schema内部的类型引用，找不到说明schema本身不一致
func (my *Schema) Resolve(name string) (*ast.Definition, error) {
	def, ok := my.types[name]
	if !ok {
		return nil, &SchemaInconsistencyError{Name: name}
	}
	return def, nil
}

// Directive 按名称查找指令定义
func (my *Schema) Directive(name string) (*ast.DirectiveDefinition, bool) {
	dir, ok := my.directives[name]
	return dir, ok
}

// QueryType 名为Query的对象类型
func (my *Schema) QueryType() (*ast.Definition, bool) {
	return my.rootType(TYPE_QUERY)
}

// MutationType 名为Mutation的对象类型
func (my *Schema) MutationType() (*ast.Definition, bool) {
	return my.rootType(TYPE_MUTATION)
}

// SubscriptionType 名为Subscription的对象类型
func (my *Schema) SubscriptionType() (*ast.Definition, bool) {
	return my.rootType(TYPE_SUBSCRIPTION)
}

func (my *Schema) rootType(name string) (*ast.Definition, bool) {
	return lo.Find(my.doc.Definitions, func(def *ast.Definition) bool {
		return def.Kind == ast.Object && def.Name == name
	})
}

// Implementations 按声明顺序返回实现了指定接口的所有对象类型
func (my *Schema) Implementations(name string) []*ast.Definition {
	return lo.Filter(my.doc.Definitions, func(def *ast.Definition, _ int) bool {
		return def.Kind == ast.Object && lo.Contains(def.Interfaces, name)
	})
}

// FieldOf 查找类型上的字段
func FieldOf(def *ast.Definition, name string) (*ast.FieldDefinition, bool) {
	if def == nil {
		return nil, false
	}
	f := def.Fields.ForName(name)
	return f, f != nil
}

// TypeName 返回类型定义的名称
func TypeName(def *ast.Definition) string {
	return def.Name
}

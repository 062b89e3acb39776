package intro

import (
	"runtime/debug"

	"github.com/ichaly/introspect/log"
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
)

// Request 一次自省字段解析请求
type Request struct {
	// Field 请求的字段名
	Field string
	// Type 字段所属的自省类型名，例如__Type
	Type string
	// Parent 父对象及其解析上下文
	Parent Node
	// Args 字段参数
	Args map[string]Value
}

// Resolver 自省解析器，绑定一个不可变的schema版本，可并发使用
type Resolver struct {
	schema *Schema
}

// NewResolver 创建自省解析器
func NewResolver(s *Schema) *Resolver {
	return &Resolver{schema: s}
}

// Schema 返回解析器绑定的schema版本
func (my *Resolver) Schema() *Schema {
	return my.schema
}

// ResolveObject 解析返回单个对象的字段，返回nil表示null
func (my *Resolver) ResolveObject(req Request) (node *Node, err error) {
	defer my.recover(req, &err)

	f, err := my.lookup(req, false)
	if err != nil {
		return nil, err
	}

	switch f {
	case QuerySchema:
		return schemaNode(), nil
	case QueryType:
		return my.typeByName(req)
	case SchemaQueryType:
		return my.rootNode(my.schema.QueryType())
	case SchemaMutationType:
		return my.rootNode(my.schema.MutationType())
	case SchemaSubscriptionType:
		return my.rootNode(my.schema.SubscriptionType())
	case TypeOfType:
		return describeType(my.schema, unwrap(req.Parent.Scope.Ref))
	case FieldType, InputValueType:
		return describeType(my.schema, req.Parent.Scope.Ref)
	default:
		return nil, &UnhandledFieldError{Field: req.Field, Type: req.Type}
	}
}

// ResolveObjects 解析返回对象列表的字段，返回nil表示null
func (my *Resolver) ResolveObjects(req Request) (nodes []Node, err error) {
	defer my.recover(req, &err)

	f, err := my.lookup(req, true)
	if err != nil {
		return nil, err
	}

	switch f {
	case SchemaTypes:
		return my.types()
	case SchemaDirectives:
		return lo.Map(my.schema.Directives(), func(d *ast.DirectiveDefinition, _ int) Node {
			return describeDirective(d)
		}), nil
	case FieldArgs:
		return my.fieldArgs(req.Parent.Scope)
	case DirectiveArgs:
		return my.directiveArgs(req.Parent.Scope)
	case TypeFields, TypeInterfaces, TypePossibleTypes, TypeEnumValues, TypeInputFields:
		return my.typeMembers(f, req.Parent.Scope)
	default:
		return nil, &UnhandledFieldError{Field: req.Field, Type: req.Type}
	}
}

// lookup 将(字段, 类型)映射为自省字段枚举，单复数不匹配同样视为无法处理
func (my *Resolver) lookup(req Request, plural bool) (Field, error) {
	f, ok := LookupField(req.Type, req.Field)
	if !ok || f.Plural() != plural {
		return FieldUnknown, &UnhandledFieldError{Field: req.Field, Type: req.Type}
	}
	return f, nil
}

// recover 在解析器边界拦截panic，并记录内部错误的完整信息
func (my *Resolver) recover(req Request, err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{Value: r, Stack: debug.Stack()}
	}
	if *err != nil && IsInternal(*err) {
		log.Error().Err(*err).
			Str("type", req.Type).
			Str("field", req.Field).
			Str("scope", req.Parent.Scope.Type).
			Msg("自省字段解析失败")
	}
}

func schemaNode() *Node {
	return &Node{Value: NewObject(
		"types", Null,
		"queryType", Null,
		"mutationType", Null,
		"subscriptionType", Null,
		"directives", Null,
	)}
}

// typeByName 客户端查询的类型不存在时返回null而不是错误
func (my *Resolver) typeByName(req Request) (*Node, error) {
	arg, ok := req.Args["name"]
	if !ok || arg == nil || arg.Kind() != KindString {
		return nil, &ArgumentError{Field: req.Field, Argument: "name", Message: "需要String!类型的值"}
	}
	def, ok := my.schema.NamedType(string(arg.(StringValue)))
	if !ok {
		return nil, nil
	}
	return describeDefinition(def, false)
}

func (my *Resolver) rootNode(def *ast.Definition, ok bool) (*Node, error) {
	if !ok {
		return nil, nil
	}
	return describeDefinition(def, false)
}

// types 合并后schema中的全部类型，按声明顺序
func (my *Resolver) types() ([]Node, error) {
	defs := my.schema.Definitions()
	nodes := make([]Node, 0, len(defs))
	for _, def := range defs {
		node, err := describeDefinition(def, false)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// typeMembers 根据上下文中的类型名重新定位类型定义，再取出请求的成员列表
func (my *Resolver) typeMembers(f Field, scope Scope) ([]Node, error) {
	// 包装类型没有成员
	if scope.Type == "" {
		return nil, nil
	}
	def, err := my.schema.Resolve(scope.Type)
	if err != nil {
		return nil, err
	}

	switch f {
	case TypeFields:
		return typeFields(def), nil
	case TypeInterfaces:
		return typeInterfaces(my.schema, def, scope.Shallow)
	case TypePossibleTypes:
		return typePossibleTypes(my.schema, def, scope.Shallow)
	case TypeEnumValues:
		return typeEnumValues(def), nil
	case TypeInputFields:
		return typeInputFields(def), nil
	default:
		return nil, &UnhandledFieldError{Field: f.String(), Type: META_TYPE}
	}
}

// fieldArgs 通过上下文中的(类型, 字段)重新定位字段定义
func (my *Resolver) fieldArgs(scope Scope) ([]Node, error) {
	def, err := my.schema.Resolve(scope.Type)
	if err != nil {
		return nil, err
	}
	f, ok := FieldOf(def, scope.Field)
	if !ok {
		return nil, &SchemaInconsistencyError{Name: scope.Type + "." + scope.Field}
	}
	return describeArguments(Scope{Type: scope.Type, Field: scope.Field}, f.Arguments), nil
}

// directiveArgs 通过上下文中的指令名重新定位指令定义
func (my *Resolver) directiveArgs(scope Scope) ([]Node, error) {
	d, ok := my.schema.Directive(scope.Directive)
	if !ok {
		return nil, &SchemaInconsistencyError{Name: "@" + scope.Directive}
	}
	return describeArguments(Scope{Directive: scope.Directive}, d.Arguments), nil
}

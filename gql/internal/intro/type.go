package intro

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// __TypeKind 枚举标签
const (
	KIND_SCALAR       EnumValue = "SCALAR"
	KIND_OBJECT       EnumValue = "OBJECT"
	KIND_INTERFACE    EnumValue = "INTERFACE"
	KIND_UNION        EnumValue = "UNION"
	KIND_ENUM         EnumValue = "ENUM"
	KIND_INPUT_OBJECT EnumValue = "INPUT_OBJECT"
	KIND_LIST         EnumValue = "LIST"
	KIND_NON_NULL     EnumValue = "NON_NULL"
)

// describeType 渲染类型引用，每次只展开一层，内层留给ofType按需解析
func describeType(s *Schema, ref *ast.Type) (*Node, error) {
	switch {
	case ref == nil:
		return nil, nil
	case ref.NonNull:
		return wrapperNode(KIND_NON_NULL, ref), nil
	case ref.Elem != nil:
		return wrapperNode(KIND_LIST, ref), nil
	}

	def, err := s.Resolve(ref.NamedType)
	if err != nil {
		return nil, err
	}
	node, err := describeDefinition(def, false)
	if err != nil {
		return nil, err
	}
	node.Scope.Ref = ref
	return node, nil
}

// wrapperNode LIST与NON_NULL没有名称与描述，只携带未展开的引用
func wrapperNode(kind EnumValue, ref *ast.Type) *Node {
	return &Node{
		Value: NewObject(
			"kind", kind,
			"name", Null,
			"description", Null,
			"fields", Null,
			"interfaces", Null,
			"possibleTypes", Null,
			"enumValues", Null,
			"inputFields", Null,
			"ofType", Null,
		),
		Scope: Scope{Ref: ref},
	}
}

// unwrap 返回包装类型的内层引用，命名类型返回nil
func unwrap(ref *ast.Type) *ast.Type {
	switch {
	case ref == nil:
		return nil
	case ref.NonNull:
		return &ast.Type{NamedType: ref.NamedType, Elem: ref.Elem, Position: ref.Position}
	case ref.Elem != nil:
		return ref.Elem
	default:
		return nil
	}
}

// kindOf 类型定义种类到__TypeKind的映射
func kindOf(def *ast.Definition) (EnumValue, error) {
	switch def.Kind {
	case ast.Object:
		return KIND_OBJECT, nil
	case ast.Interface:
		return KIND_INTERFACE, nil
	case ast.Union:
		return KIND_UNION, nil
	case ast.Enum:
		return KIND_ENUM, nil
	case ast.Scalar:
		return KIND_SCALAR, nil
	case ast.InputObject:
		return KIND_INPUT_OBJECT, nil
	default:
		return "", &SchemaInconsistencyError{Name: def.Name}
	}
}

// describeDefinition 渲染具体的类型定义，列表字段全部留空，由解析器按需填充
func describeDefinition(def *ast.Definition, shallow bool) (*Node, error) {
	kind, err := kindOf(def)
	if err != nil {
		return nil, err
	}
	return &Node{
		Value: NewObject(
			"kind", kind,
			"name", StringValue(def.Name),
			"description", stringOrNull(def.Description),
			"fields", Null,
			"interfaces", Null,
			"possibleTypes", Null,
			"enumValues", Null,
			"inputFields", Null,
			"ofType", Null,
		),
		Scope: Scope{Type: def.Name, Shallow: shallow},
	}, nil
}

// typeFields OBJECT与INTERFACE的字段，按声明顺序
func typeFields(def *ast.Definition) []Node {
	if def.Kind != ast.Object && def.Kind != ast.Interface {
		return nil
	}
	nodes := make([]Node, 0, len(def.Fields))
	for _, f := range def.Fields {
		nodes = append(nodes, describeField(def.Name, f))
	}
	return nodes
}

// typeInterfaces OBJECT实现的接口，按声明顺序逐个按名称解析
func typeInterfaces(s *Schema, def *ast.Definition, shallow bool) ([]Node, error) {
	if def.Kind != ast.Object || shallow {
		return nil, nil
	}
	nodes := make([]Node, 0, len(def.Interfaces))
	for _, name := range def.Interfaces {
		iface, err := s.Resolve(name)
		if err != nil {
			return nil, err
		}
		node, err := describeDefinition(iface, false)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// typePossibleTypes INTERFACE的实现类型或UNION的成员类型，均不再展开自身的interfaces与possibleTypes
func typePossibleTypes(s *Schema, def *ast.Definition, shallow bool) ([]Node, error) {
	if shallow {
		return nil, nil
	}

	var members []*ast.Definition
	switch def.Kind {
	case ast.Interface:
		members = s.Implementations(def.Name)
	case ast.Union:
		members = make([]*ast.Definition, 0, len(def.Types))
		for _, name := range def.Types {
			member, err := s.Resolve(name)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
	default:
		return nil, nil
	}

	nodes := make([]Node, 0, len(members))
	for _, member := range members {
		node, err := describeDefinition(member, true)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// typeEnumValues ENUM的取值，按声明顺序
func typeEnumValues(def *ast.Definition) []Node {
	if def.Kind != ast.Enum {
		return nil
	}
	nodes := make([]Node, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		nodes = append(nodes, describeEnumValue(def.Name, v))
	}
	return nodes
}

// typeInputFields INPUT_OBJECT的输入字段，按参数的方式渲染
func typeInputFields(def *ast.Definition) []Node {
	if def.Kind != ast.InputObject {
		return nil
	}
	nodes := make([]Node, 0, len(def.Fields))
	for _, f := range def.Fields {
		nodes = append(nodes, describeInputValue(
			Scope{Type: def.Name, Ref: f.Type},
			f.Name, f.Description, f.DefaultValue,
		))
	}
	return nodes
}

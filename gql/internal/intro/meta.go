package intro

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// MetaSchemaVersion 内置元schema的版本，修改META_SDL时同步递增
const MetaSchemaVersion = "2"

// META_SDL 描述自省类型系统自身的schema
const META_SDL = `
scalar Boolean
scalar Float
scalar Int
scalar ID
scalar String

type Query {
  __schema: __Schema!
  __type(name: String!): __Type
}

type __Schema {
  types: [__Type!]!
  queryType: __Type!
  mutationType: __Type
  subscriptionType: __Type
  directives: [__Directive!]!
}

type __Type {
  kind: __TypeKind!
  name: String
  description: String

  # OBJECT and INTERFACE only
  fields(includeDeprecated: Boolean = false): [__Field!]

  # OBJECT only
  interfaces: [__Type!]

  # INTERFACE and UNION only
  possibleTypes: [__Type!]

  # ENUM only
  enumValues(includeDeprecated: Boolean = false): [__EnumValue!]

  # INPUT_OBJECT only
  inputFields: [__InputValue!]

  # NON_NULL and LIST only
  ofType: __Type
}

type __Field {
  name: String!
  description: String
  args: [__InputValue!]!
  type: __Type!
  isDeprecated: Boolean!
  deprecationReason: String
}

type __InputValue {
  name: String!
  description: String
  type: __Type!
  defaultValue: String
}

type __EnumValue {
  name: String!
  description: String
  isDeprecated: Boolean!
  deprecationReason: String
}

enum __TypeKind {
  SCALAR
  OBJECT
  INTERFACE
  UNION
  ENUM
  INPUT_OBJECT
  LIST
  NON_NULL
}

type __Directive {
  name: String!
  description: String
  locations: [__DirectiveLocation!]!
  args: [__InputValue!]!
}

enum __DirectiveLocation {
  QUERY
  MUTATION
  SUBSCRIPTION
  FIELD
  FRAGMENT_DEFINITION
  FRAGMENT_SPREAD
  INLINE_FRAGMENT
  VARIABLE_DEFINITION
  SCHEMA
  SCALAR
  OBJECT
  FIELD_DEFINITION
  ARGUMENT_DEFINITION
  INTERFACE
  UNION
  ENUM
  ENUM_VALUE
  INPUT_OBJECT
  INPUT_FIELD_DEFINITION
}

directive @include(if: Boolean!) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT
directive @skip(if: Boolean!) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT
directive @deprecated(reason: String = "No longer supported") on FIELD_DEFINITION | ENUM_VALUE
`

// meta 启动时解析一次的元schema，解析失败直接终止进程
var meta = mustParseMeta()

func mustParseMeta() *ast.SchemaDocument {
	doc, err := parser.ParseSchema(&ast.Source{Name: "introspection.graphql", Input: META_SDL, BuiltIn: true})
	if err != nil {
		panic(fmt.Errorf("解析内置元schema失败: %w", err))
	}
	return doc
}

// Meta 返回元schema文档，调用方不得修改
func Meta() *ast.SchemaDocument {
	return meta
}

// MetaField 查找元类型上声明的字段
func MetaField(typeName, fieldName string) (*ast.FieldDefinition, bool) {
	def := meta.Definitions.ForName(typeName)
	if def == nil {
		return nil, false
	}
	return FieldOf(def, fieldName)
}

// IsLeaf 判断元schema中的类型是否为标量或枚举
func IsLeaf(typeName string) bool {
	def := meta.Definitions.ForName(typeName)
	return def != nil && (def.Kind == ast.Scalar || def.Kind == ast.Enum)
}

// Merge 将元schema合并进用户schema，生成新的文档，不修改入参
// 用户定义优先，元schema中的Query只提供__schema与__type入口，不参与合并
func Merge(doc *ast.SchemaDocument) *ast.SchemaDocument {
	merged := &ast.SchemaDocument{}
	if doc != nil {
		merged.Schema = doc.Schema
		merged.SchemaExtension = doc.SchemaExtension
		merged.Extensions = doc.Extensions
		merged.Definitions = append(merged.Definitions, doc.Definitions...)
		merged.Directives = append(merged.Directives, doc.Directives...)
	}

	for _, def := range meta.Definitions {
		if def.Name == TYPE_QUERY || merged.Definitions.ForName(def.Name) != nil {
			continue
		}
		merged.Definitions = append(merged.Definitions, def)
	}
	for _, dir := range meta.Directives {
		if merged.Directives.ForName(dir.Name) != nil {
			continue
		}
		merged.Directives = append(merged.Directives, dir)
	}

	return merged
}

// Load 合并元schema并建立索引，得到可直接用于自省的schema版本
func Load(doc *ast.SchemaDocument) *Schema {
	return NewSchema(Merge(doc))
}

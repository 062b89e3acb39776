package intro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const testSDL = `
"根查询"
type Query {
  widget(id: ID!, limit: Int = 10, order: Order = DESC, tags: [String!] = ["a", "b"]): Widget
  widgets: [Widget!]!
  node(id: ID!): Node
  search(term: String): [Result]
}

type Mutation {
  save(input: WidgetInput!): Widget
}

interface Node {
  id: ID!
}

interface Named {
  name: String
}

"小部件"
type Widget implements Node & Named {
  id: ID!
  name: String
  tags: [String!]!
  matrix: [[Int!]]!
  parent: Widget
  children: [Widget!]
}

type Gadget implements Node {
  id: ID!
}

type Plain {
  value: Float
}

union Result = Gadget | Widget

enum Order {
  "升序"
  ASC
  DESC
  NONE
}

scalar DateTime

input WidgetInput {
  name: String!
  size: Int = 3
  when: DateTime
}

directive @cached(ttl: Int = 60, scope: String) on FIELD_DEFINITION | OBJECT
`

func newTestResolver(t *testing.T, sdl string) *Resolver {
	t.Helper()
	doc, err := parser.ParseSchema(&ast.Source{Name: "test.graphql", Input: sdl})
	require.NoError(t, err)
	return NewResolver(Load(doc))
}

func value(t *testing.T, node *Node, key string) interface{} {
	t.Helper()
	require.NotNil(t, node)
	v, ok := node.Value.Get(key)
	require.True(t, ok, "缺少字段%s", key)
	return v.Interface()
}

func lookupType(t *testing.T, r *Resolver, name string) *Node {
	t.Helper()
	node, err := r.ResolveObject(Request{
		Field: "__type",
		Type:  TYPE_QUERY,
		Args:  map[string]Value{"name": StringValue(name)},
	})
	require.NoError(t, err)
	return node
}

func members(t *testing.T, r *Resolver, parent *Node, field string) []Node {
	t.Helper()
	nodes, err := r.ResolveObjects(Request{Field: field, Type: META_TYPE, Parent: *parent})
	require.NoError(t, err)
	return nodes
}

func names(nodes []Node) []string {
	res := make([]string, 0, len(nodes))
	for _, n := range nodes {
		v, _ := n.Value.Get("name")
		res = append(res, v.Interface().(string))
	}
	return res
}

func fieldNamed(t *testing.T, r *Resolver, typeName, fieldName string) Node {
	t.Helper()
	for _, n := range members(t, r, lookupType(t, r, typeName), "fields") {
		if n.Scope.Field == fieldName {
			return n
		}
	}
	t.Fatalf("类型%s缺少字段%s", typeName, fieldName)
	return Node{}
}

func TestTypeKinds(t *testing.T) {
	r := newTestResolver(t, testSDL)

	tests := []struct {
		name string
		kind string
	}{
		{"Query", "OBJECT"},
		{"Widget", "OBJECT"},
		{"Node", "INTERFACE"},
		{"Result", "UNION"},
		{"Order", "ENUM"},
		{"DateTime", "SCALAR"},
		{"String", "SCALAR"},
		{"WidgetInput", "INPUT_OBJECT"},
		{"__Type", "OBJECT"},
		{"__TypeKind", "ENUM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := lookupType(t, r, tt.name)
			assert.Equal(t, tt.kind, value(t, node, "kind"))
			assert.Equal(t, tt.name, value(t, node, "name"))
		})
	}
}

func TestUnknownTypeIsNull(t *testing.T) {
	r := newTestResolver(t, testSDL)

	node, err := r.ResolveObject(Request{
		Field: "__type",
		Type:  TYPE_QUERY,
		Args:  map[string]Value{"name": StringValue("DoesNotExist")},
	})
	assert.NoError(t, err)
	assert.Nil(t, node)
}

func TestTypeByNameRequiresName(t *testing.T) {
	r := newTestResolver(t, testSDL)

	_, err := r.ResolveObject(Request{Field: "__type", Type: TYPE_QUERY})
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.False(t, IsInternal(err))
}

func TestDescription(t *testing.T) {
	r := newTestResolver(t, testSDL)

	assert.Equal(t, "小部件", value(t, lookupType(t, r, "Widget"), "description"))
	assert.Nil(t, value(t, lookupType(t, r, "Plain"), "description"))
}

func TestFieldOrder(t *testing.T) {
	r := newTestResolver(t, testSDL)

	fields := members(t, r, lookupType(t, r, "Widget"), "fields")
	assert.Equal(t, []string{"id", "name", "tags", "matrix", "parent", "children"}, names(fields))
	for _, f := range fields {
		v, _ := f.Value.Get("isDeprecated")
		assert.Equal(t, false, v.Interface())
		assert.Equal(t, "Widget", f.Scope.Type)
	}
}

func TestWrapperFidelity(t *testing.T) {
	r := newTestResolver(t, testSDL)

	tags := fieldNamed(t, r, "Widget", "tags")
	node, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: tags})
	require.NoError(t, err)

	var kinds []interface{}
	for node != nil {
		kinds = append(kinds, value(t, node, "kind"))
		node, err = r.ResolveObject(Request{Field: "ofType", Type: META_TYPE, Parent: *node})
		require.NoError(t, err)
	}
	assert.Equal(t, []interface{}{"NON_NULL", "LIST", "NON_NULL", "SCALAR"}, kinds)
}

func TestNestedListOfType(t *testing.T) {
	r := newTestResolver(t, testSDL)

	matrix := fieldNamed(t, r, "Widget", "matrix")
	node, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: matrix})
	require.NoError(t, err)

	var chain []interface{}
	for node != nil {
		chain = append(chain, value(t, node, "kind"))
		if name := value(t, node, "name"); name != nil {
			chain = append(chain, name)
		}
		node, err = r.ResolveObject(Request{Field: "ofType", Type: META_TYPE, Parent: *node})
		require.NoError(t, err)
	}
	assert.Equal(t, []interface{}{"NON_NULL", "LIST", "LIST", "NON_NULL", "SCALAR", "Int"}, chain)
}

func TestWrapperHasNoMembers(t *testing.T) {
	r := newTestResolver(t, testSDL)

	node, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: fieldNamed(t, r, "Widget", "id")})
	require.NoError(t, err)
	assert.Equal(t, "NON_NULL", value(t, node, "kind"))
	assert.Nil(t, value(t, node, "name"))
	assert.Nil(t, members(t, r, node, "fields"))
}

func TestSelfReference(t *testing.T) {
	r := newTestResolver(t, testSDL)

	// Widget.parent -> Widget -> parent -> Widget ... 每次只展开一层
	parent := fieldNamed(t, r, "Widget", "parent")
	for i := 0; i < 5; i++ {
		node, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: parent})
		require.NoError(t, err)
		assert.Equal(t, "Widget", value(t, node, "name"))
		assert.Nil(t, value(t, node, "fields"), "字段列表必须按需解析")

		found := false
		for _, f := range members(t, r, node, "fields") {
			if f.Scope.Field == "parent" {
				parent, found = f, true
			}
		}
		require.True(t, found)
	}
}

func TestInterfaces(t *testing.T) {
	r := newTestResolver(t, testSDL)

	assert.Equal(t, []string{"Node", "Named"}, names(members(t, r, lookupType(t, r, "Widget"), "interfaces")))
	assert.Empty(t, members(t, r, lookupType(t, r, "Plain"), "interfaces"))
	assert.Nil(t, members(t, r, lookupType(t, r, "Node"), "interfaces"))
}

func TestPossibleTypes(t *testing.T) {
	r := newTestResolver(t, testSDL)

	t.Run("接口", func(t *testing.T) {
		possible := members(t, r, lookupType(t, r, "Node"), "possibleTypes")
		assert.Equal(t, []string{"Widget", "Gadget"}, names(possible))

		// 实现类型不再展开interfaces，避免接口与对象互相递归
		for i := range possible {
			assert.True(t, possible[i].Scope.Shallow)
			assert.Nil(t, members(t, r, &possible[i], "interfaces"))
			assert.NotEmpty(t, members(t, r, &possible[i], "fields"))
		}
		assert.Equal(t, []string{"Widget"}, names(members(t, r, lookupType(t, r, "Named"), "possibleTypes")))
	})

	t.Run("联合", func(t *testing.T) {
		possible := members(t, r, lookupType(t, r, "Result"), "possibleTypes")
		assert.Equal(t, []string{"Gadget", "Widget"}, names(possible))
	})

	t.Run("对象", func(t *testing.T) {
		assert.Nil(t, members(t, r, lookupType(t, r, "Widget"), "possibleTypes"))
	})
}

func TestEnumValues(t *testing.T) {
	r := newTestResolver(t, testSDL)

	values := members(t, r, lookupType(t, r, "Order"), "enumValues")
	assert.Equal(t, []string{"ASC", "DESC", "NONE"}, names(values))
	assert.Equal(t, "升序", value(t, &values[0], "description"))
	for i := range values {
		assert.Equal(t, false, value(t, &values[i], "isDeprecated"))
		assert.Nil(t, value(t, &values[i], "deprecationReason"))
	}
	assert.Nil(t, members(t, r, lookupType(t, r, "Widget"), "enumValues"))
}

func TestInputFields(t *testing.T) {
	r := newTestResolver(t, testSDL)

	fields := members(t, r, lookupType(t, r, "WidgetInput"), "inputFields")
	assert.Equal(t, []string{"name", "size", "when"}, names(fields))
	assert.Nil(t, value(t, &fields[0], "defaultValue"))
	assert.Equal(t, "3", value(t, &fields[1], "defaultValue"))

	node, err := r.ResolveObject(Request{Field: "type", Type: META_INPUT_VALUE, Parent: fields[2]})
	require.NoError(t, err)
	assert.Equal(t, "DateTime", value(t, node, "name"))
}

func TestFieldArgs(t *testing.T) {
	r := newTestResolver(t, testSDL)

	widget := fieldNamed(t, r, "Query", "widget")
	args, err := r.ResolveObjects(Request{Field: "args", Type: META_FIELD, Parent: widget})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "limit", "order", "tags"}, names(args))

	// 默认值保持GraphQL字面量语法
	assert.Nil(t, value(t, &args[0], "defaultValue"))
	assert.Equal(t, "10", value(t, &args[1], "defaultValue"))
	assert.Equal(t, "DESC", value(t, &args[2], "defaultValue"))
	assert.Equal(t, `["a","b"]`, value(t, &args[3], "defaultValue"))

	node, err := r.ResolveObject(Request{Field: "type", Type: META_INPUT_VALUE, Parent: args[0]})
	require.NoError(t, err)
	assert.Equal(t, "NON_NULL", value(t, node, "kind"))

	// 上下文不出现在输出中
	for i := range args {
		assert.ElementsMatch(t, []string{"name", "description", "type", "defaultValue"}, args[i].Value.Keys())
	}
}

func TestDirectives(t *testing.T) {
	r := newTestResolver(t, testSDL)

	directives, err := r.ResolveObjects(Request{Field: "directives", Type: META_SCHEMA, Parent: *schemaNode()})
	require.NoError(t, err)
	assert.Equal(t, []string{"cached", "include", "skip", "deprecated"}, names(directives))
	assert.Equal(t, []interface{}{"FIELD_DEFINITION", "OBJECT"}, value(t, &directives[0], "locations"))

	args, err := r.ResolveObjects(Request{Field: "args", Type: META_DIRECTIVE, Parent: directives[0]})
	require.NoError(t, err)
	assert.Equal(t, []string{"ttl", "scope"}, names(args))
	assert.Equal(t, "60", value(t, &args[0], "defaultValue"))

	args, err = r.ResolveObjects(Request{Field: "args", Type: META_DIRECTIVE, Parent: directives[3]})
	require.NoError(t, err)
	assert.Equal(t, `"No longer supported"`, value(t, &args[0], "defaultValue"))
}

func TestRootTypes(t *testing.T) {
	t.Run("只有Query", func(t *testing.T) {
		r := newTestResolver(t, `type Query { id: ID! }`)

		def, ok := r.Schema().QueryType()
		require.True(t, ok)
		assert.Equal(t, "Query", TypeName(def))

		node, err := r.ResolveObject(Request{Field: "queryType", Type: META_SCHEMA, Parent: *schemaNode()})
		require.NoError(t, err)
		assert.Equal(t, "Query", value(t, node, "name"))

		node, err = r.ResolveObject(Request{Field: "mutationType", Type: META_SCHEMA, Parent: *schemaNode()})
		assert.NoError(t, err)
		assert.Nil(t, node)
	})

	t.Run("包含Mutation", func(t *testing.T) {
		r := newTestResolver(t, testSDL)

		node, err := r.ResolveObject(Request{Field: "mutationType", Type: META_SCHEMA, Parent: *schemaNode()})
		require.NoError(t, err)
		assert.Equal(t, "Mutation", value(t, node, "name"))

		node, err = r.ResolveObject(Request{Field: "subscriptionType", Type: META_SCHEMA, Parent: *schemaNode()})
		assert.NoError(t, err)
		assert.Nil(t, node)
	})

	t.Run("缺少Query", func(t *testing.T) {
		r := newTestResolver(t, `type Widget { id: ID! }`)

		_, ok := r.Schema().QueryType()
		assert.False(t, ok)
		node, err := r.ResolveObject(Request{Field: "queryType", Type: META_SCHEMA, Parent: *schemaNode()})
		assert.NoError(t, err)
		assert.Nil(t, node)
	})
}

func TestSchemaTypes(t *testing.T) {
	r := newTestResolver(t, `type Widget { id: ID! }`)

	types, err := r.ResolveObjects(Request{Field: "types", Type: META_SCHEMA, Parent: *schemaNode()})
	require.NoError(t, err)

	all := names(types)
	// 用户定义在前，元schema中的类型在后，Query入口不参与合并
	assert.Equal(t, "Widget", all[0])
	assert.Equal(t, "OBJECT", value(t, &types[0], "kind"))
	assert.Contains(t, all, "ID")
	assert.Contains(t, all, "__Schema")
	assert.Contains(t, all, "__DirectiveLocation")
	assert.NotContains(t, all, "Query")

	fields := members(t, r, &types[0], "fields")
	require.Len(t, fields, 1)
	assert.Equal(t, "id", value(t, &fields[0], "name"))

	node, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: fields[0]})
	require.NoError(t, err)
	assert.Equal(t, "NON_NULL", value(t, node, "kind"))
	node, err = r.ResolveObject(Request{Field: "ofType", Type: META_TYPE, Parent: *node})
	require.NoError(t, err)
	assert.Equal(t, "ID", value(t, node, "name"))
	assert.Equal(t, "SCALAR", value(t, node, "kind"))
}

func TestUserDefinitionWins(t *testing.T) {
	r := newTestResolver(t, `
"自定义字符串"
scalar String
type Query { id: ID! }
`)

	types, err := r.ResolveObjects(Request{Field: "types", Type: META_SCHEMA, Parent: *schemaNode()})
	require.NoError(t, err)

	count := 0
	for _, n := range names(types) {
		if n == "String" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "自定义字符串", value(t, lookupType(t, r, "String"), "description"))
}

func TestUnhandledField(t *testing.T) {
	r := newTestResolver(t, testSDL)

	tests := []struct {
		name   string
		req    Request
		plural bool
	}{
		{"未知组合", Request{Field: "bogus", Type: META_TYPE}, false},
		{"未知类型", Request{Field: "fields", Type: "Widget"}, true},
		{"单数调用复数字段", Request{Field: "fields", Type: META_TYPE}, false},
		{"复数调用单数字段", Request{Field: "ofType", Type: META_TYPE}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.plural {
				_, err = r.ResolveObjects(tt.req)
			} else {
				_, err = r.ResolveObject(tt.req)
			}
			var unhandled *UnhandledFieldError
			require.ErrorAs(t, err, &unhandled)
			assert.Equal(t, tt.req.Field, unhandled.Field)
			assert.Equal(t, tt.req.Type, unhandled.Type)
			assert.True(t, IsInternal(err))
		})
	}
}

func TestSchemaInconsistency(t *testing.T) {
	// 未经校验的schema引用了不存在的类型
	r := newTestResolver(t, `
type Query { ghost: Ghost, items: [Item] }
type Item implements Missing { id: ID }
union Bag = Item | Phantom
`)

	t.Run("字段类型", func(t *testing.T) {
		_, err := r.ResolveObject(Request{Field: "type", Type: META_FIELD, Parent: fieldNamed(t, r, "Query", "ghost")})
		var inconsistent *SchemaInconsistencyError
		require.ErrorAs(t, err, &inconsistent)
		assert.Equal(t, "Ghost", inconsistent.Name)
		assert.True(t, IsInternal(err))
	})

	t.Run("接口", func(t *testing.T) {
		_, err := r.ResolveObjects(Request{Field: "interfaces", Type: META_TYPE, Parent: *lookupType(t, r, "Item")})
		var inconsistent *SchemaInconsistencyError
		require.ErrorAs(t, err, &inconsistent)
		assert.Equal(t, "Missing", inconsistent.Name)
	})

	t.Run("联合成员", func(t *testing.T) {
		_, err := r.ResolveObjects(Request{Field: "possibleTypes", Type: META_TYPE, Parent: *lookupType(t, r, "Bag")})
		var inconsistent *SchemaInconsistencyError
		require.ErrorAs(t, err, &inconsistent)
		assert.Equal(t, "Phantom", inconsistent.Name)
	})

	t.Run("字段重定位", func(t *testing.T) {
		_, err := r.ResolveObjects(Request{Field: "args", Type: META_FIELD, Parent: Node{Scope: Scope{Type: "Query", Field: "nope"}}})
		var inconsistent *SchemaInconsistencyError
		require.ErrorAs(t, err, &inconsistent)
		assert.Equal(t, "Query.nope", inconsistent.Name)
	})
}

func TestIdempotence(t *testing.T) {
	r := newTestResolver(t, testSDL)

	render := func() []byte {
		types, err := r.ResolveObjects(Request{Field: "types", Type: META_SCHEMA, Parent: *schemaNode()})
		require.NoError(t, err)
		list := make(ListValue, 0, len(types))
		for _, n := range types {
			list = append(list, n.Value)
		}
		data, err := json.Marshal(list)
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, render(), render())
}

func TestFieldEnumeration(t *testing.T) {
	f, ok := LookupField(META_TYPE, "ofType")
	require.True(t, ok)
	assert.Equal(t, TypeOfType, f)
	assert.False(t, f.Plural())
	assert.Equal(t, "__Type.ofType", f.String())

	// 每个需要解析器参与的元字段都在枚举中
	for _, def := range Meta().Definitions {
		if def.Kind != ast.Object {
			continue
		}
		for _, fd := range def.Fields {
			if IsLeaf(fd.Type.Name()) {
				continue
			}
			f, ok := LookupField(def.Name, fd.Name)
			assert.True(t, ok, "%s.%s", def.Name, fd.Name)
			assert.Equal(t, fd.Type.Elem != nil, f.Plural(), "%s.%s", def.Name, fd.Name)
		}
	}
}

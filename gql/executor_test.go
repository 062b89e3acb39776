package gql

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichaly/introspect/std"
	"github.com/ichaly/introspect/utl"
)

const widgetSDL = `
type Query {
  widget(id: ID!, size: Int = 3): Widget
}

"小部件"
type Widget implements Node {
  id: ID!
  tags: [String!]!
  owner: Owner
}

interface Node { id: ID! }

union Owner = Widget

enum Color { RED GREEN }
`

func newTestRegistry(t *testing.T, sdl string) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.graphql")
	require.NoError(t, os.WriteFile(path, []byte(sdl), 0o644))
	r, err := LoadRegistry(path)
	require.NoError(t, err)
	return r
}

// run 执行查询并转换为普通map，便于按路径断言
func run(t *testing.T, e *Executor, req Request) (map[string]interface{}, std.Result) {
	t.Helper()
	r := e.Execute(context.Background(), req)
	data, err := utl.Marshal(r)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, utl.Unmarshal(data, &m), string(data))
	return m, r
}

func status(r std.Result) int {
	code := http.StatusOK
	for _, e := range r.Errors {
		code = max(code, e.StatusCode())
	}
	return code
}

func TestExecuteQueryType(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, `type Query { id: ID! }`), nil)

	m, r := run(t, e, Request{Query: `{
		__schema {
			queryType { name }
			types { name }
			directives { name }
		}
		__type(name: "Query") {
			kind
			name
			fields { name type { kind name ofType { kind name } } }
		}
	}`})
	require.Empty(t, r.Errors)

	assert.Equal(t, "Query", utl.QueryMap(m, "data.__schema.queryType.name"))
	assert.Equal(t, "Query", utl.QueryMap(m, "data.__schema.types.0.name"))
	assert.Equal(t, "OBJECT", utl.QueryMap(m, "data.__type.kind"))
	assert.Equal(t, "id", utl.QueryMap(m, "data.__type.fields.0.name"))
	assert.Equal(t, "NON_NULL", utl.QueryMap(m, "data.__type.fields.0.type.kind"))
	assert.Nil(t, utl.QueryMap(m, "data.__type.fields.0.type.name"))
	assert.Equal(t, "SCALAR", utl.QueryMap(m, "data.__type.fields.0.type.ofType.kind"))
	assert.Equal(t, "ID", utl.QueryMap(m, "data.__type.fields.0.type.ofType.name"))
	assert.Len(t, utl.QueryMap(m, "data.__schema.directives"), 3)
}

func TestExecuteWidget(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	m, r := run(t, e, Request{Query: `{
		__type(name: "Widget") {
			kind name description
			fields {
				name
				type { kind ofType { kind ofType { kind ofType { name } } } }
			}
			interfaces { name possibleTypes { name } }
		}
		node: __type(name: "Node") { possibleTypes { name interfaces { name } } }
		owner: __type(name: "Owner") { possibleTypes { name } }
		missing: __type(name: "DoesNotExist") { name }
	}`})
	require.Empty(t, r.Errors)

	assert.Equal(t, "小部件", utl.QueryMap(m, "data.__type.description"))
	assert.Equal(t, "tags", utl.QueryMap(m, "data.__type.fields.1.name"))
	assert.Equal(t, "NON_NULL", utl.QueryMap(m, "data.__type.fields.1.type.kind"))
	assert.Equal(t, "LIST", utl.QueryMap(m, "data.__type.fields.1.type.ofType.kind"))
	assert.Equal(t, "NON_NULL", utl.QueryMap(m, "data.__type.fields.1.type.ofType.ofType.kind"))
	assert.Equal(t, "String", utl.QueryMap(m, "data.__type.fields.1.type.ofType.ofType.ofType.name"))

	assert.Equal(t, "Node", utl.QueryMap(m, "data.__type.interfaces.0.name"))
	assert.Equal(t, "Widget", utl.QueryMap(m, "data.__type.interfaces.0.possibleTypes.0.name"))
	assert.Equal(t, "Widget", utl.QueryMap(m, "data.node.possibleTypes.0.name"))
	assert.Nil(t, utl.QueryMap(m, "data.node.possibleTypes.0.interfaces"))
	assert.Equal(t, "Widget", utl.QueryMap(m, "data.owner.possibleTypes.0.name"))
	assert.Contains(t, m["data"], "missing")
	assert.Nil(t, utl.QueryMap(m, "data.missing"))
}

func TestExecuteResponseOrder(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	r := e.Execute(context.Background(), Request{Query: `{ b: __type(name: "Color") { name kind enumValues { name } } a: __typename }`})
	require.Empty(t, r.Errors)
	data, err := utl.Marshal(r.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":{"name":"Color","kind":"ENUM","enumValues":[{"name":"RED"},{"name":"GREEN"}]},"a":"Query"}`, string(data))
	assert.Regexp(t, `^\{"b":\{"name":"Color","kind":"ENUM"`, string(data))
}

func TestExecuteFragmentsAndVariables(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	m, r := run(t, e, Request{
		Query: `
		query Lookup($name: String!, $withFields: Boolean = false, $skipKind: Boolean!) {
			__type(name: $name) {
				...Basic
				kind @skip(if: $skipKind)
				fields @include(if: $withFields) { name }
				... on __Type { __typename }
			}
		}
		fragment Basic on __Type { name description }
		query Other { __typename }`,
		OperationName: "Lookup",
		Variables:     map[string]interface{}{"name": "Widget", "skipKind": true},
	})
	require.Empty(t, r.Errors)

	typ := utl.QueryMap(m, "data.__type").(map[string]interface{})
	assert.Equal(t, "Widget", typ["name"])
	assert.Equal(t, "__Type", typ["__typename"])
	assert.NotContains(t, typ, "kind")
	assert.NotContains(t, typ, "fields")
}

func TestExecuteDefaultValues(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	m, r := run(t, e, Request{Query: `{ __schema { queryType { fields { name args { name defaultValue } } } } }`})
	require.Empty(t, r.Errors)
	assert.Equal(t, "id", utl.QueryMap(m, "data.__schema.queryType.fields.0.args.0.name"))
	assert.Nil(t, utl.QueryMap(m, "data.__schema.queryType.fields.0.args.0.defaultValue"))
	assert.Equal(t, "3", utl.QueryMap(m, "data.__schema.queryType.fields.0.args.1.defaultValue"))
}

func TestExecuteIntrospectionQuery(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	m, r := run(t, e, Request{Query: IntrospectionQuery, OperationName: "IntrospectionQuery"})
	require.Empty(t, r.Errors)

	types := utl.QueryMap(m, "data.__schema.types").([]interface{})
	names := make([]string, 0, len(types))
	for _, typ := range types {
		names = append(names, typ.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Query", "Widget", "Node", "Owner", "Color"}, names[:5])
	assert.Contains(t, names, "__Schema")
	assert.Contains(t, names, "Boolean")
	assert.Nil(t, utl.QueryMap(m, "data.__schema.mutationType"))

	// 相同输入得到完全相同的输出
	first, err := utl.Marshal(r)
	require.NoError(t, err)
	second, err := utl.Marshal(e.Execute(context.Background(), Request{Query: IntrospectionQuery}))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestExecuteErrors(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	tests := []struct {
		name    string
		req     Request
		status  int
		message string
	}{
		{"语法错误", Request{Query: `{ __schema { types { name }`}, http.StatusBadRequest, ""},
		{"非自省字段", Request{Query: `{ widget(id: 1) { id } }`}, http.StatusBadRequest, "类型Query上不存在字段widget"},
		{"未知元字段", Request{Query: `{ __schema { bogus } }`}, http.StatusBadRequest, "类型__Schema上不存在字段bogus"},
		{"缺少子字段", Request{Query: `{ __schema }`}, http.StatusBadRequest, "字段__schema必须选择子字段"},
		{"标量子字段", Request{Query: `{ __type(name: "Widget") { name { x } } }`}, http.StatusBadRequest, "标量字段name不能包含子字段"},
		{"缺少参数", Request{Query: `{ __type { name } }`}, http.StatusBadRequest, ""},
		{"变异操作", Request{Query: `mutation { __typename }`}, http.StatusBadRequest, "不支持的操作类型: mutation"},
		{"多个操作", Request{Query: `query A { __typename } query B { __typename }`}, http.StatusBadRequest, "文档包含多个操作时必须指定operationName"},
		{"未知操作", Request{Query: `query A { __typename }`, OperationName: "B"}, http.StatusBadRequest, "未找到操作: B"},
		{"缺少变量", Request{Query: `query($n: String!) { __type(name: $n) { name } }`}, http.StatusBadRequest, "缺少必填变量: $n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Execute(context.Background(), tt.req)
			require.NotEmpty(t, r.Errors)
			assert.Equal(t, tt.status, status(r))
			if tt.message != "" {
				assert.Equal(t, tt.message, r.Errors[0].Message)
			}
		})
	}
}

func TestExecuteErrorLocation(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	r := e.Execute(context.Background(), Request{Query: "{\n  __schema { bogus }\n}"})
	require.Len(t, r.Errors, 1)
	assert.Equal(t, []std.Location{{Line: 2, Column: 14}}, r.Errors[0].Locations)
	assert.Equal(t, []interface{}{"__schema", "bogus"}, r.Errors[0].Path)
	assert.NotNil(t, r.Data, "其余字段照常返回")
}

func TestExecuteInternalError(t *testing.T) {
	// 未经校验的schema引用了不存在的类型，只影响该字段
	e := NewExecutor(newTestRegistry(t, `type Query { ghost: Ghost, id: ID }`), nil)

	m, r := run(t, e, Request{Query: `{
		__type(name: "Query") {
			name
			fields { name type { name } }
		}
	}`})
	require.Len(t, r.Errors, 1)
	assert.Equal(t, http.StatusInternalServerError, status(r))
	assert.Equal(t, CODE_INTERNAL, r.Errors[0].Extensions["code"])
	assert.NotContains(t, r.Errors[0].Message, "Ghost", "内部细节不暴露给客户端")
	assert.Equal(t, []interface{}{"__type", "fields", 0, "type"}, r.Errors[0].Path)

	assert.Nil(t, utl.QueryMap(m, "data.__type.fields.0.type"))
	assert.Equal(t, "ID", utl.QueryMap(m, "data.__type.fields.1.type.name"))
}

func TestExecuteCanceled(t *testing.T) {
	e := NewExecutor(newTestRegistry(t, widgetSDL), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := e.Execute(ctx, Request{Query: `{ __typename }`})
	require.Len(t, r.Errors, 1)
	assert.Equal(t, http.StatusRequestTimeout, r.Errors[0].StatusCode())
}

package gql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/ichaly/introspect/gql/internal/intro"
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std"
)

// Request GraphQL请求
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Executor 只处理自省查询的GraphQL执行器
type Executor struct {
	registry *Registry
	cache    *Cache
}

// NewExecutor 创建一个新的执行器，cache为nil时不缓存
func NewExecutor(r *Registry, c *Cache) *Executor {
	return &Executor{registry: r, cache: c}
}

// Execute 执行GraphQL查询，整个请求使用同一个schema版本
func (my *Executor) Execute(ctx context.Context, req Request) std.Result {
	v := my.registry.Current()
	if v == nil {
		return failure(std.NewException(fiber.StatusServiceUnavailable).WithMessage("schema尚未加载"))
	}
	return my.cache.Do(ctx, v.ID, req, func(ctx context.Context) std.Result {
		return execute(ctx, v.resolver, req)
	})
}

func failure(ex *std.Exception) std.Result {
	return std.Result{Errors: []*std.Exception{ex}}
}

func badRequest(message string) *std.Exception {
	return std.NewException(fiber.StatusBadRequest).WithMessage(message).With("code", CODE_BAD_REQUEST)
}

// execution 单次执行的上下文
type execution struct {
	ctx      context.Context
	resolver *intro.Resolver
	doc      *ast.QueryDocument
	vars     map[string]interface{}
	errors   []*std.Exception
	canceled bool
}

func execute(ctx context.Context, resolver *intro.Resolver, req Request) std.Result {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: req.Query})
	if err != nil {
		return std.Result{Errors: queryErrors(err)}
	}

	op, ex := operation(doc, req.OperationName)
	if ex != nil {
		return failure(ex)
	}
	vars, ex := coerceVariables(op, req.Variables)
	if ex != nil {
		return failure(ex)
	}

	e := &execution{ctx: ctx, resolver: resolver, doc: doc, vars: vars}
	data := e.object(intro.TYPE_QUERY, intro.Node{}, op.SelectionSet, nil)
	return std.Result{Data: data, Errors: e.errors}
}

// queryErrors 查询文档的语法错误，带位置信息
func queryErrors(err error) []*std.Exception {
	var list gqlerror.List
	var single *gqlerror.Error
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = gqlerror.List{single}
	default:
		return []*std.Exception{badRequest(err.Error())}
	}
	return lo.Map(list, func(e *gqlerror.Error, _ int) *std.Exception {
		ex := badRequest(e.Message)
		for _, l := range e.Locations {
			ex.WithLocation(l.Line, l.Column)
		}
		return ex
	})
}

// operation 按名称选择操作，未指定名称时文档中只能有一个操作
func operation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, *std.Exception) {
	if len(doc.Operations) == 0 {
		return nil, badRequest("查询文档中没有可执行的操作")
	}
	op := doc.Operations.ForName(name)
	if op == nil {
		if name == "" {
			return nil, badRequest("文档包含多个操作时必须指定operationName")
		}
		return nil, badRequest(fmt.Sprintf("未找到操作: %s", name))
	}
	if op.Operation != ast.Query {
		return nil, badRequest(fmt.Sprintf("不支持的操作类型: %s", op.Operation))
	}
	return op, nil
}

// coerceVariables 补齐变量默认值并检查必填变量
func coerceVariables(op *ast.OperationDefinition, input map[string]interface{}) (map[string]interface{}, *std.Exception) {
	vars := make(map[string]interface{}, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		if val, ok := input[def.Variable]; ok {
			vars[def.Variable] = val
			continue
		}
		if def.DefaultValue != nil {
			val, err := def.DefaultValue.Value(nil)
			if err != nil {
				return nil, badRequest(fmt.Sprintf("变量$%s的默认值无效: %v", def.Variable, err))
			}
			vars[def.Variable] = val
			continue
		}
		if def.Type.NonNull {
			return nil, badRequest(fmt.Sprintf("缺少必填变量: $%s", def.Variable))
		}
	}
	return vars, nil
}

// object 按选择集渲染一个自省对象，响应键保持选择顺序
func (my *execution) object(typeName string, node intro.Node, set ast.SelectionSet, path []interface{}) intro.Value {
	result := intro.NewObject()
	for _, group := range my.collect(typeName, set, nil) {
		if my.interrupted(path) {
			break
		}
		key := group[0].Alias
		result.Set(key, my.field(typeName, node, group, append(path, key)))
	}
	return result
}

// interrupted 请求被取消后停止渲染剩余字段
func (my *execution) interrupted(path []interface{}) bool {
	if my.canceled {
		return true
	}
	if err := my.ctx.Err(); err != nil {
		my.canceled = true
		my.errors = append(my.errors, std.NewException(fiber.StatusRequestTimeout).
			WithMessage(err.Error()).WithPath(append([]interface{}{}, path...)...))
		return true
	}
	return false
}

// field 渲染同一响应键下合并后的字段
func (my *execution) field(parentType string, parent intro.Node, group []*ast.Field, path []interface{}) intro.Value {
	f := group[0]
	if f.Name == TYPENAME {
		return intro.StringValue(parentType)
	}

	def, ok := intro.MetaField(parentType, f.Name)
	if !ok {
		my.fail(badRequest(fmt.Sprintf("类型%s上不存在字段%s", parentType, f.Name)), f, path)
		return intro.Null
	}

	named := def.Type.Name()
	if intro.IsLeaf(named) {
		if len(f.SelectionSet) > 0 {
			my.fail(badRequest(fmt.Sprintf("标量字段%s不能包含子字段", f.Name)), f, path)
			return intro.Null
		}
		if parent.Value == nil {
			return intro.Null
		}
		val, ok := parent.Value.Get(f.Name)
		return lo.Ternary(ok, val, intro.Null)
	}

	set := lo.FlatMap(group, func(item *ast.Field, _ int) []ast.Selection { return item.SelectionSet })
	if len(set) == 0 {
		my.fail(badRequest(fmt.Sprintf("字段%s必须选择子字段", f.Name)), f, path)
		return intro.Null
	}

	args, err := my.arguments(f)
	if err != nil {
		my.fail(badRequest(err.Error()), f, path)
		return intro.Null
	}
	req := intro.Request{Field: f.Name, Type: parentType, Parent: parent, Args: args}

	if def.Type.Elem != nil {
		nodes, err := my.resolver.ResolveObjects(req)
		if err != nil {
			my.fail(classify(err), f, path)
			return intro.Null
		}
		if nodes == nil {
			return intro.Null
		}
		list := make(intro.ListValue, 0, len(nodes))
		for i, n := range nodes {
			list = append(list, my.object(named, n, set, append(path, i)))
		}
		return list
	}

	node, err := my.resolver.ResolveObject(req)
	if err != nil {
		my.fail(classify(err), f, path)
		return intro.Null
	}
	if node == nil {
		return intro.Null
	}
	return my.object(named, *node, set, path)
}

// classify 内部错误不向客户端暴露细节
func classify(err error) *std.Exception {
	if intro.IsInternal(err) {
		return std.NewException(fiber.StatusInternalServerError).
			WithMessage("自省解析内部错误").
			With("code", CODE_INTERNAL)
	}
	return badRequest(err.Error())
}

func (my *execution) fail(ex *std.Exception, f *ast.Field, path []interface{}) {
	if f.Position != nil {
		ex.WithLocation(f.Position.Line, f.Position.Column)
	}
	ex.WithPath(append([]interface{}{}, path...)...)
	if ex.StatusCode() >= fiber.StatusInternalServerError {
		log.Error().Str("field", f.Name).Interface("path", ex.Path).Msg(ex.Message)
	}
	my.errors = append(my.errors, ex)
}

// arguments 将字段参数转换为通用值，变量按请求中的值替换
func (my *execution) arguments(f *ast.Field) (map[string]intro.Value, error) {
	if len(f.Arguments) == 0 {
		return nil, nil
	}
	args := make(map[string]intro.Value, len(f.Arguments))
	for _, arg := range f.Arguments {
		val, err := arg.Value.Value(my.vars)
		if err != nil {
			return nil, fmt.Errorf("参数%s无效: %w", arg.Name, err)
		}
		args[arg.Name] = intro.FromInterface(val)
	}
	return args, nil
}

// collect 展开片段并按响应键合并字段，保持首次出现的顺序
func (my *execution) collect(typeName string, set ast.SelectionSet, visited map[string]bool) [][]*ast.Field {
	var keys []string
	groups := map[string][]*ast.Field{}

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !my.included(s.Directives) {
					continue
				}
				if _, ok := groups[s.Alias]; !ok {
					keys = append(keys, s.Alias)
				}
				groups[s.Alias] = append(groups[s.Alias], s)
			case *ast.InlineFragment:
				if !my.included(s.Directives) || !applies(s.TypeCondition, typeName) {
					continue
				}
				walk(s.SelectionSet)
			case *ast.FragmentSpread:
				if !my.included(s.Directives) || visited[s.Name] {
					continue
				}
				frag := my.doc.Fragments.ForName(s.Name)
				if frag == nil || !applies(frag.TypeCondition, typeName) {
					continue
				}
				if visited == nil {
					visited = map[string]bool{}
				}
				visited[s.Name] = true
				walk(frag.SelectionSet)
				delete(visited, s.Name)
			}
		}
	}
	walk(set)

	return lo.Map(keys, func(k string, _ int) []*ast.Field { return groups[k] })
}

// applies 自省类型既不实现接口也不属于联合，类型条件只需按名称比较
func applies(condition, typeName string) bool {
	return condition == "" || condition == typeName
}

// included 处理@skip与@include
func (my *execution) included(directives ast.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil && my.condition(d) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !my.condition(d) {
		return false
	}
	return true
}

func (my *execution) condition(d *ast.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	val, err := arg.Value.Value(my.vars)
	if err != nil {
		return false
	}
	b, _ := val.(bool)
	return b
}

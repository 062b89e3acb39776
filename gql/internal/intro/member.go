package intro

import (
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
)

// describeField 渲染字段，type与args留给后续解析，上下文记录声明它的类型与字段名
func describeField(owner string, f *ast.FieldDefinition) Node {
	return Node{
		Value: NewObject(
			"name", StringValue(f.Name),
			"description", stringOrNull(f.Description),
			"args", Null,
			"type", Null,
			"isDeprecated", BooleanValue(false),
			"deprecationReason", Null,
		),
		Scope: Scope{Type: owner, Field: f.Name, Ref: f.Type},
	}
}

// describeInputValue 渲染参数或输入字段，默认值使用GraphQL字面量语法
func describeInputValue(scope Scope, name, description string, defaultValue *ast.Value) Node {
	def := Null
	if defaultValue != nil {
		def = StringValue(literal(defaultValue))
	}
	return Node{
		Value: NewObject(
			"name", StringValue(name),
			"description", stringOrNull(description),
			"type", Null,
			"defaultValue", def,
		),
		Scope: scope,
	}
}

// describeArguments 渲染参数列表
func describeArguments(scope Scope, args ast.ArgumentDefinitionList) []Node {
	return lo.Map(args, func(arg *ast.ArgumentDefinition, _ int) Node {
		s := scope
		s.Ref = arg.Type
		return describeInputValue(s, arg.Name, arg.Description, arg.DefaultValue)
	})
}

// describeEnumValue 当前模型不携带弃用信息，isDeprecated恒为false
func describeEnumValue(owner string, v *ast.EnumValueDefinition) Node {
	return Node{
		Value: NewObject(
			"name", StringValue(v.Name),
			"description", stringOrNull(v.Description),
			"isDeprecated", BooleanValue(false),
			"deprecationReason", Null,
		),
		Scope: Scope{Type: owner},
	}
}

// describeDirective 渲染指令，locations输出为__DirectiveLocation枚举
func describeDirective(d *ast.DirectiveDefinition) Node {
	locations := lo.Map(d.Locations, func(l ast.DirectiveLocation, _ int) Value {
		return EnumValue(l)
	})
	return Node{
		Value: NewObject(
			"name", StringValue(d.Name),
			"description", stringOrNull(d.Description),
			"locations", ListValue(locations),
			"args", Null,
		),
		Scope: Scope{Directive: d.Name},
	}
}

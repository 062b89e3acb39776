package intro

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
)

// literal 将默认值输出为GraphQL字面量，字符串只使用GraphQL允许的转义
func literal(v *ast.Value) string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case ast.Variable:
		return "$" + v.Raw
	case ast.StringValue, ast.BlockValue:
		return quote(v.Raw)
	case ast.ListValue:
		return "[" + strings.Join(lo.Map(v.Children, func(c *ast.ChildValue, _ int) string {
			return literal(c.Value)
		}), ",") + "]"
	case ast.ObjectValue:
		return "{" + strings.Join(lo.Map(v.Children, func(c *ast.ChildValue, _ int) string {
			return c.Name + ":" + literal(c.Value)
		}), ",") + "}"
	default:
		// 数字、布尔、null与枚举的原文即为合法字面量
		return v.Raw
	}
}

// quote 非ASCII字符原样保留，其余控制字符输出为\uXXXX
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				_, _ = fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

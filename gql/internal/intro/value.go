package intro

import (
	"bytes"
	"maps"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind 值类型标签
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindEnum
	KindList
	KindObject
)

// Value 通用值树节点，自省结果全部以此类型表达
type Value interface {
	Kind() Kind
	// Interface 转换为普通Go值，便于测试与调试
	Interface() interface{}
}

type (
	// NullValue 空值
	NullValue struct{}
	// BooleanValue 布尔值
	BooleanValue bool
	// IntValue 整数
	IntValue int64
	// FloatValue 浮点数
	FloatValue float64
	// StringValue 字符串
	StringValue string
	// EnumValue 枚举标签
	EnumValue string
	// ListValue 列表
	ListValue []Value
)

// Null 空值单例
var Null Value = NullValue{}

func (NullValue) Kind() Kind                   { return KindNull }
func (NullValue) Interface() interface{}       { return nil }
func (NullValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (my BooleanValue) Kind() Kind             { return KindBoolean }
func (my BooleanValue) Interface() interface{} { return bool(my) }

func (my IntValue) Kind() Kind             { return KindInt }
func (my IntValue) Interface() interface{} { return int64(my) }

func (my FloatValue) Kind() Kind             { return KindFloat }
func (my FloatValue) Interface() interface{} { return float64(my) }

func (my StringValue) Kind() Kind             { return KindString }
func (my StringValue) Interface() interface{} { return string(my) }

func (my EnumValue) Kind() Kind             { return KindEnum }
func (my EnumValue) Interface() interface{} { return string(my) }

func (my ListValue) Kind() Kind { return KindList }
func (my ListValue) Interface() interface{} {
	res := make([]interface{}, 0, len(my))
	for _, v := range my {
		res = append(res, toInterface(v))
	}
	return res
}

// MarshalJSON 列表中的nil元素按null输出
func (my ListValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range my {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// entry 对象中的一个键值对
type entry struct {
	name  string
	value Value
}

// ObjectValue 保持插入顺序的对象
type ObjectValue struct {
	entries []entry
	index   map[string]int
}

// NewObject 按给定顺序构建对象，参数依次为键、值
func NewObject(pairs ...interface{}) *ObjectValue {
	obj := &ObjectValue{index: make(map[string]int, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return obj
}

func (my *ObjectValue) Kind() Kind { return KindObject }

// Set 写入字段，已存在的键保持原有位置
func (my *ObjectValue) Set(name string, value Value) {
	if value == nil {
		value = Null
	}
	if my.index == nil {
		my.index = make(map[string]int)
	}
	if i, ok := my.index[name]; ok {
		my.entries[i].value = value
		return
	}
	my.index[name] = len(my.entries)
	my.entries = append(my.entries, entry{name: name, value: value})
}

// Get 读取字段
func (my *ObjectValue) Get(name string) (Value, bool) {
	if my == nil {
		return nil, false
	}
	i, ok := my.index[name]
	if !ok {
		return nil, false
	}
	return my.entries[i].value, true
}

// Keys 按插入顺序返回所有键
func (my *ObjectValue) Keys() []string {
	keys := make([]string, 0, len(my.entries))
	for _, e := range my.entries {
		keys = append(keys, e.name)
	}
	return keys
}

func (my *ObjectValue) Interface() interface{} {
	res := make(map[string]interface{}, len(my.entries))
	for _, e := range my.entries {
		res[e.name] = toInterface(e.value)
	}
	return res
}

// MarshalJSON 按插入顺序输出键
func (my *ObjectValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range my.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(&buf, e.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toInterface(v Value) interface{} {
	if v == nil {
		return nil
	}
	return v.Interface()
}

func writeValue(buf *bytes.Buffer, v Value) error {
	if v == nil {
		v = Null
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// FromInterface 将普通Go值转换为值树，用于参数与变量
func FromInterface(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null
	case Value:
		return val
	case bool:
		return BooleanValue(val)
	case int:
		return IntValue(val)
	case int32:
		return IntValue(val)
	case int64:
		return IntValue(val)
	case float32:
		return FloatValue(val)
	case float64:
		return FloatValue(val)
	case string:
		return StringValue(val)
	case []interface{}:
		list := make(ListValue, 0, len(val))
		for _, item := range val {
			list = append(list, FromInterface(item))
		}
		return list
	case map[string]interface{}:
		obj := NewObject()
		for _, k := range slices.Sorted(maps.Keys(val)) {
			obj.Set(k, FromInterface(val[k]))
		}
		return obj
	default:
		return Null
	}
}

// stringOrNull 空字符串视为缺省
func stringOrNull(s string) Value {
	if s == "" {
		return Null
	}
	return StringValue(s)
}

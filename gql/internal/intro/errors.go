package intro

import (
	"errors"
	"fmt"
)

// SchemaInconsistencyError schema内部引用了未定义的类型，说明上游校验被跳过或有缺陷
type SchemaInconsistencyError struct {
	Name string
}

func (my *SchemaInconsistencyError) Error() string {
	return fmt.Sprintf("schema引用了未定义的类型: %s", my.Name)
}

func (my *SchemaInconsistencyError) Internal() bool { return true }

// UnhandledFieldError 解析器无法识别的(字段, 类型)组合
type UnhandledFieldError struct {
	Field string
	Type  string
}

func (my *UnhandledFieldError) Error() string {
	return fmt.Sprintf("无法处理的自省字段: %s.%s", my.Type, my.Field)
}

func (my *UnhandledFieldError) Internal() bool { return true }

// ArgumentError 客户端提供的参数缺失或类型不符
type ArgumentError struct {
	Field    string
	Argument string
	Message  string
}

func (my *ArgumentError) Error() string {
	return fmt.Sprintf("字段%s的参数%s无效: %s", my.Field, my.Argument, my.Message)
}

func (my *ArgumentError) Internal() bool { return false }

// PanicError 解析过程中被恢复的panic
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (my *PanicError) Error() string {
	return fmt.Sprintf("自省解析发生panic: %v", my.Value)
}

func (my *PanicError) Internal() bool { return true }

// IsInternal 判断错误是否属于服务端内部错误，未分类的错误一律视为内部错误
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	var c interface{ Internal() bool }
	if errors.As(err, &c) {
		return c.Internal()
	}
	return true
}

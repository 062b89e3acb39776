package utl

import "strings"

// QueryMap 按点分路径读取嵌套map中的值，数字段按下标读取数组元素
func QueryMap(data map[string]interface{}, path string) interface{} {
	arr := strings.SplitN(path, ".", 2)
	val, ok := data[arr[0]]
	if !ok || len(arr) == 1 {
		return val
	}
	return query(val, arr[1])
}

func query(val interface{}, path string) interface{} {
	switch v := val.(type) {
	case map[string]interface{}:
		return QueryMap(v, path)
	case []interface{}:
		arr := strings.SplitN(path, ".", 2)
		i, ok := index(arr[0])
		if !ok || i >= len(v) {
			return nil
		}
		if len(arr) == 1 {
			return v[i]
		}
		return query(v[i], arr[1])
	default:
		return nil
	}
}

func index(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

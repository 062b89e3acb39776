package utl

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"runtime"
)

// MD5 计算输入字符串的 MD5 哈希值并返回其十六进制表示
func MD5(s string) string {
	m := md5.Sum([]byte(s))
	return hex.EncodeToString(m[:])
}

// Fingerprint 对多个片段计算MD5，片段之间带分隔符，避免拼接产生歧义
func Fingerprint(parts ...string) string {
	m := md5.New()
	for _, p := range parts {
		m.Write([]byte(p))
		m.Write([]byte{0})
	}
	return hex.EncodeToString(m.Sum(nil))
}

// Root 返回项目的根目录路径
func Root() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(filepath.Dir(filename))
}

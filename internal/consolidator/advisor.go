package consolidator

import (
	"path/filepath"
	"strings"
)

// AdvisorCodeLength 顾问代码长度（取文件名前 N 个字符）
const AdvisorCodeLength = 6

// AdvisorCode 从文件名提取顾问代码
//
// Only the base name counts; browsers on some platforms send the full client
// path. The code is not checked against any list of known advisors.
func AdvisorCode(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	runes := []rune(base)
	if len(runes) < AdvisorCodeLength {
		return "", &FilenameError{Filename: filename}
	}
	return string(runes[:AdvisorCodeLength]), nil
}

package dataset

import "strings"

// ParseListLiteral 解析食谱表中列表形式的字符串，例如 "['olive oil', 'onion']" 或 `["a", "b"]`。
// 支持单/双引号、引号内的逗号和反斜杠转义；没有方括号时按逗号切分。
// 元素会去掉首尾空白，空元素被丢弃。
func ParseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	out := make([]string, 0)
	var (
		cur     strings.Builder
		quote   rune
		escaped bool
	)
	flush := func() {
		if v := strings.TrimSpace(cur.String()); v != "" {
			out = append(out, v)
		}
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != 0:
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// Package normalize 将自由文本食材名归一化为词表中的形式：小写、压缩空白、复数转单数。
// 无法识别的词原样返回，从不报错。
package normalize

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// 以 -s 结尾的单数食材名，inflection 的后缀规则会误删末尾的 s。
var uncountables = []string{
	"asparagus", "hummus", "couscous", "molasses", "citrus", "octopus",
	"bass", "watercress", "grits", "oats", "schnapps",
}

var irregulars = [][2]string{
	{"leaf", "leaves"},
	{"loaf", "loaves"},
}

func init() {
	for _, w := range uncountables {
		inflection.AddUncountable(w)
	}
	for _, pair := range irregulars {
		inflection.AddIrregular(pair[0], pair[1])
	}
}

// Singular 返回食材名的单数形式。
// 多词短语只变换最后一个词（"green onions" → "green onion"）。
func Singular(token string) string {
	name := Clean(token)
	if name == "" {
		return ""
	}
	words := strings.Split(name, " ")
	last := len(words) - 1
	words[last] = inflection.Singular(words[last])
	return strings.Join(words, " ")
}

// Clean 只做小写与空白规整，不做单复数变换；用于参考数据中已归一化的食材名。
func Clean(token string) string {
	return strings.Join(strings.Fields(strings.ToLower(token)), " ")
}

// Terms 查询词条是否在词表中，core.Vocabulary 实现了它。
type Terms interface {
	Index(term string) (int, bool)
}

// Against 返回以词表为准的归一化函数：
// 输入原样在词表中时保留，否则取 Singular。
func Against(vocab Terms) func(string) string {
	if vocab == nil {
		return Singular
	}
	return func(token string) string {
		name := Clean(token)
		if name == "" {
			return ""
		}
		if _, ok := vocab.Index(name); ok {
			return name
		}
		return Singular(name)
	}
}

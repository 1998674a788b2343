package model

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// tokenPattern 对应词袋模型常用的默认切词规则：连续两个及以上的字母/数字/下划线。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TFIDFVectorizer 是预先拟合好的 TF-IDF 向量化器。
//
// 变换过程：
//  1. 小写（Lowercase 为 true 时）并按 tokenPattern 切词，生成 [NGramMin, NGramMax] 范围内的 n-gram
//  2. 统计词频 tf；SublinearTF 时使用 1 + ln(tf)
//  3. 乘以 IDF[i]
//  4. Norm 为 "l2" 时做 L2 归一化
//
// 不在 Vocabulary 中的词被忽略。
type TFIDFVectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   bool           `json:"lowercase"`
	SublinearTF bool           `json:"sublinear_tf"`
	Norm        string         `json:"norm"`
	NGramRange  [2]int         `json:"ngram_range"`
}

// LoadTFIDFVectorizer 从 JSON 文件加载向量化器。
func LoadTFIDFVectorizer(path string) (*TFIDFVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := &TFIDFVectorizer{Lowercase: true, Norm: "l2"}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decode vectorizer: %w", err)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *TFIDFVectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("vectorizer vocabulary is empty")
	}
	for term, i := range v.Vocabulary {
		if i < 0 || i >= len(v.IDF) {
			return fmt.Errorf("vectorizer term %q has index %d outside idf of length %d", term, i, len(v.IDF))
		}
	}
	switch v.Norm {
	case "", "l2", "none":
	default:
		return fmt.Errorf("unsupported vectorizer norm %q", v.Norm)
	}
	return nil
}

func (v *TFIDFVectorizer) Name() string { return "tfidf" }

func (v *TFIDFVectorizer) Dim() int { return len(v.IDF) }

func (v *TFIDFVectorizer) Vectorize(text string) (FeatureVector, error) {
	if v.Lowercase {
		text = strings.ToLower(text)
	}
	tf := make(map[int]float64)
	for _, gram := range ngrams(tokenPattern.FindAllString(text, -1), v.NGramRange) {
		if i, ok := v.Vocabulary[gram]; ok {
			tf[i]++
		}
	}

	fv := make(FeatureVector, len(tf))
	var norm float64
	for _, i := range FeatureVector(tf).Indices() {
		c := tf[i]
		if v.SublinearTF {
			c = 1 + math.Log(c)
		}
		w := c * v.IDF[i]
		fv[i] = w
		norm += w * w
	}
	if v.Norm == "l2" && norm > 0 {
		norm = math.Sqrt(norm)
		for i := range fv {
			fv[i] /= norm
		}
	}
	return fv, nil
}

func ngrams(tokens []string, rng [2]int) []string {
	lo, hi := rng[0], rng[1]
	if lo <= 0 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if lo == 1 && hi == 1 {
		return tokens
	}
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

package core

// Vocabulary 是全局食材词表：有序、不可变，定义了向量维度。
// Pantry 的权重向量与食谱关联矩阵必须共用同一个 Vocabulary，列下标才一一对应。
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary 按给定顺序构建词表；重复词条违反双射约束，返回 DATA_INTEGRITY 错误。
func NewVocabulary(terms []string) (*Vocabulary, error) {
	v := &Vocabulary{
		terms: make([]string, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	for _, t := range terms {
		if _, dup := v.index[t]; dup {
			return nil, DataIntegrityError(ModuleVocabulary, "vocabulary term %q listed more than once", t)
		}
		v.index[t] = len(v.terms)
		v.terms = append(v.terms, t)
	}
	return v, nil
}

// Len 返回词表大小（向量维度）。
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Index 返回词条的列下标。
func (v *Vocabulary) Index(term string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[term]
	return i, ok
}

// Term 返回第 i 列对应的词条。
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Terms 返回词表副本。
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

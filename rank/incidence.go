package rank

import (
	"sort"

	"github.com/rushteam/pantryrec/core"
)

// IncidenceMatrix 是候选食谱 × 词表的稀疏 0/1 矩阵（按行压缩存储）。
// 第 r 行记录食谱 r 中出现在词表里的食材列下标；不在词表里的食材被静默丢弃。
type IncidenceMatrix struct {
	Cols   int   // 词表大小
	rowPtr []int // len = rows+1
	colIdx []int // 每行内升序、去重
}

// BuildIncidence 按候选顺序逐行构建关联矩阵。
func BuildIncidence(vocab *core.Vocabulary, recipes []core.Recipe) *IncidenceMatrix {
	m := &IncidenceMatrix{
		Cols:   vocab.Len(),
		rowPtr: make([]int, 1, len(recipes)+1),
	}
	for i := range recipes {
		start := len(m.colIdx)
		seen := make(map[int]struct{}, len(recipes[i].Ingredients))
		for _, ing := range recipes[i].Ingredients {
			j, ok := vocab.Index(ing)
			if !ok {
				continue
			}
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			m.colIdx = append(m.colIdx, j)
		}
		sort.Ints(m.colIdx[start:])
		m.rowPtr = append(m.rowPtr, len(m.colIdx))
	}
	return m
}

// Rows 返回行数。
func (m *IncidenceMatrix) Rows() int { return len(m.rowPtr) - 1 }

// Row 返回第 r 行中值为 1 的列下标。
func (m *IncidenceMatrix) Row(r int) []int { return m.colIdx[m.rowPtr[r]:m.rowPtr[r+1]] }

// At 返回 (r, j) 处的值（0 或 1）。
func (m *IncidenceMatrix) At(r, j int) int {
	row := m.Row(r)
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return 1
	}
	return 0
}

// Scores 计算每行与权重向量的稀疏点积：score[r] = sum_j incidence[r][j] * weights[j]。
func (m *IncidenceMatrix) Scores(weights []float64) []float64 {
	scores := make([]float64, m.Rows())
	for r := range scores {
		var s float64
		for _, j := range m.Row(r) {
			if j < len(weights) {
				s += weights[j]
			}
		}
		scores[r] = s
	}
	return scores
}

// Rank 对候选池打分并返回前 k 个结果（k <= 0 表示不截断）。
// 分数降序；分数相同时保持候选池原始顺序。空候选池返回空切片。
func Rank(vocab *core.Vocabulary, weights []float64, candidates []core.Recipe, k int) []core.RankedResult {
	scores := BuildIncidence(vocab, candidates).Scores(weights)
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > 0 && len(order) > k {
		order = order[:k]
	}
	out := make([]core.RankedResult, 0, len(order))
	for _, i := range order {
		out = append(out, core.RankedResult{Recipe: candidates[i], Score: scores[i]})
	}
	return out
}

// Package model 把外部训练好的文本向量化器和分类器包装成两个不透明能力：Vectorize 与 Predict。
// 换用其他模型族（本地线性模型、远程模型服务）只需实现这两个接口，pantry/cluster/rank 不受影响。
package model

import (
	"context"
	"sort"
)

// FeatureVector 是稀疏特征向量：特征下标 -> 值。
type FeatureVector map[int]float64

// Indices 返回升序排列的特征下标，用于稳定的序列化与遍历。
func (fv FeatureVector) Indices() []int {
	idx := make([]int, 0, len(fv))
	for i := range fv {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Vectorizer 把文本转为特征向量。
type Vectorizer interface {
	Name() string
	Vectorize(text string) (FeatureVector, error)
}

// Classifier 根据特征向量预测一个菜系标签。
type Classifier interface {
	Name() string
	Predict(ctx context.Context, fv FeatureVector) (string, error)
}

// Dimensioned 由知道自身特征维度的实现提供，用于在加载时校验向量化器与分类器是否匹配。
type Dimensioned interface {
	Dim() int
}

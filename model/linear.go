package model

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// LinearClassifier 实现了多分类线性模型（线性 SVM、逻辑回归导出的参数都适用）。
//
// 预测原理：
//  1. 每个类别的决策值: z_k = Intercept_k + sum(Coef_k[i] * x_i)
//  2. 取决策值最大的类别；并列时取下标较小的类别
//
// 二分类模型只导出一行系数：z > 0 预测 Classes[1]，否则 Classes[0]。
type LinearClassifier struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// LoadLinearClassifier 从 JSON 文件加载分类器参数。
func LoadLinearClassifier(path string) (*LinearClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m LinearClassifier
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *LinearClassifier) validate() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("classifier needs at least 2 classes, got %d", len(m.Classes))
	}
	if len(m.Coef) != len(m.Intercept) {
		return fmt.Errorf("classifier has %d coef rows but %d intercepts", len(m.Coef), len(m.Intercept))
	}
	if !m.binary() && len(m.Coef) != len(m.Classes) {
		return fmt.Errorf("classifier has %d coef rows for %d classes", len(m.Coef), len(m.Classes))
	}
	for k := range m.Coef {
		if len(m.Coef[k]) != len(m.Coef[0]) {
			return fmt.Errorf("classifier coef row %d has length %d, want %d", k, len(m.Coef[k]), len(m.Coef[0]))
		}
	}
	return nil
}

func (m *LinearClassifier) binary() bool { return len(m.Classes) == 2 && len(m.Coef) == 1 }

func (m *LinearClassifier) Name() string { return "linear" }

func (m *LinearClassifier) Dim() int {
	if len(m.Coef) == 0 {
		return 0
	}
	return len(m.Coef[0])
}

// decision 按升序下标累加，保证相同输入得到完全相同的浮点结果。
func (m *LinearClassifier) decision(k int, idx []int, fv FeatureVector) float64 {
	z := m.Intercept[k]
	row := m.Coef[k]
	for _, i := range idx {
		if i >= 0 && i < len(row) {
			z += row[i] * fv[i]
		}
	}
	return z
}

func (m *LinearClassifier) Predict(_ context.Context, fv FeatureVector) (string, error) {
	idx := fv.Indices()
	if m.binary() {
		if m.decision(0, idx, fv) > 0 {
			return m.Classes[1], nil
		}
		return m.Classes[0], nil
	}
	best, bestZ := 0, m.decision(0, idx, fv)
	for k := 1; k < len(m.Coef); k++ {
		if z := m.decision(k, idx, fv); z > bestZ {
			best, bestZ = k, z
		}
	}
	return m.Classes[best], nil
}

package model

import (
	"context"
	"fmt"

	"github.com/rushteam/pantryrec/core"
)

// CuisineClassifier 组合 Vectorize 与 Predict：classify(tokens) = predict(vectorize(tokens))。
// 构建后只读，可被并发请求共享（前提是底层实现本身只读）。
type CuisineClassifier struct {
	Vectorizer Vectorizer
	Classifier Classifier
}

// NewCuisineClassifier 校验两者都存在，且已知维度时维度一致。
func NewCuisineClassifier(v Vectorizer, c Classifier) (*CuisineClassifier, error) {
	if v == nil || c == nil {
		return nil, core.ConfigurationError(core.ModuleClassifier, nil, "vectorizer and classifier are both required")
	}
	vd, vok := v.(Dimensioned)
	cd, cok := c.(Dimensioned)
	if vok && cok && vd.Dim() != cd.Dim() {
		return nil, core.ConfigurationError(core.ModuleClassifier, nil,
			"vectorizer %s produces %d features but classifier %s expects %d", v.Name(), vd.Dim(), c.Name(), cd.Dim())
	}
	return &CuisineClassifier{Vectorizer: v, Classifier: c}, nil
}

// LoadCuisineClassifier 加载本地 TF-IDF 向量化器与线性分类器。
// 任何一个文件加载失败都是 CONFIGURATION 错误：没有菜系预测就无法选出候选池。
func LoadCuisineClassifier(vectorizerPath, classifierPath string) (*CuisineClassifier, error) {
	v, err := LoadTFIDFVectorizer(vectorizerPath)
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleClassifier, err, "load vectorizer %s", vectorizerPath)
	}
	c, err := LoadLinearClassifier(classifierPath)
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleClassifier, err, "load classifier %s", classifierPath)
	}
	return NewCuisineClassifier(v, c)
}

// Classify 预测 pantry 文本对应的菜系标签。
func (c *CuisineClassifier) Classify(ctx context.Context, tokens string) (string, error) {
	fv, err := c.Vectorizer.Vectorize(tokens)
	if err != nil {
		return "", fmt.Errorf("vectorize: %w", err)
	}
	label, err := c.Classifier.Predict(ctx, fv)
	if err != nil {
		return "", fmt.Errorf("predict with %s: %w", c.Classifier.Name(), err)
	}
	if label == "" {
		return "", core.NewDomainError(core.ModuleClassifier, core.ErrorCodeInternalError, "classifier returned an empty label")
	}
	return label, nil
}

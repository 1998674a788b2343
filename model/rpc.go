package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// RPCClassifier 是通过 HTTP 调用外部模型服务的 Classifier 实现。
// 适用于模型无法导出为线性参数的场景（树模型、神经网络等）。
//
// 请求格式（JSON）：
//
//	{"indices": [3, 17, 42], "values": [0.41, 0.77, 0.49]}
//
// 响应格式（JSON）：
//
//	{"label": "italian"}
type RPCClassifier struct {
	name     string
	Endpoint string // 例如 "http://localhost:8501/predict"
	Timeout  time.Duration
	Client   *resty.Client // 为空时首次调用按 Timeout 创建

	once   sync.Once
	client *resty.Client
}

func NewRPCClassifier(name, endpoint string, timeout time.Duration) *RPCClassifier {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCClassifier{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client:   resty.New().SetTimeout(timeout),
	}
}

func (m *RPCClassifier) Name() string {
	if m.name == "" {
		return "rpc"
	}
	return m.name
}

// httpClient 只初始化一次，零值 RPCClassifier 也可以被并发请求共享。
func (m *RPCClassifier) httpClient() *resty.Client {
	m.once.Do(func() {
		m.client = m.Client
		if m.client == nil {
			timeout := m.Timeout
			if timeout <= 0 {
				timeout = 5 * time.Second
			}
			m.client = resty.New().SetTimeout(timeout)
		}
	})
	return m.client
}

type rpcPredictRequest struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

type rpcPredictResponse struct {
	Label string `json:"label"`
}

func (m *RPCClassifier) Predict(ctx context.Context, fv FeatureVector) (string, error) {
	req := rpcPredictRequest{Indices: fv.Indices()}
	req.Values = make([]float64, 0, len(req.Indices))
	for _, i := range req.Indices {
		req.Values = append(req.Values, fv[i])
	}

	var result rpcPredictResponse
	resp, err := m.httpClient().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post(m.Endpoint)
	if err != nil {
		return "", fmt.Errorf("rpc call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	if result.Label == "" {
		return "", fmt.Errorf("rpc response has no label")
	}
	return result.Label, nil
}

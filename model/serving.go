package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rushteam/careerkit/core"
)

// ServingClient 是进程外模型服务的客户端实现：冻结的工件对
// （vectorizer + classifier）也可以由独立的推理服务托管，本客户端
// 通过 REST API 调用它，并实现与本地 LogisticClassifier 相同的
// core.Classifier 契约。
//
// 协议（HTTP/JSON）：
//   - GET  {endpoint}/v1/models/{model}/metadata -> {"classes": [...]}
//   - POST {endpoint}/v1/models/{model}:predict
//     请求:  {"instances": [{"12": 0.5, "40": 0.3}]}（稀疏特征，索引为字符串键）
//     响应:  {"predictions": [[p0, p1, ...]]}
//
// 类别顺序在构造时通过 metadata 获取一次；获取失败视为模型不可用，
// 服务不得启动——与本地工件加载失败同级。
type ServingClient struct {
	// Endpoint 服务端点，如 "http://localhost:8501"
	Endpoint string

	// ModelName 模型名称
	ModelName string

	// Timeout 单次请求超时时间
	Timeout time.Duration

	classes    []int
	httpClient *http.Client
}

// ServingOption 客户端配置选项
type ServingOption func(*ServingClient)

// WithServingTimeout 设置超时时间
func WithServingTimeout(timeout time.Duration) ServingOption {
	return func(c *ServingClient) {
		c.Timeout = timeout
	}
}

// NewServingClient 创建远程分类器客户端，并拉取一次类别元数据。
func NewServingClient(endpoint, modelName string, opts ...ServingOption) (*ServingClient, error) {
	client := &ServingClient{
		Endpoint:  endpoint,
		ModelName: modelName,
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.httpClient = &http.Client{Timeout: client.Timeout}

	if err := client.fetchMetadata(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *ServingClient) fetchMetadata(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s/metadata", c.Endpoint, c.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: build metadata request: %v", err))
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: fetch metadata from %s: %v", url, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: metadata request failed: status %d", resp.StatusCode))
	}

	var meta struct {
		Classes []int `json:"classes"`
	}
	if err := json.Unmarshal(body, &meta); err != nil || len(meta.Classes) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			"model: metadata response missing classes")
	}
	c.classes = meta.Classes
	return nil
}

func (c *ServingClient) Name() string { return "serving:" + c.ModelName }

// Classes 返回训练类别编码的固定顺序（构造时从服务元数据获取）。
func (c *ServingClient) Classes() []int { return c.classes }

// PredictProba 调用远程服务输出概率分布。
func (c *ServingClient) PredictProba(ctx context.Context, features map[int]float64) ([]float64, error) {
	// 稀疏特征的 JSON 键必须是字符串
	instance := make(map[string]float64, len(features))
	for idx, w := range features {
		instance[strconv.Itoa(idx)] = w
	}
	reqBody, err := json.Marshal(map[string]any{
		"instances": []map[string]float64{instance},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.Endpoint, c.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: predict request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict request failed: status %d, body %s", resp.StatusCode, body)
	}

	var out struct {
		Predictions [][]float64 `json:"predictions"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse predict response: %w", err)
	}
	if len(out.Predictions) != 1 {
		return nil, fmt.Errorf("predict response: expected 1 prediction, got %d", len(out.Predictions))
	}
	if len(out.Predictions[0]) != len(c.classes) {
		return nil, fmt.Errorf("predict response: expected %d probabilities, got %d",
			len(c.classes), len(out.Predictions[0]))
	}
	return out.Predictions[0], nil
}

var _ core.Classifier = (*ServingClient)(nil)

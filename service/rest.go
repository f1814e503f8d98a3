package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RESTClient 是通用 JSON 打分端点的客户端实现。
//
// 请求格式（JSON）：
//
//	{"instances": [[f1, f2, ...], ...]}
//
// 响应格式（JSON）：
//
//	{"predictions": [0.85, 0.12, ...]}
//
// 兼容 TF Serving 的 REST 协议（/v1/models/<name>:predict）以及
// 常见托管平台在线端点的 /score 路径，可通过 WithRESTPath 调整。
type RESTClient struct {
	// Endpoint 服务端点，如 "http://localhost:8501"
	Endpoint string

	// ModelName 模型名称
	ModelName string

	// ModelVersion 模型版本（可选，为空则使用最新版本）
	ModelVersion string

	// Path 打分路径；为空时按 TF Serving 风格拼接
	Path string

	// Timeout 超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig

	httpClient *http.Client
}

// NewRESTClient 创建一个新的 REST 打分客户端。
func NewRESTClient(endpoint, modelName string, opts ...RESTOption) *RESTClient {
	client := &RESTClient{
		Endpoint:  endpoint,
		ModelName: modelName,
		Timeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient = &http.Client{
		Timeout: client.Timeout,
	}

	return client
}

// RESTOption REST 客户端配置选项
type RESTOption func(*RESTClient)

// WithRESTVersion 设置模型版本
func WithRESTVersion(version string) RESTOption {
	return func(c *RESTClient) {
		c.ModelVersion = version
	}
}

// WithRESTPath 设置打分路径（如 "/score"）
func WithRESTPath(path string) RESTOption {
	return func(c *RESTClient) {
		c.Path = path
	}
}

// WithRESTTimeout 设置超时时间
func WithRESTTimeout(timeout time.Duration) RESTOption {
	return func(c *RESTClient) {
		c.Timeout = timeout
	}
}

// WithRESTAuth 设置认证信息
func WithRESTAuth(auth *AuthConfig) RESTOption {
	return func(c *RESTClient) {
		c.Auth = auth
	}
}

// Predict 实现 MLService 接口
func (c *RESTClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if len(req.Instances) == 0 {
		return nil, fmt.Errorf("instances are required")
	}

	// 1. 构建 URL
	url := c.predictURL(req)

	// 2. 构建请求体
	body := map[string]interface{}{
		"instances": req.Instances,
	}
	for k, v := range req.Params {
		body[k] = v
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// 3. 创建 HTTP 请求
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// 4. 添加认证
	if c.Auth != nil {
		c.addAuth(httpReq)
	}

	// 5. 发送请求
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	// 6. 解析响应
	var result struct {
		Predictions []interface{} `json:"predictions"`
		Outputs     interface{}   `json:"outputs,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// 7. 转换预测结果
	predictions := make([]float64, 0, len(result.Predictions))
	for _, pred := range result.Predictions {
		switch v := pred.(type) {
		case float64:
			predictions = append(predictions, v)
		case []interface{}:
			// 如果返回的是数组，取第一个元素
			if len(v) > 0 {
				if fv, ok := v[0].(float64); ok {
					predictions = append(predictions, fv)
				}
			}
		default:
			return nil, fmt.Errorf("unexpected prediction type: %T", pred)
		}
	}

	if len(predictions) != len(req.Instances) {
		return nil, fmt.Errorf("prediction count mismatch: expected %d, got %d",
			len(req.Instances), len(predictions))
	}

	return &PredictResponse{
		Predictions:  predictions,
		Outputs:      result.Outputs,
		ModelVersion: c.ModelVersion,
	}, nil
}

// predictURL 拼接打分 URL
func (c *RESTClient) predictURL(req *PredictRequest) string {
	if c.Path != "" {
		return c.Endpoint + c.Path
	}

	name := req.ModelName
	if name == "" {
		name = c.ModelName
	}
	version := req.ModelVersion
	if version == "" {
		version = c.ModelVersion
	}

	if version != "" {
		return fmt.Sprintf("%s/v1/models/%s/versions/%s:predict", c.Endpoint, name, version)
	}
	return fmt.Sprintf("%s/v1/models/%s:predict", c.Endpoint, name)
}

// addAuth 添加认证信息到 HTTP 请求
func (c *RESTClient) addAuth(req *http.Request) {
	if c.Auth == nil {
		return
	}

	switch c.Auth.Type {
	case "basic":
		req.SetBasicAuth(c.Auth.Username, c.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", c.Auth.APIKey)
	}
}

// Health 健康检查
func (c *RESTClient) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.Endpoint, c.ModelName)
	if c.Path != "" {
		url = c.Endpoint + "/health"
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.Auth != nil {
		c.addAuth(httpReq)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

// Close 关闭连接
func (c *RESTClient) Close() error {
	// HTTP 客户端不需要显式关闭
	return nil
}

// 确保 RESTClient 实现了 MLService 接口
var _ MLService = (*RESTClient)(nil)

package port

import (
	"context"
)

// ChatRequest 一次 LLM 调用的输入
type ChatRequest struct {
	SystemInstruction string
	UserContent       string
	Temperature       float64
	TopP              float64
	TopK              int
}

// ChunkStream 单遍、不可重启的增量文本序列。
// Recv 在序列结束时返回 io.EOF；调用方必须 Close 以释放连接。
type ChunkStream interface {
	Recv() (string, error)
	Close() error
}

// ChatClient 工作流层对 LLM 提供商的最小依赖（port）。
// Generate 返回去除首尾空白后的非空文本，否则返回类型化错误。
type ChatClient interface {
	Provider() string
	Model() string
	Generate(ctx context.Context, req ChatRequest) (string, error)
	Stream(ctx context.Context, req ChatRequest) (ChunkStream, error)
}

// ChatClientFactory 按提供商名称获取客户端，名称为空时返回默认提供商
type ChatClientFactory interface {
	Get(ctx context.Context, name string) (ChatClient, error)
}

package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"jenga-prompts-api/internal/workflow/port"
)

// EinoClient 将 Eino ChatModel 适配为 port.ChatClient（OpenAI 兼容接口）。
// 调用指标与追踪由全局 Eino callbacks 负责。
type EinoClient struct {
	provider  string
	modelName string
	timeout   time.Duration
	cm        model.BaseChatModel
}

func NewEinoClient(provider, modelName string, timeout time.Duration, cm model.BaseChatModel) *EinoClient {
	return &EinoClient{provider: provider, modelName: modelName, timeout: timeout, cm: cm}
}

func (c *EinoClient) Provider() string { return c.provider }
func (c *EinoClient) Model() string    { return c.modelName }

func (c *EinoClient) messages(req port.ChatRequest) []*schema.Message {
	msgs := make([]*schema.Message, 0, 2)
	if req.SystemInstruction != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemInstruction))
	}
	return append(msgs, schema.UserMessage(req.UserContent))
}

func (c *EinoClient) options(req port.ChatRequest) []model.Option {
	var opts []model.Option
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}
	if req.TopP > 0 {
		opts = append(opts, model.WithTopP(float32(req.TopP)))
	}
	return opts
}

func (c *EinoClient) Generate(ctx context.Context, req port.ChatRequest) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	msg, err := c.cm.Generate(ctx, c.messages(req), c.options(req)...)
	if err != nil {
		return "", classify(err)
	}
	if msg == nil {
		return "", ErrMalformedResponse
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *EinoClient) Stream(ctx context.Context, req port.ChatRequest) (port.ChunkStream, error) {
	ctx, cancel := c.withTimeout(ctx)

	sr, err := c.cm.Stream(ctx, c.messages(req), c.options(req)...)
	if err != nil {
		cancel()
		return nil, classify(err)
	}
	return &einoStream{sr: sr, cancel: cancel}, nil
}

func (c *EinoClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

type einoStream struct {
	sr     *schema.StreamReader[*schema.Message]
	cancel context.CancelFunc
}

func (s *einoStream) Recv() (string, error) {
	for {
		msg, err := s.sr.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", classify(err)
		}
		if msg != nil && msg.Content != "" {
			return msg.Content, nil
		}
	}
}

func (s *einoStream) Close() error {
	s.sr.Close()
	s.cancel()
	return nil
}

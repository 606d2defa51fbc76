package enhance

import (
	"context"
	"errors"
	"io"
	"strings"

	"jenga-prompts-api/internal/domain/service"
	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/pkg/logger"
	"jenga-prompts-api/pkg/metrics"
)

// StreamCallbacks 流式转发的回调；均可为 nil
type StreamCallbacks struct {
	// OnChunk 每个非空分片按到达顺序调用一次；返回错误时停止转发
	OnChunk func(chunk string) error
	// OnComplete 上游正常结束时调用，参数为全部分片的拼接
	OnComplete func(full string)
	// OnError 上游或下游出错时调用
	OnError func(err error)
}

// Relay 逐个转发分片直到上游结束，结束后总会关闭 stream
func Relay(ctx context.Context, stream port.ChunkStream, cb StreamCallbacks) (string, error) {
	defer stream.Close()

	provider := service.ProviderFromContext(ctx)
	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	var sb strings.Builder
	chunks := 0
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn(ctx, "stream interrupted", "provider", provider, "chunks", chunks, "error", err.Error())
			if cb.OnError != nil {
				cb.OnError(err)
			}
			return sb.String(), err
		}
		if chunk == "" {
			continue
		}

		sb.WriteString(chunk)
		chunks++
		metrics.LLMStreamChunks.WithLabelValues(provider).Inc()
		if cb.OnChunk != nil {
			if err := cb.OnChunk(chunk); err != nil {
				if cb.OnError != nil {
					cb.OnError(err)
				}
				return sb.String(), err
			}
		}
		if ctx.Err() != nil {
			if cb.OnError != nil {
				cb.OnError(ctx.Err())
			}
			return sb.String(), ctx.Err()
		}
	}

	full := sb.String()
	logger.Debug(ctx, "stream completed", "provider", provider, "chunks", chunks)
	if cb.OnComplete != nil {
		cb.OnComplete(full)
	}
	return full, nil
}

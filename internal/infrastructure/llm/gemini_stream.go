package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	sseDataPrefix   = "data:"
	maxSSELineBytes = 1 << 20
)

// sseStream 逐行读取 text/event-stream，每个 data 事件解码为一个 GeminiResponse
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc
	once    sync.Once
	done    bool

	// onFinish 在流首次结束时调用一次：读到 EOF 时 err 为 nil
	onFinish   func(err error)
	finishOnce sync.Once
}

func newSSEStream(body io.ReadCloser, cancel context.CancelFunc, onFinish func(error)) *sseStream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64<<10), maxSSELineBytes)
	return &sseStream{body: body, scanner: sc, cancel: cancel, onFinish: onFinish}
}

// Recv 返回下一个非空文本片段；流结束返回 io.EOF
func (s *sseStream) Recv() (string, error) {
	text, err := s.next()
	switch {
	case err == io.EOF:
		s.finish(nil)
	case err != nil:
		s.finish(err)
	}
	return text, err
}

func (s *sseStream) finish(err error) {
	if s.onFinish == nil {
		return
	}
	s.finishOnce.Do(func() { s.onFinish(err) })
}

func (s *sseStream) next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, sseDataPrefix))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var evt GeminiResponse
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(evt.Candidates) == 0 && evt.PromptFeedback != nil && evt.PromptFeedback.BlockReason != "" {
			return "", &BlockedError{Reason: evt.PromptFeedback.BlockReason}
		}
		if text := candidateText(&evt); text != "" {
			return text, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", classify(err)
	}
	s.done = true
	return "", io.EOF
}

// Close 未读到结尾就关闭的流按 context.Canceled 结束
func (s *sseStream) Close() error {
	s.finish(context.Canceled)
	var err error
	s.once.Do(func() {
		err = s.body.Close()
		if s.cancel != nil {
			s.cancel()
		}
	})
	return err
}

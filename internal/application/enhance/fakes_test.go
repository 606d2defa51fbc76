package enhance

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/workflow/modelspec"
	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/internal/workflow/prompt"
	"jenga-prompts-api/internal/workflow/strategy"
	"jenga-prompts-api/internal/workflow/transform"
)

type fakeStream struct {
	chunks []string
	err    error
	closed bool
	mu     sync.Mutex
}

func (s *fakeStream) Recv() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type fakeClient struct {
	reply     string
	err       error
	stream    *fakeStream
	streamErr error
	calls     int
	lastReq   port.ChatRequest
}

func (c *fakeClient) Provider() string { return "fake" }
func (c *fakeClient) Model() string    { return "fake-model" }

func (c *fakeClient) Generate(_ context.Context, req port.ChatRequest) (string, error) {
	c.calls++
	c.lastReq = req
	return c.reply, c.err
}

func (c *fakeClient) Stream(_ context.Context, req port.ChatRequest) (port.ChunkStream, error) {
	c.calls++
	c.lastReq = req
	if c.streamErr != nil {
		return nil, c.streamErr
	}
	return c.stream, nil
}

type fakeFactory struct {
	client port.ChatClient
	err    error
}

func (f fakeFactory) Get(context.Context, string) (port.ChatClient, error) {
	return f.client, f.err
}

func newTestService(t *testing.T, factory port.ChatClientFactory) *Service {
	t.Helper()
	specs, err := modelspec.NewRegistry("")
	require.NoError(t, err)
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "fake",
		Providers: map[string]config.ProviderConfig{
			"fake": {Temperature: 0.7, TopP: 0.95, TopK: 40},
		},
	}}
	return NewService(
		prompt.NewBuilder(nil),
		transform.NewTransformer(specs, strategy.NewSelector(false)),
		factory,
		cfg,
	)
}

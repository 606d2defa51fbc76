package prompt

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jenga-prompts-api/internal/domain/entity"
)

func TestFrameworkFile(t *testing.T) {
	assert.Equal(t, "image-prompt-framework.md", FrameworkFile(entity.ModeImage))
	assert.Equal(t, "video-prompt-framework.md", FrameworkFile(entity.ModeVideo))
}

func TestFrameworkLoaderCachesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image-prompt-framework.md")
	require.NoError(t, os.WriteFile(path, []byte("  IMAGE FRAMEWORK \n"), 0o644))

	l := NewFrameworkLoader(dir)
	got, ok := l.Load(context.Background(), "image-prompt-framework.md")
	require.True(t, ok)
	assert.Equal(t, "IMAGE FRAMEWORK", got)

	// 文件变更后仍返回缓存内容
	require.NoError(t, os.WriteFile(path, []byte("CHANGED"), 0o644))
	got, ok = l.Load(context.Background(), "image-prompt-framework.md")
	require.True(t, ok)
	assert.Equal(t, "IMAGE FRAMEWORK", got)
	assert.Equal(t, 1, l.Cached())
}

func TestFrameworkLoaderMissingFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	l := NewFrameworkLoader(dir)

	_, ok := l.Load(context.Background(), "audio-prompt-framework.md")
	assert.False(t, ok)
	assert.Equal(t, 0, l.Cached())

	// 失败不缓存，文件出现后可以加载
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio-prompt-framework.md"), []byte("AUDIO"), 0o644))
	got, ok := l.Load(context.Background(), "audio-prompt-framework.md")
	require.True(t, ok)
	assert.Equal(t, "AUDIO", got)
}

func TestFrameworkLoaderRejectsEmptyAndTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text-prompt-framework.md"), []byte("  \n"), 0o644))

	l := NewFrameworkLoader(dir)
	_, ok := l.Load(context.Background(), "text-prompt-framework.md")
	assert.False(t, ok)

	_, ok = l.Load(context.Background(), "../secret.md")
	assert.False(t, ok)

	var nilLoader *FrameworkLoader
	_, ok = nilLoader.Load(context.Background(), "x")
	assert.False(t, ok)
}

func TestFrameworkLoaderConcurrentFirstAccess(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video-prompt-framework.md"), []byte("VIDEO"), 0o644))
	l := NewFrameworkLoader(dir)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = l.Load(context.Background(), "video-prompt-framework.md")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "VIDEO", r)
	}
	assert.Equal(t, 1, l.Cached())
}

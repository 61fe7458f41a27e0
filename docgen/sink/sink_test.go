package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr string
	}{
		{path: "api-docs.json"},
		{path: "groups/admin/api-docs.yaml"},
		{path: "..hidden.json"},
		{path: "", wantErr: "empty"},
		{path: "/etc/passwd", wantErr: "absolute"},
		{path: "C:/docs.json", wantErr: "absolute"},
		{path: "../docs.json", wantErr: "traversal"},
		{path: "a/../../docs.json", wantErr: "traversal"},
		{path: "./docs.json", wantErr: "not clean"},
		{path: "a//docs.json", wantErr: "not clean"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDocumentPath(t *testing.T) {
	assert.Equal(t, "api-docs.json", DocumentPath("", ""))
	assert.Equal(t, "api-docs.json", DocumentPath("default", "json"))
	assert.Equal(t, "api-docs-admin.yaml", DocumentPath("admin", "YAML"))
	assert.Equal(t, "api-docs-internal-v2.json", DocumentPath("internal/v2", "json"))
	assert.NoError(t, ValidatePath(DocumentPath("../../etc", "json")))
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()

	content := []byte(`{"swagger":"2.0"}`)
	require.NoError(t, s.WriteFile(ctx, "api-docs.json", content))
	content[0] = 'x'
	assert.Equal(t, `{"swagger":"2.0"}`, string(s.Get("api-docs.json")), "content is copied on write")

	got := s.Get("api-docs.json")
	got[0] = 'x'
	assert.Equal(t, byte('{'), s.Get("api-docs.json")[0], "content is copied on read")

	require.NoError(t, s.WriteFile(ctx, "a/api-docs.yaml", nil))
	assert.Equal(t, []string{"a/api-docs.yaml", "api-docs.json"}, s.Paths())
	assert.Nil(t, s.Get("missing.json"))

	assert.Error(t, s.WriteFile(ctx, "../escape.json", content))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.WriteFile(cancelled, "late.json", content), context.Canceled)

	s.Reset()
	assert.Empty(t, s.Paths())
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.WriteFile(context.Background(), fmt.Sprintf("doc-%d.json", i), []byte("{}")))
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Paths(), 50)
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(ctx, "groups/api-docs.json", []byte("v1")))
	got, err := os.ReadFile(filepath.Join(root, "groups", "api-docs.json"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	info, err := os.Stat(filepath.Join(root, "groups", "api-docs.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	require.NoError(t, s.WriteFile(ctx, "groups/api-docs.json", []byte("v2")))
	got, err = os.ReadFile(filepath.Join(root, "groups", "api-docs.json"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "groups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFilesystemSink_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := &FilesystemSink{Root: root}

	require.NoError(t, s.WriteFile(ctx, "api-docs.json", []byte("first")))
	err := s.WriteFile(ctx, "api-docs.json", []byte("second"))
	assert.ErrorContains(t, err, "already exists")

	got, err := os.ReadFile(filepath.Join(root, "api-docs.json"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilesystemSink_Rejects(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())

	assert.ErrorContains(t, s.WriteFile(context.Background(), "../outside.json", nil), "traversal")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.WriteFile(cancelled, "api-docs.json", nil), context.Canceled)
}

package cmdexec

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealCommandExecutor_Execute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		argv        []string
		wantSuccess bool
		wantOutput  string
	}{
		{
			name:        "echo command",
			argv:        []string{"echo", "hello"},
			wantSuccess: true,
			wantOutput:  "hello\n",
		},
		{
			name:        "command with multiple args",
			argv:        []string{"echo", "hello", "world"},
			wantSuccess: true,
			wantOutput:  "hello world\n",
		},
		{
			name:        "invalid command",
			argv:        []string{"nonexistent_command_xyz123"},
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			executor := &RealCommandExecutor{}
			ctx := context.Background()

			stdout, stderr, err := executor.Execute(ctx, nil, tt.argv...)

			if tt.wantSuccess {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutput, string(stdout))
				assert.Empty(t, stderr)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRealCommandExecutor_PinnedEnvironment(t *testing.T) {
	t.Parallel()

	executor := &RealCommandExecutor{}
	ctx := context.Background()

	pinned := []string{"SAFE_TARGET=https://vault.example.com", "PATH=" + os.Getenv("PATH")}
	stdout, _, err := executor.Execute(ctx, pinned, "sh", "-c", "echo $SAFE_TARGET")

	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com\n", string(stdout))
}

func TestRealCommandExecutor_ContextCancellation(t *testing.T) {
	t.Parallel()

	executor := &RealCommandExecutor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := executor.Execute(ctx, nil, "sleep", "10")
	assert.Error(t, err)
}

func TestDefaultExecutor(t *testing.T) {
	t.Parallel()

	executor := DefaultExecutor()
	require.NotNil(t, executor)

	_, ok := executor.(*RealCommandExecutor)
	assert.True(t, ok, "DefaultExecutor should return a *RealCommandExecutor")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))

	executor := &RealCommandExecutor{}
	_, _, err := executor.Execute(context.Background(), nil, "sh", "-c", "exit 3")
	assert.Equal(t, 3, ExitCode(err))
}

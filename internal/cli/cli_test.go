package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/memagent/internal/logging"
	"github.com/petasbytes/memagent/internal/runner"
	"github.com/petasbytes/memagent/memory"
)

// setup writes a config pointing the file store into a temp dir and
// returns the memory file path and the config path.
func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	memPath := filepath.Join(dir, "memory.json")
	cfgPath := filepath.Join(dir, "memagent.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: file\n  path: "+memPath+"\nlog:\n  level: error\n"), 0o644))
	return memPath, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestMemoryShow_DefaultsAndPaths(t *testing.T) {
	memPath, cfgPath := setup(t)

	out, err := execute(t, "--config", cfgPath, "memory", "show", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", gjson.Get(out, "core_memory.user_name").String())
	_, err = os.Stat(memPath)
	assert.NoError(t, err, "defaults should be persisted on first load")

	out, err = execute(t, "--config", cfgPath, "memory", "show", "-o", "json", "core_memory.relationship")
	require.NoError(t, err)
	assert.Equal(t, "New acquaintance\n", out)

	out, err = execute(t, "--config", cfgPath, "memory", "show", "-o", "yaml", "core_memory")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "user_name: Unknown\nrelationship: New acquaintance\n"), out)

	_, err = execute(t, "--config", cfgPath, "memory", "show", "-o", "json", "core_memory.nope")
	assert.ErrorIs(t, err, memory.ErrNotFound)

	_, err = execute(t, "--config", cfgPath, "memory", "show", "-o", "xml")
	assert.Error(t, err)
}

func TestMemoryReset(t *testing.T) {
	memPath, cfgPath := setup(t)

	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.user_name", Raw: "John"}))
	require.NoError(t, memory.NewFileStore(memPath).Save(context.Background(), doc))

	out, err := execute(t, "--config", cfgPath, "memory", "reset")
	require.NoError(t, err)
	assert.Equal(t, "Memory reset successfully\n", out)

	b, err := os.ReadFile(memPath)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", gjson.GetBytes(b, "core_memory.user_name").String())
}

func TestMemorySchema(t *testing.T) {
	_, cfgPath := setup(t)
	out, err := execute(t, "--config", cfgPath, "memory", "schema")
	require.NoError(t, err)
	assert.Equal(t, "object", gjson.Get(out, "type").String())
}

type cannedModel struct{ reply string }

func (m cannedModel) Name() string { return "canned" }

func (m cannedModel) Complete(context.Context, string, string) (string, error) {
	return m.reply, nil
}

func TestRepl_ChatsUntilEOF(t *testing.T) {
	logger = logging.Discard()
	store := memory.NewMemStore()
	r, err := runner.New(context.Background(), cannedModel{reply: "Hi! [MEMORY_UPDATE: recent_topics=[greetings]]"}, store)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, repl(context.Background(), r, strings.NewReader("hello\n\nhow are you\n"), &out))

	assert.Equal(t, 2, strings.Count(out.String(), "Agent\u001b[0m: Hi!\n"))
	assert.NotContains(t, out.String(), "MEMORY_UPDATE")
	assert.Equal(t, int64(2), r.Memory().InteractionCount())
	assert.Equal(t, []string{"greetings", "greetings"}, r.Memory().View().RecentTopics)
}

func TestRepl_StopsOnCancel(t *testing.T) {
	logger = logging.Discard()
	r, err := runner.New(context.Background(), cannedModel{reply: "x"}, memory.NewMemStore())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	require.NoError(t, repl(ctx, r, pr, &out))
	assert.Contains(t, out.String(), "Exiting...")
}

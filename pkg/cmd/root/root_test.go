package root

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/notehub/internal/config"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

// execute runs one notehub invocation against home. Tests in this file are
// not parallel because flags bind into the global viper instance.
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	s := session.New()
	s.Options.Home = home
	s.Options.LogWriter = io.Discard
	t.Cleanup(func() { _ = s.Close() })

	cmd := NewCmdRoot(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	_ = s.Close()
	return out.String(), err
}

func TestListPrintsFirstPage(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--offline", "list")
	require.NoError(t, err)
	require.Contains(t, out, "All notes")
	require.Contains(t, out, "1:1 with lead")
	require.NotContains(t, out, "Grocery run")
	require.Contains(t, out, "Page 1 of 2")
}

func TestBareCommandFallsBackToListOutsideTerminal(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--offline", "work", "--search", "report")
	require.NoError(t, err)
	require.Contains(t, out, "/notes/filter/Work?search=report")
	require.Contains(t, out, "Quarterly report")
	require.NotContains(t, out, "Team offsite")
	require.NotContains(t, out, "Page 1 of")
}

func TestListEmptyAndInvalidFlags(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "--offline", "list", "--search", "zzz")
	require.NoError(t, err)
	require.Contains(t, out, `No notes match "zzz".`)

	_, err = execute(t, home, "--offline", "list", "--page", "0")
	require.ErrorContains(t, err, "invalid page")

	_, err = execute(t, home, "--offline", "list", "--tag", "urgent")
	require.ErrorContains(t, err, "invalid tag")
}

func TestNewCreatesAndClearsDraft(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "--offline", "new", "--title", "  Buy milk ", "--tag", "shopping")
	require.NoError(t, err)
	require.Contains(t, out, "Created note")
	require.Contains(t, out, "(Shopping)")

	out, err = execute(t, home, "--offline", "draft", "show")
	require.NoError(t, err)
	require.Contains(t, out, "No draft")
}

func TestNewWithoutTitleKeepsDraft(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "--offline", "new", "--content", "eggs", "--tag", "todo")
	require.ErrorContains(t, err, "title is required")
	require.Contains(t, out, "Draft saved")

	out, err = execute(t, home, "--offline", "draft", "show")
	require.NoError(t, err)
	require.Contains(t, out, "content: eggs")
	require.Contains(t, out, "tag: Todo")

	out, err = execute(t, home, "--offline", "new", "--title", "Shopping list")
	require.NoError(t, err)
	require.Contains(t, out, "(Todo)")

	out, err = execute(t, home, "--offline", "draft", "show")
	require.NoError(t, err)
	require.Contains(t, out, "No draft")
}

func TestDraftClear(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, home, "--offline", "new", "--content", "half a thought")
	require.Error(t, err)

	out, err := execute(t, home, "--offline", "draft", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Draft cleared")

	out, err = execute(t, home, "--offline", "draft", "show")
	require.NoError(t, err)
	require.Contains(t, out, "No draft")
}

func TestTagsListsLocations(t *testing.T) {
	out, err := execute(t, t.TempDir(), "tags")
	require.NoError(t, err)
	require.Contains(t, out, "/notes/filter/all")
	require.Contains(t, out, "/notes/filter/Meeting")
}

func TestInitWritesConfig(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "init", "--base-url", "http://localhost:8080/api/", "--token", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "Configuration written")

	data, err := os.ReadFile(config.GetConfigPath(home))
	require.NoError(t, err)
	require.Contains(t, string(data), "base_url: http://localhost:8080/api")
	require.Contains(t, string(data), "token: secret")

	viper.Reset()
	cfg, err := config.Load(home)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	require.Equal(t, filepath.Join(home, ".notehub", "draft.yaml"), cfg.DraftFile)
}

func TestInitRequiresBaseURL(t *testing.T) {
	_, err := execute(t, t.TempDir(), "init")
	require.ErrorContains(t, err, "no base URL")

	_, err = execute(t, t.TempDir(), "init", "--base-url", "ftp://example.com")
	require.ErrorContains(t, err, "scheme must be http or https")
}

func TestMissingConfigNeedsInitOrOffline(t *testing.T) {
	_, err := execute(t, t.TempDir(), "list")
	var initErr *config.ConfigInitError
	require.ErrorAs(t, err, &initErr)
}

func TestHelpMentionsLocations(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--help")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "/notes/filter/<tag|all>"))
}

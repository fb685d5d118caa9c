package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(stdin string) (*Config, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Config{
		Name:        "farum-chat",
		Description: "test",
		Exit:        func(int) {},
		Stdin:       strings.NewReader(stdin),
		Stdout:      stdout,
		Stderr:      stderr,
	}, stdout, stderr
}

func TestVersion(t *testing.T) {
	config, stdout, _ := testConfig("")

	rc, err := Run([]string{"version"}, config)
	require.NoError(t, err)
	assert.Equal(t, 0, rc)
	assert.Equal(t, "farum-chat dev\n", stdout.String())
}

func TestUnknownFlag(t *testing.T) {
	config, _, stderr := testConfig("")

	rc, err := Run([]string{"--bogus"}, config)
	require.NoError(t, err)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "bogus")
}

func TestChatMissingCredential(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	config, stdout, stderr := testConfig("Hello\n")
	secrets := filepath.Join(t.TempDir(), "none.yaml")

	rc, err := Run([]string{"--provider=openai", "--secrets-file=" + secrets, "chat"}, config)
	require.NoError(t, err)
	assert.Equal(t, 2, rc)
	assert.Contains(t, stderr.String(), "OPENAI_API_KEY")
	// no prompt is shown and nothing is read
	assert.NotContains(t, stdout.String(), "> ")
	assert.Empty(t, stdout.String())
}

func TestChatInvalidTemperature(t *testing.T) {
	t.Chdir(t.TempDir())

	config, _, stderr := testConfig("")

	rc, err := Run([]string{"--provider=mock", "--temperature=5", "chat"}, config)
	require.NoError(t, err)
	assert.Equal(t, 2, rc)
	assert.Contains(t, stderr.String(), "FARUM_TEMPERATURE")
}

func TestChatWithMockProvider(t *testing.T) {
	t.Chdir(t.TempDir())

	config, stdout, _ := testConfig("Hello\n\n/quit\n")

	rc, err := Run([]string{"--provider=mock", "chat"}, config)
	require.NoError(t, err)
	assert.Equal(t, 0, rc)

	out := stdout.String()
	assert.Contains(t, out, "Type /quit to leave.")
	assert.Contains(t, out, `Assistant: You said "Hello".`)
	assert.Equal(t, 1, strings.Count(out, "Assistant:"))
}

func TestChatIsDefaultCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	config, stdout, _ := testConfig("hi\n")

	rc, err := Run([]string{"--provider=mock"}, config)
	require.NoError(t, err)
	assert.Equal(t, 0, rc)
	assert.Contains(t, stdout.String(), `Assistant: You said "hi".`)
}

func parseFlags(t *testing.T, args ...string) cli {
	t.Helper()

	var flags cli
	parser, err := kong.New(&flags, kong.Name("farum-chat"), kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)
	return flags
}

func TestOverridesOnlyCarryFlagsThatWereSet(t *testing.T) {
	flags := parseFlags(t, "chat")
	ov := flags.overrides()
	assert.Nil(t, ov.Temperature)
	assert.Nil(t, ov.MaxOutputTokens)
	assert.Nil(t, ov.RequestTimeout)
	assert.Nil(t, ov.Provider)

	// an explicit zero temperature is a real value
	flags = parseFlags(t, "--temperature=0", "--max-output-tokens=64", "--timeout=5s", "chat")
	ov = flags.overrides()
	require.NotNil(t, ov.Temperature)
	assert.Zero(t, *ov.Temperature)
	require.NotNil(t, ov.MaxOutputTokens)
	assert.Equal(t, 64, *ov.MaxOutputTokens)
	require.NotNil(t, ov.RequestTimeout)
	assert.Equal(t, 5*time.Second, *ov.RequestTimeout)
}

func TestHelpShowsNoPlaceholderDefaults(t *testing.T) {
	var (
		flags cli
		out   bytes.Buffer
	)
	parser, err := kong.New(&flags, kong.Name("farum-chat"), kong.Exit(func(int) {}), kong.Writers(&out, &out))
	require.NoError(t, err)

	// Exit does not stop the parse here, so any error after the help hook is irrelevant
	_, _ = parser.Parse([]string{"--help"})
	help := out.String()

	assert.Contains(t, help, "--temperature")
	assert.NotContains(t, help, "-1")
}

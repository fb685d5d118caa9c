package cli

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	. "github.com/stevegt/goadapt"

	"github.com/PabloGalante/farum-chat/internal/config"
	"github.com/PabloGalante/farum-chat/internal/domain"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type cmdChat struct {
	Session string `help:"Session id to use; a new one is created when empty."`
}

type cmdServe struct {
	Port string `short:"p" help:"Port to listen on (overrides FARUM_PORT)."`
}

type cmdVersion struct{}

// flags shared by every subcommand. Empty strings and nil pointers mean
// "keep what the environment says".
type cli struct {
	Provider        string         `help:"Completion provider: openai, gemini or mock."`
	Model           string         `short:"m" help:"Provider model identifier."`
	Temperature     *float32       `help:"Sampling temperature, 0.0 to 2.0."`
	MaxOutputTokens *int           `name:"max-output-tokens" help:"Upper bound on response length."`
	SystemPrompt    string         `short:"s" help:"Instruction text sent as a system message before the conversation."`
	SingleTurn      bool           `help:"Send only the latest message instead of the whole conversation."`
	Timeout         *time.Duration `help:"Upper bound on a single completion call."`
	SecretsFile     string         `help:"YAML file holding provider secrets (overrides FARUM_SECRETS_FILE)."`
	Verbose         bool           `short:"v" help:"Log debug information on stderr."`

	Chat    cmdChat    `cmd:"" default:"1" help:"Chat with the model in the terminal."`
	Serve   cmdServe   `cmd:"" help:"Serve the chat over HTTP."`
	Version cmdVersion `cmd:"" help:"Show the version."`
}

// Config contains the configuration for the command line front end.
type Config struct {
	// Name is the name of the program
	Name string
	// Description is a short description of the program
	Description string
	// Exit is the function to call to exit the program
	Exit   func(int)
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewConfig returns a Config wired to the process stdio.
func NewConfig() *Config {
	return &Config{
		Name:        "farum-chat",
		Description: "A minimal chat front end for hosted completion models.",
		Exit:        func(i int) { os.Exit(i) },
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// exit codes
const (
	rcOK          = 0
	rcUsage       = 1
	rcConfigError = 2
)

// Run parses args and executes the selected subcommand.
//
// We use kong.New + Parse instead of kong.Parse() so tests can pass their
// own arguments and stdio.
func Run(args []string, config *Config) (rc int, err error) {
	defer Return(&err)

	var flags cli
	options := []kong.Option{
		kong.Name(config.Name),
		kong.Description(config.Description),
		kong.Exit(config.Exit),
		kong.Writers(config.Stdout, config.Stderr),
		kong.UsageOnError(),
	}

	parser, err := kong.New(&flags, options...)
	Ck(err)

	kctx, err := parser.Parse(args)
	if err != nil {
		Fpf(config.Stderr, "%s: error: %v\n", config.Name, err)
		return rcUsage, nil
	}

	switch kctx.Command() {
	case "version":
		Fpf(config.Stdout, "%s %s\n", config.Name, Version)
		return rcOK, nil
	case "serve":
		if flags.Serve.Port != "" {
			port := flags.Serve.Port
			return runServe(flags, config, &port)
		}
		return runServe(flags, config, nil)
	default:
		return runChat(flags, config)
	}
}

func (f cli) overrides() config.Overrides {
	var ov config.Overrides
	if f.Provider != "" {
		ov.Provider = &f.Provider
	}
	if f.Model != "" {
		ov.Model = &f.Model
	}
	ov.Temperature = f.Temperature
	ov.MaxOutputTokens = f.MaxOutputTokens
	if f.SystemPrompt != "" {
		ov.SystemPrompt = &f.SystemPrompt
	}
	ov.RequestTimeout = f.Timeout
	if f.SecretsFile != "" {
		ov.SecretsFile = &f.SecretsFile
	}
	if f.Verbose {
		lvl := "debug"
		ov.LogLevel = &lvl
	}
	ov.SingleTurn = f.SingleTurn
	return ov
}

// reportConfigError prints an actionable message for a configuration
// failure. It returns false for any other error.
func reportConfigError(config *Config, err error) bool {
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) {
		return false
	}
	Fpf(config.Stderr, "%s: cannot start: %v\n", config.Name, ce)
	if len(ce.Tried) > 0 {
		Fpf(config.Stderr, "Set %s in the secrets file (FARUM_SECRETS_FILE) or in the environment, then try again.\n", ce.Field)
	}
	return true
}

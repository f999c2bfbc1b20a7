// Command pixy is the thin entrypoint wiring runtimeconfig resolution, a
// Backend, and the session runtime into a running tea.Program. Flag parsing
// is deliberately minimal: spec.md §1 excludes full CLI argument parsing
// (flags, subcommands, scripting) from this core's scope.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pixyterm/pixy/internal/backend"
	"github.com/pixyterm/pixy/internal/editor"
	"github.com/pixyterm/pixy/internal/historystore"
	"github.com/pixyterm/pixy/internal/keybind"
	"github.com/pixyterm/pixy/internal/runtimeconfig"
	"github.com/pixyterm/pixy/internal/session"
	"github.com/pixyterm/pixy/internal/streamrender"
	"github.com/pixyterm/pixy/internal/theme"
)

var (
	providerFlag   string
	modelFlag      string
	configPathFlag string
	themeFlag      string
	debugFlag      bool
	printFlag      bool
	demoFlag       bool
)

func main() {
	root := &cobra.Command{
		Use:   "pixy",
		Short: "terminal coding assistant",
		RunE:  run,
	}

	root.Flags().StringVar(&providerFlag, "provider", "", "override the selected provider")
	root.Flags().StringVar(&modelFlag, "model", "", "override the selected model (provider/model or bare id)")
	root.Flags().StringVar(&configPathFlag, "config", defaultConfigPath(), "path to the provider config file")
	root.Flags().StringVar(&themeFlag, "theme", "dark", "color theme (dark, light)")
	root.Flags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	root.Flags().BoolVarP(&printFlag, "print", "p", false, "print a single response to stdout instead of launching the TUI")
	root.Flags().BoolVar(&demoFlag, "demo", false, "force the in-memory echo backend instead of a live provider")

	viper.SetEnvPrefix("pixy")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("provider", root.Flags().Lookup("provider"))
	_ = viper.BindPFlag("model", root.Flags().Lookup("model"))
	_ = viper.BindPFlag("config", root.Flags().Lookup("config"))
	_ = viper.BindPFlag("theme", root.Flags().Lookup("theme"))
	_ = viper.BindPFlag("debug", root.Flags().Lookup("debug"))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pixy:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pixy/pixy.toml"
	}
	return filepath.Join(home, ".pixy", "pixy.toml")
}

func run(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	pf, err := runtimeconfig.LoadProviderFile(viper.GetString("config"))
	if err != nil {
		return err
	}

	cfg, err := runtimeconfig.Resolve(runtimeconfig.Overrides{
		Provider: viper.GetString("provider"),
		Model:    viper.GetString("model"),
	}, pf, uint64(time.Now().UnixNano()))
	if err != nil {
		return fmt.Errorf("resolving runtime configuration: %w", err)
	}

	th := theme.Get(viper.GetString("theme"))

	if viper.GetBool("debug") {
		fmt.Fprintf(os.Stderr, "pixy: resolved provider=%s model=%s api=%s\n", cfg.Provider, cfg.ModelID, cfg.API)
	}

	// NewBackendForConfig picks the SDK-backed flavor matching cfg.API;
	// --demo (or a construction error, e.g. no credentials in the
	// environment) falls back to MemoryBackend, the in-memory echo
	// reference every caller of this entrypoint can still drive end to
	// end without live provider access.
	var b backend.Backend
	if demoFlag {
		b = backend.NewMemoryBackend()
	} else {
		b, err = backend.NewBackendForConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pixy: %v; falling back to --demo mode\n", err)
			b = backend.NewMemoryBackend()
		}
	}

	if printFlag {
		return runPrint(ctx, b, th, args)
	}

	home, _ := os.UserHomeDir()
	bindingsPath := filepath.Join(home, ".pixy", "keybindings.json")
	bindings, err := keybind.Load(bindingsPath)
	if err != nil {
		return fmt.Errorf("loading keybindings: %w", err)
	}

	histPath := filepath.Join(home, ".pixy", "history.jsonl")
	hist := historystore.New(histPath, 10000)

	rt := session.NewRuntime(b, cfg, bindings, th, hist, editor.FileImageLookup{})

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("pixy requires an interactive terminal (use --print to pipe output instead)")
	}

	handle := session.SetupTerminal(os.Stdout, th)
	defer handle.Release()

	program := tea.NewProgram(session.NewProgram(ctx, rt), tea.WithAltScreen(), tea.WithMouseCellMotion())
	rt.SetSender(program)
	_, err = program.Run()
	return err
}

// runPrint drives a single generation through streamrender.CLISink instead
// of the TUI, per spec.md §4.4's CLI-alternate renderer: no raw mode, no
// alt-screen, no resume picker, just one prompt in and one rendered response
// out. The prompt is the joined positional args, falling back to stdin when
// none are given (a piped `echo "..." | pixy -p` invocation).
func runPrint(ctx context.Context, b backend.Backend, th theme.Theme, args []string) error {
	prompt := strings.Join(args, " ")
	if prompt == "" {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("reading prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return fmt.Errorf("no prompt given (pass it as an argument or pipe it on stdin)")
	}

	sink := streamrender.NewCLISink(os.Stdout, th, false)
	_, err := b.PromptStreamWithBlocks(ctx, prompt, nil, func(u backend.StreamUpdate) {
		sink.Apply(printUpdateToSinkUpdate(u), true)
	})
	fmt.Fprintln(os.Stdout)
	return err
}

func printUpdateToSinkUpdate(u backend.StreamUpdate) streamrender.Update {
	switch u.Kind {
	case backend.AssistantTextDelta:
		return streamrender.Update{Kind: streamrender.AssistantTextDelta, Text: u.Text}
	case backend.AssistantLine:
		return streamrender.Update{Kind: streamrender.AssistantLine, Text: u.Text}
	default:
		return streamrender.Update{Kind: streamrender.ToolLine, Text: u.Text}
	}
}

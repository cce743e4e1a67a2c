package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
)

const appName = "vecfiles"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputFmt   string
	outputJSON  bool
	query       string
	verbose     bool
	apiKeyFlag  string

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vecfiles",
	Short: "Manage OpenAI files and vector stores",
	Long: `vecfiles - get-or-create management of OpenAI files and vector stores.

Every "ensure" command looks the resource up by name first and only creates
it when none exists, so scripts can be re-run safely.

Configuration is stored in ~/.vecfiles/vecfiles/ and supports multiple
contexts, similar to kubectl's context management. Without a context the key
is read from $OPENAI_API_KEY or ./APIKeys/openaiapikey.txt.

Examples:
  # Set up a context
  vecfiles config add-context work --key-file ~/keys/openai.txt
  vecfiles config use-context work

  # Make sure a store exists and holds a file
  vecfiles store ensure product-docs
  vecfiles file ensure guide.pdf --purpose assistants

  # Apply a manifest
  vecfiles sync -f kb.yaml

  # Filter output with jq
  vecfiles file list --json -q '.[] | select(.bytes > 1000000) | .id'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			outputFmt = string(cli.FormatJSON)
		}
		_, err := cli.ParseFormat(outputFmt)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.vecfiles/vecfiles/config.yaml)")
	pf.StringVarP(&contextName, "context", "c", "", "context name to use")
	pf.StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	pf.StringVarP(&inputFile, "file", "f", "", "input file (manifest for sync)")
	pf.StringVar(&outputFmt, "format", "", "output format: yaml, json, table, raw (default: table for lists, yaml otherwise)")
	pf.BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	pf.StringVarP(&query, "query", "q", "", "jq expression applied to the result")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&apiKeyFlag, "api-key", "", "API key (overrides context, env and key file)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(journalCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use. With no -c flag and
// no current context an empty context is returned, so the key comes from
// the environment or the default key file.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	if contextName == "" && cfg.CurrentContext == "" {
		return &cli.Context{}, nil
	}
	return cfg.ResolveContext(contextName)
}

// newLogger builds the stderr logger shared by the client and syncer.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage vecfiles CLI configuration.

Configuration is stored in ~/.vecfiles/vecfiles/config.yaml.
Multiple contexts can be defined for different accounts or projects.`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context, or replace an existing one with the same name.

The key may be stored inline with the global --api-key flag or referenced
with --key-file. With neither, $OPENAI_API_KEY and the default key file are
used at request time.

Examples:
  vecfiles config add-context work --key-file ~/keys/openai.txt
  vecfiles config add-context proxy --api-key sk-xxxxx --base-url https://llm.internal/v1
  vecfiles config add-context ci --tie-break newest --max-retries 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		ctx := &cli.Context{
			APIKey:       apiKeyFlag,
			KeyFile:      mustString(cmd, "key-file"),
			BaseURL:      mustString(cmd, "base-url"),
			Organization: mustString(cmd, "organization"),
			Project:      mustString(cmd, "project"),
			TieBreak:     mustString(cmd, "tie-break"),
			JournalDir:   mustString(cmd, "journal-dir"),
		}
		if ctx.TieBreak != "" {
			if _, ok := vsclient.ParseTieBreak(ctx.TieBreak); !ok {
				return fmt.Errorf("unknown tie-break %q (want first or newest)", ctx.TieBreak)
			}
		}
		timeout, _ := cmd.Flags().GetInt("timeout")
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative")
		}
		ctx.Timeout = timeout
		if cmd.Flags().Changed("max-retries") {
			n, _ := cmd.Flags().GetInt("max-retries")
			ctx.MaxRetries = &n
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := getConfig().DeleteContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the default context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := getConfig().UseContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context '%s'", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Show the current context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
		} else {
			fmt.Println(cfg.CurrentContext)
		}
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}
		return outputResult(contextTable(cfg))
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View full configuration",
	Long:  `Print the configuration with API keys masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputResult(maskedConfig(getConfig()))
	},
}

// contextTable lists contexts with the current one marked.
func contextTable(cfg *cli.Config) cli.Rows {
	t := cli.Rows{Headers: []string{"CURRENT", "NAME", "KEY", "BASE_URL", "TIE_BREAK"}}
	for _, name := range cfg.ListContexts() {
		ctx := cfg.Contexts[name]
		marker := ""
		if name == cfg.CurrentContext {
			marker = "*"
		}
		key := cli.MaskAPIKey(ctx.APIKey)
		if key == "" && ctx.KeyFile != "" {
			key = "file:" + ctx.KeyFile
		}
		t.Data = append(t.Data, []string{marker, name, key, ctx.BaseURL, ctx.TieBreak})
	}
	return t
}

// maskedConfig copies cfg with every inline key masked.
func maskedConfig(cfg *cli.Config) *cli.Config {
	out := &cli.Config{
		AppName:        cfg.AppName,
		CurrentContext: cfg.CurrentContext,
		Contexts:       make(map[string]*cli.Context, len(cfg.Contexts)),
	}
	for name, ctx := range cfg.Contexts {
		c := *ctx
		c.APIKey = cli.MaskAPIKey(ctx.APIKey)
		out.Contexts[name] = &c
	}
	return out
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("key-file", "", "file holding the API key")
	f.StringP("base-url", "u", "", "API base URL (default: https://api.openai.com/v1)")
	f.String("organization", "", "organization ID sent with every request")
	f.String("project", "", "project ID sent with every request")
	f.Int("timeout", 0, "request timeout in seconds (0 keeps the SDK default)")
	f.Int("max-retries", 2, "retries for failed requests")
	f.String("tie-break", "", "which duplicate name wins: first or newest")
	f.String("journal-dir", "", "directory for the sync journal (default: ~/.vecfiles/vecfiles/data/journal)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}

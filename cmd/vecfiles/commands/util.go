package commands

import (
	"fmt"
	"time"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/credential"
	"github.com/haivivi/vecfiles/pkg/journal"
	"github.com/haivivi/vecfiles/pkg/kv"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

// outputResult writes result in the selected format. Tabular results
// default to a table, everything else to YAML.
func outputResult(result any) error {
	format := cli.OutputFormat(outputFmt)
	if format == "" {
		format = cli.FormatYAML
		if _, ok := result.(cli.Tabular); ok && query == "" {
			format = cli.FormatTable
		}
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputFile,
		Query:  query,
	})
}

// printVerbose prints verbose output to stderr if enabled
func printVerbose(format string, args ...any) {
	if verbose {
		cli.PrintInfo(format, args...)
	}
}

// clientOptions maps a context onto client options.
func clientOptions(ctx *cli.Context) ([]vsclient.Option, error) {
	opts := []vsclient.Option{vsclient.WithLogger(newLogger())}
	if ctx.BaseURL != "" {
		opts = append(opts, vsclient.WithBaseURL(ctx.BaseURL))
	}
	if ctx.Organization != "" {
		opts = append(opts, vsclient.WithOrganization(ctx.Organization))
	}
	if ctx.Project != "" {
		opts = append(opts, vsclient.WithProject(ctx.Project))
	}
	if ctx.Timeout > 0 {
		opts = append(opts, vsclient.WithTimeout(time.Duration(ctx.Timeout)*time.Second))
	}
	if ctx.MaxRetries != nil {
		opts = append(opts, vsclient.WithRetry(*ctx.MaxRetries))
	}
	if ctx.TieBreak != "" {
		tb, ok := vsclient.ParseTieBreak(ctx.TieBreak)
		if !ok {
			return nil, fmt.Errorf("context %q: unknown tie_break %q (want first or newest)", ctx.Name, ctx.TieBreak)
		}
		opts = append(opts, vsclient.WithTieBreak(tb))
	}
	return opts, nil
}

// testBackendOverride is set during tests to run commands against an
// in-memory backend instead of the remote service.
var testBackendOverride vsclient.Backend

// createClient builds a client from the active context. The key is taken
// from --api-key, the context, $OPENAI_API_KEY, then the key file.
func createClient() (*vsclient.Client, *cli.Context, error) {
	ctx, err := getContext()
	if err != nil {
		return nil, nil, err
	}

	if testBackendOverride != nil {
		opts, err := clientOptions(ctx)
		if err != nil {
			return nil, nil, err
		}
		return vsclient.NewWithBackend(testBackendOverride, opts...), ctx, nil
	}

	explicit := apiKeyFlag
	if explicit == "" {
		explicit = ctx.APIKey
	}
	key, source, err := credential.Resolve(explicit, ctx.KeyFile)
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Using context: %q, key from %s (%s)", ctx.Name, source, cli.MaskAPIKey(key))

	opts, err := clientOptions(ctx)
	if err != nil {
		return nil, nil, err
	}
	client, err := vsclient.New(key, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, ctx, nil
}

// openJournal opens the badger-backed journal for ctx. The caller closes
// the returned store.
func openJournal(ctx *cli.Context) (*journal.Journal, kv.Store, error) {
	dir := ctx.JournalDir
	if dir == "" {
		paths, err := cli.NewPaths(appName)
		if err != nil {
			return nil, nil, err
		}
		if err := paths.EnsureDataDir(); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		dir = paths.DataPath("journal")
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: dir, Logger: newLogger()})
	if err != nil {
		return nil, nil, fmt.Errorf("open journal at %s: %w", dir, err)
	}
	return journal.New(store), store, nil
}

// purposeFlag validates a --purpose value. Empty means the default.
func purposeFlag(s string) (vsclient.FilePurpose, error) {
	if s == "" {
		return vsclient.DefaultPurpose, nil
	}
	switch p := vsclient.FilePurpose(s); p {
	case vsclient.PurposeUserData, vsclient.PurposeAssistants, vsclient.PurposeBatch,
		vsclient.PurposeFineTune, vsclient.PurposeVision, vsclient.PurposeEvals:
		return p, nil
	default:
		return "", fmt.Errorf("unknown purpose %q", s)
	}
}

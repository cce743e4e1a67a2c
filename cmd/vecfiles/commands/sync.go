package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/storage"
	"github.com/haivivi/vecfiles/pkg/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Make a vector store hold the files a manifest lists",
	Long: `Apply a manifest: ensure the vector store exists, upload every listed
file that has no file of the same name yet, and attach each file to the
store. Running the same manifest again creates nothing new.

The manifest may be YAML, JSON or TOML:

  store: product-docs
  purpose: assistants
  source: ./docs            # or s3://bucket/prefix
  files:
    - guide.pdf
    - faq.md

Without files every object under source is synced. Completed runs are
recorded in the journal; see "vecfiles journal list".

Examples:
  vecfiles sync -f kb.yaml
  vecfiles sync -f kb.yaml --dry-run
  vecfiles sync -f kb.toml --concurrency 8 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" {
			return fmt.Errorf("manifest is required, use -f to specify a file")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		m, err := syncer.LoadManifest(inputFile)
		if err != nil {
			return err
		}
		loc, err := m.Location()
		if err != nil {
			return err
		}
		src, err := storage.Open(loc, m.S3Config())
		if err != nil {
			return err
		}

		client, ctx, err := createClient()
		if err != nil {
			return err
		}
		opts := []syncer.Option{
			syncer.WithLogger(newLogger()),
			syncer.WithContextName(ctx.Name),
			syncer.WithConcurrency(concurrency),
			syncer.WithDryRun(dryRun),
		}
		if !dryRun {
			j, store, err := openJournal(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, syncer.WithJournal(j))
		}

		printVerbose("Syncing %s into store %q", loc, m.Store)
		start := time.Now()
		run, runErr := syncer.New(client, opts...).Run(cmd.Context(), m, src)
		if run == nil {
			return runErr
		}
		if err := outputResult(run); err != nil {
			return err
		}

		s := run.Summary()
		msg := fmt.Sprintf("%d uploaded, %d reused, %d attached, %d failed in %s",
			s.Uploaded, s.Reused, s.Attached, s.Failed, cli.FormatDuration(time.Since(start)))
		switch {
		case runErr != nil:
			cli.PrintError("Sync of %q incomplete: %s", m.Store, msg)
		case dryRun:
			cli.PrintInfo("Dry run of %q: %s", m.Store, msg)
		default:
			cli.PrintSuccess("Synced %q: %s", m.Store, msg)
		}
		return runErr
	},
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "report what would change without creating anything")
	syncCmd.Flags().Int("concurrency", 4, "files processed at once")
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Vector stores and their files",
	Long: `Create, look up, and delete vector stores, and manage the files
attached to them.

Commands that take a <store> accept either a store ID or a store name.`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vector stores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		stores, err := client.ListVectorStores(cmd.Context())
		if err != nil {
			return fmt.Errorf("list vector stores failed: %w", err)
		}
		return outputResult(storeList(stores))
	},
}

var storeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a vector store unless one with this name exists",
	Long: `Create a vector store. If a store with the same name already exists
nothing is created and nothing is printed to stdout.

Use "store ensure" to get the existing store back instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, created, err := client.CreateVectorStore(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("create vector store failed: %w", err)
		}
		if !created {
			cli.PrintWarning("Vector store %q already exists, nothing created", args[0])
			return nil
		}
		cli.PrintSuccess("Vector store created: %s", vs.ID)
		return outputResult(vs)
	},
}

var storeEnsureCmd = &cobra.Command{
	Use:   "ensure <name>",
	Short: "Return the vector store with this name, creating it if absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, created, err := client.EnsureVectorStore(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ensure vector store failed: %w", err)
		}
		if created {
			cli.PrintSuccess("Vector store created: %s", vs.ID)
		}
		return outputResult(ensured[*vsclient.VectorStore]{Created: created, Resource: vs})
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <store>",
	Short: "Get a vector store by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return outputResult(vs)
	},
}

var storeFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "List every vector store with this name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		stores, err := client.FindVectorStoresByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(storeList(stores))
	},
}

var storeExistsCmd = &cobra.Command{
	Use:   "exists <name>",
	Short: "Report whether a vector store with this name exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		ok, err := client.VectorStoreExists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(exists{Name: args[0], Exists: ok})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <store>",
	Short: "Delete a vector store by ID or name",
	Long:  `Delete a vector store. The files attached to it are not deleted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		if err := client.DeleteVectorStore(cmd.Context(), vs.ID); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		cli.PrintSuccess("Vector store %s (%s) deleted", vs.ID, vs.Name)
		return nil
	},
}

var storeFilenamesCmd = &cobra.Command{
	Use:   "filenames <store>",
	Short: "List the filenames of a vector store's files",
	Long: `Resolve every file attached to a store to its filename. Files that
cannot be resolved (for example because they were deleted) are listed with
their error instead of failing the whole command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		results, err := client.ListVectorStoreFilenames(cmd.Context(), vs.ID)
		if err != nil {
			return err
		}
		return outputResult(newFilenameList(results))
	},
}

// resolveStore treats arg as a store ID first and falls back to a name
// lookup when no store has that ID.
func resolveStore(ctx context.Context, client *vsclient.Client, arg string) (*vsclient.VectorStore, error) {
	vs, err := client.GetVectorStore(ctx, arg)
	if err == nil {
		return vs, nil
	}
	if !errors.Is(err, vsclient.ErrNotFound) {
		return nil, err
	}
	vs, ok, err := client.GetVectorStoreByName(ctx, arg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no vector store with ID or name %q", arg)
	}
	return vs, nil
}

func init() {
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeCreateCmd)
	storeCmd.AddCommand(storeEnsureCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeFindCmd)
	storeCmd.AddCommand(storeExistsCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeFilenamesCmd)
	storeCmd.AddCommand(storeFileCmd)
}

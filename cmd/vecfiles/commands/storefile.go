package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

var storeFileCmd = &cobra.Command{
	Use:   "file",
	Short: "Files attached to a vector store",
}

var storeFileListCmd = &cobra.Command{
	Use:   "list <store>",
	Short: "List a vector store's file memberships",
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
		members, err := client.ListVectorStoreFiles(cmd.Context(), vs.ID)
		if err != nil {
			return err
		}
		return outputResult(membershipList(members))
	},
}

var storeFileAddCmd = &cobra.Command{
	Use:   "add <store> <file_id>",
	Short: "Attach a file to a vector store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		m, err := client.CreateVectorStoreFile(cmd.Context(), vs.ID, args[1])
		if err != nil {
			return fmt.Errorf("attach failed: %w", err)
		}
		cli.PrintSuccess("File %s attached to %s", m.FileID, vs.ID)
		return outputResult(m)
	},
}

var storeFileEnsureCmd = &cobra.Command{
	Use:   "ensure <store> <file_id>",
	Short: "Attach a file to a vector store unless it already is",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		m, created, err := client.EnsureVectorStoreFile(cmd.Context(), vs.ID, args[1])
		if err != nil {
			return fmt.Errorf("ensure membership failed: %w", err)
		}
		if created {
			cli.PrintSuccess("File %s attached to %s", m.FileID, vs.ID)
		}
		return outputResult(ensured[*vsclient.Membership]{Created: created, Resource: m})
	},
}

var storeFileGetCmd = &cobra.Command{
	Use:   "get <store> <membership_id>",
	Short: "Get one file membership",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		m, err := client.GetVectorStoreFile(cmd.Context(), vs.ID, args[1])
		if err != nil {
			return err
		}
		return outputResult(m)
	},
}

var storeFileRemoveCmd = &cobra.Command{
	Use:     "remove <store> <file_id>",
	Aliases: []string{"rm"},
	Short:   "Detach a file from a vector store",
	Long:    `Detach a file from a vector store. The file itself is not deleted.`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		vs, err := resolveStore(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		if err := client.DeleteVectorStoreFile(cmd.Context(), vs.ID, args[1]); err != nil {
			return fmt.Errorf("detach failed: %w", err)
		}
		cli.PrintSuccess("File %s detached from %s", args[1], vs.ID)
		return nil
	},
}

var storeFileResolveCmd = &cobra.Command{
	Use:   "resolve <membership_id>",
	Short: "Get the file behind a membership ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		file, err := client.GetFileFromVectorStoreFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(file)
	},
}

func init() {
	storeFileCmd.AddCommand(storeFileListCmd)
	storeFileCmd.AddCommand(storeFileAddCmd)
	storeFileCmd.AddCommand(storeFileEnsureCmd)
	storeFileCmd.AddCommand(storeFileGetCmd)
	storeFileCmd.AddCommand(storeFileRemoveCmd)
	storeFileCmd.AddCommand(storeFileResolveCmd)
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Uploaded files",
	Long: `Upload, look up, and delete files.

A file's name is the base name of the local path it was uploaded from. The
service does not keep names unique; lookups by name return the first match
in listing order unless the context sets tie_break: newest.

Supported purposes: user_data (default), assistants, batch, fine-tune,
vision, evals.`,
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded files",
	Long: `List every uploaded file.

Examples:
  vecfiles file list
  vecfiles file list --json -q '.[].filename'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		files, err := client.ListFiles(cmd.Context())
		if err != nil {
			return fmt.Errorf("list files failed: %w", err)
		}
		return outputResult(fileList(files))
	},
}

var fileUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file, even if one with the same name exists",
	Long: `Upload a local file unconditionally. Use "file ensure" to reuse an
existing file with the same name instead.

Examples:
  vecfiles file upload guide.pdf --purpose assistants`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, err := purposeFlag(mustString(cmd, "purpose"))
		if err != nil {
			return err
		}
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("cannot stat file: %w", err)
		}
		client, _, err := createClient()
		if err != nil {
			return err
		}
		printVerbose("File: %s (%s), purpose %s", args[0], cli.FormatBytes(info.Size()), purpose)

		file, err := client.CreateFile(cmd.Context(), args[0], purpose)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		cli.PrintSuccess("File uploaded: %s", file.ID)
		return outputResult(file)
	},
}

var fileEnsureCmd = &cobra.Command{
	Use:   "ensure <path>",
	Short: "Return the file with this name, uploading it if absent",
	Long: `Look up a file by the base name of <path> and upload <path> only if
no such file exists.

Examples:
  vecfiles file ensure docs/guide.pdf --purpose assistants`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, err := purposeFlag(mustString(cmd, "purpose"))
		if err != nil {
			return err
		}
		client, _, err := createClient()
		if err != nil {
			return err
		}
		file, created, err := client.EnsureFile(cmd.Context(), args[0], purpose)
		if err != nil {
			return fmt.Errorf("ensure file failed: %w", err)
		}
		if created {
			cli.PrintSuccess("File uploaded: %s", file.ID)
		}
		return outputResult(ensured[*vsclient.File]{Created: created, Resource: file})
	},
}

var fileGetCmd = &cobra.Command{
	Use:   "get <file_id>",
	Short: "Get a file by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		file, err := client.GetFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(file)
	},
}

var fileFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "List every file with this name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		files, err := client.FindFilesByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(fileList(files))
	},
}

var fileExistsCmd = &cobra.Command{
	Use:   "exists <name>",
	Short: "Report whether a file with this name exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		ok, err := client.FileExists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(exists{Name: args[0], Exists: ok})
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <file_id>",
	Short: "Delete a file by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := createClient()
		if err != nil {
			return err
		}
		if err := client.DeleteFile(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		cli.PrintSuccess("File %s deleted", args[0])
		return nil
	},
}

func init() {
	fileUploadCmd.Flags().String("purpose", "", "file purpose (default user_data)")
	fileEnsureCmd.Flags().String("purpose", "", "file purpose (default user_data)")

	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileUploadCmd)
	fileCmd.AddCommand(fileEnsureCmd)
	fileCmd.AddCommand(fileGetCmd)
	fileCmd.AddCommand(fileFindCmd)
	fileCmd.AddCommand(fileExistsCmd)
	fileCmd.AddCommand(fileDeleteCmd)
}

// mustString reads a string flag registered on cmd.
func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not registered on %s", name, cmd.Name()))
	}
	return v
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/fraza-api/internal/services/blobstore"
)

// storageCmd groups blob maintenance commands
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage stored audio",
	Long: `Maintenance commands for the audio container in Azure Blob Storage.

Audio for a script lives under "<userId>/script_<id>/".`,
}

var storageDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a single blob",
	Long: `Delete one blob by its full name. A missing blob is not an error.

Example:
  fraza-api storage delete anonymous/script_12/chunk_1_learning.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: runStorageDelete,
}

var storagePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every blob under a prefix",
	Long: `Delete every blob whose name starts with the given prefix and report
how many were deleted and how many failed.

Example:
  fraza-api storage purge --prefix anonymous/script_12/`,
	RunE: runStoragePurge,
}

func init() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageDeleteCmd)
	storageCmd.AddCommand(storagePurgeCmd)

	storagePurgeCmd.Flags().String("prefix", "", "blob name prefix to delete (required)")
	_ = storagePurgeCmd.MarkFlagRequired("prefix")
}

func runStorageDelete(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return deleteBlob(cmd.Context(), cmd.OutOrStdout(), newBlobStore(cfg, logger), args[0])
}

func runStoragePurge(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	prefix, _ := cmd.Flags().GetString("prefix")
	return purgeBlobs(cmd.Context(), cmd.OutOrStdout(), newBlobStore(cfg, logger), prefix)
}

func deleteBlob(ctx context.Context, out io.Writer, store blobstore.Store, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("blob name is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s\n", name)
	return nil
}

func purgeBlobs(ctx context.Context, out io.Writer, store blobstore.Store, prefix string) error {
	// An empty prefix would match the whole container
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Deleted %d blob(s) under %q, %d error(s)\n", result.DeletedCount, prefix, result.ErrorCount)
	if result.ErrorCount > 0 {
		return fmt.Errorf("%d blob(s) could not be deleted", result.ErrorCount)
	}
	return nil
}

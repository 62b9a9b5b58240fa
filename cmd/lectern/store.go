package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/home"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the document store container",
	Long: `Manage the document store container lifecycle.

The document store holds resources, generated artifacts, and usage counters.
It runs in a Docker container with data persisted to ~/.lectern/docstore/.

Examples:
  lectern store start   # Start the store container
  lectern store stop    # Stop the container (data preserved)
  lectern store status  # Check container status
  lectern store logs    # View container logs`,
}

func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

func getStoreManager(h *home.Dir) (*docstore.DockerManager, error) {
	return docstore.NewDockerManager(docstore.DockerConfig{
		DataPath: filepath.Join(h.Path(), "docstore"),
	})
}

var storeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document store container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := getStoreManager(h)
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting document store...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start document store: %w", err)
		}

		fmt.Printf("Document store is running at %s\n", mgr.URL())
		return nil
	},
}

var storeStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the document store container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := getStoreManager(h)
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping document store...")
		if err := mgr.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop document store: %w", err)
		}

		fmt.Println("Document store stopped")
		return nil
	},
}

var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show document store container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := getStoreManager(h)
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Container: %s\n", status)
		fmt.Printf("URL:       %s\n", mgr.URL())
		return nil
	},
}

var storeLogsTail string

var storeLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View document store container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := getStoreManager(h)
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(ctx, storeLogsTail)
		if err != nil {
			return err
		}

		fmt.Print(logs)
		return nil
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Stop and remove the document store container",
	Long: `Stop and remove the document store container.

Data persisted under ~/.lectern/docstore/ is preserved; only the
container itself is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := getStoreManager(h)
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.Remove(ctx); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Document store container removed")
		return nil
	},
}

func init() {
	storeLogsCmd.Flags().StringVar(&storeLogsTail, "tail", "100", "Number of log lines to show")

	storeCmd.AddCommand(storeStartCmd)
	storeCmd.AddCommand(storeStopCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeLogsCmd)
	storeCmd.AddCommand(storeRemoveCmd)
	rootCmd.AddCommand(storeCmd)
}

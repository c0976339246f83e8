package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"goimpute/client"

	"github.com/spf13/cobra"
)

func main() {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:   "goimpute-cli",
		Short: "Client for the CSV imputation service",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "Base URL of the imputation server")

	rootCmd.AddCommand(
		newRunCmd(&serverURL),
		newUploadCmd(&serverURL),
		newProcessCmd(&serverURL),
		newDownloadCmd(&serverURL),
		newCleanupCmd(&serverURL),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCmd drives the full upload → process → download → cleanup cycle
// through the session controller.
func newRunCmd(serverURL *string) *cobra.Command {
	var outDir string
	var keep bool

	cmd := &cobra.Command{
		Use:   "run [file.csv]",
		Short: "Upload, impute, download and clean up in one go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := client.NewConsoleView(cmd.OutOrStdout())
			controller := client.NewUploadController(client.NewClient(*serverURL), view)
			ctx := cmd.Context()

			if err := controller.UploadFile(ctx, args[0]); err != nil {
				return err
			}
			if err := controller.ProcessFile(ctx); err != nil {
				return err
			}
			if _, err := controller.DownloadProcessed(ctx, outDir); err != nil {
				return err
			}
			if keep {
				return nil
			}
			return controller.CleanupFiles(ctx)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the downloaded file")
	cmd.Flags().BoolVar(&keep, "keep", false, "Skip server-side cleanup after downloading")

	return cmd
}

func newUploadCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file.csv]",
		Short: "Upload a CSV and print its stored name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			api := client.NewClient(*serverURL)
			info, err := api.Upload(cmd.Context(), filepath.Base(path), file)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newProcessCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "process [stored-name]",
		Short: "Impute a previously uploaded file and show the preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.NewClient(*serverURL)
			resp, err := api.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed: %s\n", resp.ProcessedFilename)
			fmt.Fprintf(out, "Imputed %d values, missing rate %.2f%%\n",
				resp.Stats.TotalImputations, resp.Stats.MissingDataRate)
			fmt.Fprintln(out, client.RenderPreviewTable(resp.PreviewData, resp.ImputationFlags, resp.NumericColumns))
			return nil
		},
	}
}

func newDownloadCmd(serverURL *string) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download [processed-name]",
		Short: "Download a processed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.NewClient(*serverURL)
			content, name, err := api.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer content.Close()

			if name == "" {
				name = args[0]
			}
			target := filepath.Join(outDir, filepath.Base(name))
			f, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, content); err != nil {
				f.Close()
				os.Remove(target)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the downloaded file")

	return cmd
}

func newCleanupCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup [stored-name...]",
		Short: "Delete uploaded and processed files server-side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.NewClient(*serverURL)
			resp, err := api.Cleanup(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/services/importer"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRootCommand(open appOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operator CLI for the finance ledger",
		Long: `ledgerctl imports ledger spreadsheets and manages the import history
using the same database and content store as the API server.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newMigrateCmd(open),
		newImportCmd(open),
		newBatchesCmd(open),
		newShowCmd(open),
		newDeleteCmd(open),
	)
	return cmd
}

func newMigrateCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newImportCmd(open appOpener) *cobra.Command {
	var kind string
	var uploadedBy string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a spreadsheet (.xlsx or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			batch, err := a.service.Import(cmd.Context(), importer.Upload{
				OriginalName: filepath.Base(args[0]),
				Size:         info.Size(),
				Body:         f,
				Kind:         kind,
				UploadedBy:   uploadedBy,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d rows processed, %d failed (batch %s)\n",
				batch.OriginalName, batch.ProcessedRows, batch.FailedRows, batch.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Record kind: purchases, payroll or sales")
	cmd.Flags().StringVar(&uploadedBy, "uploaded-by", "", "Uploader recorded on the batch")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBatchesCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "List the import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			batches, err := a.service.ListBatches(cmd.Context())
			if err != nil {
				return err
			}
			return printBatches(cmd.OutOrStdout(), batches)
		},
	}
}

func newShowCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Print a batch and a sample of its records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch id %q", args[0])
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			detail, err := a.service.GetBatch(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		},
	}
}

func newDeleteCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <batch-id>",
		Short: "Delete a batch, its records and its stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch id %q", args[0])
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.service.DeleteBatch(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted batch %s\n", id)
			return nil
		},
	}
}

func printBatches(w io.Writer, batches []models.ImportBatch) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tTYPE\tSTATUS\tROWS\tFAILED\tCREATED")
	for _, b := range batches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			b.ID, b.OriginalName, b.RecordKind, b.Status, b.ProcessedRows, b.FailedRows,
			b.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

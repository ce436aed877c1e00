package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"steel-ledger/mtrledger/internal/services"

	"github.com/spf13/cobra"
)

type importOptions struct {
	delimiter string
	noHeader  bool
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Replace the inventory table with the rows of a ledger file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return withCode(exitValidation, fmt.Errorf("read %s: %w", args[0], err))
			}

			res, err := a.importService().Import(cmd.Context(), services.ImportRequest{
				Data:      data,
				Filename:  filepath.Base(args[0]),
				Delimiter: opts.delimiter,
				HasHeader: !opts.noHeader,
			})
			if err != nil {
				return classify(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s (batch %s)\n", res.ImportedCount, res.SourceFile, res.ImportBatchID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "CSV delimiter")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "Treat the first CSV row as data")
	return cmd
}

func newUpsertCmd(a *app) *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   "upsert <payload.json>",
		Short: "Create or replace MTR certificates from a JSON object (or array with --batch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return withCode(exitValidation, fmt.Errorf("read %s: %w", args[0], err))
			}

			svc := a.mtrService()
			out := cmd.OutOrStdout()

			if !batch {
				res, err := svc.UpsertRaw(cmd.Context(), body)
				if err != nil {
					return classify(err)
				}
				fmt.Fprintf(out, "%s id=%d\n", res.Operation, res.ID)
				return nil
			}

			res, err := svc.BatchUpsertRaw(cmd.Context(), body)
			if err != nil {
				return classify(err)
			}
			for _, item := range res.Items {
				if item.Error != "" {
					fmt.Fprintf(out, "#%d failed: %s\n", item.Index, item.Error)
					continue
				}
				fmt.Fprintf(out, "#%d %s id=%d\n", item.Index, item.Result.Operation, item.Result.ID)
			}
			fmt.Fprintf(out, "created=%d updated=%d failed=%d\n", res.Created, res.Updated, res.Failed)
			if res.Failed > 0 {
				return withCode(exitValidation, fmt.Errorf("%d of %d payloads failed validation", res.Failed, len(res.Items)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "Payload file holds a JSON array")
	return cmd
}

func newJoinedCmd(a *app) *cobra.Command {
	var (
		filter  services.JoinFilter
		asJSON  bool
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "joined",
		Short: "Print the inventory lines with their latest MTR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.joinService()
			out := cmd.OutOrStdout()

			if outFile != "" {
				data, err := services.NewExportService(svc).ExportJoinedXLSX(cmd.Context(), filter)
				if err != nil {
					return classify(err)
				}
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return withCode(exitFailure, err)
				}
				fmt.Fprintf(out, "wrote %s\n", outFile)
				return nil
			}

			rows, err := svc.Query(cmd.Context(), filter)
			if err != nil {
				return classify(err)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tHEAT\tITEM\tSTATUS\tMTR BATCH\tGRADE")
			for _, r := range rows {
				heat, item, batchNo, grade := "", "", "", ""
				if r.Inventory != nil {
					heat = deref(r.Inventory.HeatNumber)
					item = deref(r.Inventory.ItemNo)
				}
				if r.Mtr != nil {
					batchNo = r.Mtr.BatchNumber
					grade = deref(r.Mtr.Grade)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, heat, item, r.JoinStatus, batchNo, grade)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Status, "status", "", "Only rows with this join status (Matched | Missing MTR)")
	cmd.Flags().StringVar(&filter.HeatNumber, "heat", "", "Only rows for this heat number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write an .xlsx workbook instead of printing")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

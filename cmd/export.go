package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved panels to an Excel workbook",
	Long: `Write every saved panel to a new workbook with a single "QD" sheet,
using the same columns as the store.

Example:
  gopanel export -o quadros_de_carga.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List()
		if err != nil {
			return err
		}

		if dir := filepath.Dir(exportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		f, err := os.Create(exportFile)
		if err != nil {
			return err
		}
		if err := store.WriteXLSX(f, records); err != nil {
			f.Close()
			return fmt.Errorf("error exporting panels: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Printf("  Exported %d panel(s) to: %s\n", len(records), exportFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "quadros_de_carga.xlsx", "Output workbook")
}

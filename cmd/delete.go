package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [NAME]",
	Short: "Delete saved panels by description, or all of them",
	Long: `Delete every saved panel whose description matches NAME exactly.
With --all the table is cleared and only the header is kept.

Panel numbers are never reused after a deletion.

Examples:
  gopanel delete "QD-ILUM"
  gopanel delete --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteAll && len(args) == 0 {
			return errors.New("a panel name or --all is required")
		}
		if deleteAll && len(args) > 0 {
			return errors.New("use either a panel name or --all, not both")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if deleteAll {
			if err := st.Clear(); err != nil {
				return err
			}
			log.Info("panel table cleared")
			fmt.Println("  All panels deleted.")
			return nil
		}

		n, err := st.DeleteByName(args[0])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("no panel named %q", args[0])
		}
		log.Info("panels deleted", slog.String("name", args[0]), slog.Int("count", n))
		fmt.Printf("  Deleted %d panel(s) named %q.\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every saved panel")
}

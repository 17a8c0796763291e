package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Check a puzzle definition",
	Long: `Check a puzzle definition (JSON) against the rules the server applies.

Example:
  puzzlectl validate puzzle.json
  cat puzzle.json | puzzlectl validate -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		s, err := parseState(data)
		if err != nil {
			return err
		}
		if err := check(cmd, s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rows of %d words\n", s.Rows, s.CategorySize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

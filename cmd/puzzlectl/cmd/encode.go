package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/connections/internal/puzzle"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <file|->",
	Short: "Validate a puzzle definition and print its share token",
	Long: `Validate a puzzle definition and print the token the server would store.

Example:
  puzzlectl encode puzzle.json`,
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
		token, err := puzzle.Encode(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}

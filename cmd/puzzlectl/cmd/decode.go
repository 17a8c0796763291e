package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/connections/internal/puzzle"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Print the puzzle definition inside a share token",
	Long: `Decode a share token into an indented puzzle definition.

Example:
  puzzlectl decode eyJjYXRlZ29yaWVzIjpb...
  puzzlectl decode --check <token>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := puzzle.Decode(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		if verify, _ := cmd.Flags().GetBool("check"); verify {
			if err := check(cmd, s); err != nil {
				return err
			}
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	decodeCmd.Flags().Bool("check", false, "Validate the decoded puzzle")
	rootCmd.AddCommand(decodeCmd)
}

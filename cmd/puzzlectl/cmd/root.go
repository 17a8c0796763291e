package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/words"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "puzzlectl",
	Short: "Offline tools for shared connections puzzles",
	Long: `puzzlectl validates puzzle definitions and converts them to and from
the share tokens the server stores, without talking to the server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("strict", false, "Also reject duplicate and blocklisted words")
	rootCmd.PersistentFlags().String("blocklist", "", "Blocklist file for --strict (default: embedded list)")
}

// readInput reads a puzzle definition from a file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

// parseState decodes strict JSON into a GameState.
func parseState(data []byte) (puzzle.GameState, error) {
	var s puzzle.GameState
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return puzzle.GameState{}, fmt.Errorf("parse puzzle: %w", err)
	}
	return s, nil
}

// check runs Validate and, with --strict, the distinct and blocklist checks.
func check(cmd *cobra.Command, s puzzle.GameState) error {
	if err := puzzle.Validate(s); err != nil {
		return err
	}
	strict, _ := cmd.Flags().GetBool("strict")
	if !strict {
		return nil
	}
	if err := puzzle.CheckDistinct(s); err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("blocklist")
	bl, err := words.Load(path)
	if err != nil {
		return err
	}
	return puzzle.CheckBlocked(s, bl)
}

//go:build !(js || wasm)

package main

import (
	"log/slog"
	"os"

	"github.com/cottand/tsolve/cmd"
	"github.com/cottand/tsolve/internal/log"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsolve [subcommand]",
	Short: "tsolve infers the types of type variables from their subtyping constraints",
	Args:  cobra.MinimumNArgs(1),
	PersistentPreRun: func(*cobra.Command, []string) {
		log.SetLevel(slog.Level(*logLevel))
	},
	SilenceUsage: true,
}

var logLevel *int

func init() {
	logLevel = rootCmd.PersistentFlags().IntP("log-level", "l", int(slog.LevelError), "log level")

	rootCmd.AddCommand(cmd.SolveCmd)
	rootCmd.AddCommand(cmd.JoinCmd)
	rootCmd.AddCommand(cmd.MeetCmd)
	rootCmd.AddCommand(cmd.SubtypeCmd)
}

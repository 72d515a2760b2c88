package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cairoplug/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cairoplug",
	Short: "Contract macro plugin for the Cairo compiler",
	Long: `cairoplug rewrites #[custom::contract] modules into framework contracts.
It answers expansion requests from the host (serve) or expands items from files (expand).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to cairoplug.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace-level", "", "override [trace].level (off|error|call|item|debug)")
	rootCmd.PersistentFlags().String("trace-output", "", "override [trace].output (- for stderr)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main sets the version and runs the root command; any error exits with status 1.
func main() {
	rootCmd.Version = version.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

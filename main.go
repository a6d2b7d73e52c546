package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ddmoney420/moji/system"
)

var rootCmd = &cobra.Command{
	Use:   "mojiweb",
	Short: "mojiweb – render ANSI art as HTML",
	Long:  "mojiweb interprets SGR escape codes in text art and renders it as HTML, terminal output or PNG.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return system.SetLevel(level)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

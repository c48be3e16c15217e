package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wsp",
	Short: "WSP — Weekly Strategic Planner",
	Long:  "WSP is a multi-tenant weekly task planning service with per-company fiscal calendars, role-based board access, focus notes, and CSV week exports.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/wsp.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/aninkinaa/mentalwell1.0-api/cmd/http"
	systemcmd "github.com/aninkinaa/mentalwell1.0-api/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "mentalwell",
	Short: "MentalWell online mental health counseling platform API.",
	Long: `MentalWell connects patients with licensed psychologists for scheduled
and on-demand counseling sessions, and keeps session lifecycles in sync
with payments and wall-clock time.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}

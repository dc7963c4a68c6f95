// Command supaconf inspects and checks the Supabase connection configuration.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	debug      bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "supaconf",
		Short:        "Inspect and check Supabase connection settings",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a supaconf.yaml file")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging on stderr")

	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newEndpointsCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))

	return rootCmd
}

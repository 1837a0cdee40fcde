// Package config provides the configuration CLI commands: config show and doctor.
package config

import (
	"github.com/spf13/cobra"
)

// Register adds the configuration commands to the root command
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
}

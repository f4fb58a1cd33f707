package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "app-version",
	Short: "Print the name and version of the application on the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := s.ctx()
		defer cancel()
		name, err := s.app.AppName(ctx)
		if err != nil {
			return err
		}
		version, err := s.app.AppVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s", name, version)
		if version.Debug {
			fmt.Print(" (debug)")
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:   "app-name",
	Short: "Print the name of the application open on the device",
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
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nameCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

var addressShow bool

var addressCmd = &cobra.Command{
	Use:   "derive-address <path>",
	Short: "Derive the P2PK address at a derivation path on the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ergo.ParsePath(args[0])
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := s.ctx()
		defer cancel()
		addr, err := s.app.DeriveAddress(ctx, s.network, path, addressShow)
		if err != nil {
			return err
		}
		fmt.Println(addr)
		return nil
	},
}

func init() {
	addressCmd.Flags().BoolVar(&addressShow, "show", false, "display the address on the device for confirmation")
	rootCmd.AddCommand(addressCmd)
}

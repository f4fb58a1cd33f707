package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

var pubkeyCmd = &cobra.Command{
	Use:   "ext-pubkey <path>",
	Short: "Export the extended public key at a derivation path",
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
		key, err := s.app.GetExtendedPublicKey(ctx, path)
		if err != nil {
			return err
		}
		fmt.Printf("public key: %s\n", codec.HexEncode(key.PublicKey[:]))
		fmt.Printf("chain code: %s\n", codec.HexEncode(key.ChainCode[:]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pubkeyCmd)
}

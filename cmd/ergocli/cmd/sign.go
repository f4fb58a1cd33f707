package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anon-br/ergo-ledger-go/internal/app"
	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

var signPathFlag string

var signCmd = &cobra.Command{
	Use:   "sign <tx.json>",
	Short: "Attest the inputs of a transaction file and sign it on the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		job, err := loadSignJob(args[0])
		if err != nil {
			return err
		}

		path, err := s.signPath(signPathFlag)
		if err != nil {
			return err
		}

		ctx, cancel := s.ctx()
		defer cancel()

		tx := &ergo.UnsignedTransaction{
			DataInputs: job.dataInputs,
			Outputs:    job.outputs,
		}
		for i, box := range job.boxes {
			attested, err := s.app.AttestBox(ctx, box)
			if err != nil {
				return fmt.Errorf("attest input %d: %w", i, err)
			}
			attested.Extension = job.extensions[i]
			tx.Inputs = append(tx.Inputs, *attested)
		}

		sig, err := s.app.SignTransaction(ctx, app.SignTxRequest{
			Network:  s.network,
			SignPath: path,
			Tx:       tx,
			Change:   job.change,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec.HexEncode(sig))
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signPathFlag, "path", "", "derivation path for the signing key (defaults to the configured sign_path)")
	rootCmd.AddCommand(signCmd)
}

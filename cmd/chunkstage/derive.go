package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-chunkstage"
	"github.com/branched-services/go-chunkstage/aptosrest"
)

var (
	deriveDeployer string
	deriveSequence int64
	deriveStages   uint64
	deriveMultisig bool
)

var deriveAddressCmd = &cobra.Command{
	Use:   "derive-address",
	Short: "Print the object address an object deployment would publish to",
	Long: `Print the object address for a deployer publishing in --stages calls.

Without --sequence the deployer's current sequence number is read from the
node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deployer, err := chunkstage.ParseAddress(deriveDeployer)
		if err != nil {
			return fmt.Errorf("--deployer: %w", err)
		}
		if deriveStages == 0 {
			return errors.New("--stages must be at least 1")
		}

		var seq uint64
		if deriveSequence >= 0 {
			seq = uint64(deriveSequence)
		} else {
			nodeURL, err := cfg.ResolvedNodeURL()
			if err != nil {
				return err
			}
			client := aptosrest.New(nodeURL, aptosrest.WithLogger(logger))
			if seq, err = client.SequenceNumber(cmd.Context(), deployer); err != nil {
				return &chunkstage.LookupError{Address: deployer, Err: err}
			}
		}

		addr := chunkstage.ObjectCodeAddress(deployer, seq, deriveStages, deriveMultisig)
		fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
		return nil
	},
}

func init() {
	flags := deriveAddressCmd.Flags()
	flags.StringVar(&deriveDeployer, "deployer", "", "account submitting the payloads")
	flags.Int64Var(&deriveSequence, "sequence", -1, "deployer sequence number (default: read from the node)")
	flags.Uint64Var(&deriveStages, "stages", 1, "number of stage calls")
	flags.BoolVar(&deriveMultisig, "multisig", false, "payloads are submitted through a multisig account")
	_ = deriveAddressCmd.MarkFlagRequired("deployer")
}

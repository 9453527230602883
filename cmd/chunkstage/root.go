package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branched-services/go-chunkstage"
	"github.com/branched-services/go-chunkstage/internal/config"
	"github.com/branched-services/go-chunkstage/internal/logging"
)

// GlobalFlags are shared by every command. Unset flags fall back to
// CHUNKSTAGE_* environment variables, then to network defaults.
type GlobalFlags struct {
	Network        string
	NodeURL        string
	StagingAddress string
	ChunkSize      int
	RawSize        bool
	OutputDir      string
	Compiler       string
	Verbose        bool
}

var (
	globalFlags GlobalFlags
	cfg         *config.Config
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chunkstage",
	Short: "Stage large Move packages for chunked publishing",
	Long: `chunkstage compiles a Move package, splits its metadata and modules into
size-bounded calls to the large_packages staging contract, and writes one
JSON entry function payload per call.

Submit the payloads in order; the last one publishes the package.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(globalFlags.Verbose)

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.Network, "network", "", "network for default node and staging addresses: mainnet|testnet|devnet|local")
	flags.StringVar(&globalFlags.NodeURL, "node-url", "", "fullnode REST URL")
	flags.StringVar(&globalFlags.StagingAddress, "staging-address", "", "address of the large_packages contract")
	flags.IntVar(&globalFlags.ChunkSize, "chunk-size", chunkstage.DefaultChunkSize, "maximum payload size per stage call")
	flags.BoolVar(&globalFlags.RawSize, "raw-size", false, "measure raw bytes instead of hex digits against the chunk size")
	flags.StringVar(&globalFlags.OutputDir, "output-dir", "", "directory for payload files")
	flags.StringVar(&globalFlags.Compiler, "compiler", "", "Move compiler executable")
	flags.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(deriveAddressCmd)
}

// applyFlags overrides environment values with flags set on the command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("network") {
		c.Network = config.Network(globalFlags.Network)
	}
	if flags.Changed("node-url") {
		c.NodeURL = globalFlags.NodeURL
	}
	if flags.Changed("staging-address") {
		c.StagingAddress = globalFlags.StagingAddress
	}
	if flags.Changed("chunk-size") {
		c.ChunkSize = globalFlags.ChunkSize
	}
	if flags.Changed("output-dir") {
		c.OutputDir = globalFlags.OutputDir
	}
	if flags.Changed("compiler") {
		c.Compiler = globalFlags.Compiler
	}
}

// packOptions returns the packing options for the resolved configuration.
func packOptions(c *config.Config, raw bool) []chunkstage.PackOption {
	sizer := chunkstage.HexSize
	if raw {
		sizer = chunkstage.RawSize
	}
	return []chunkstage.PackOption{
		chunkstage.WithChunkSize(c.ChunkSize),
		chunkstage.WithSizer(sizer),
	}
}

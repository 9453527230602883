package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-chunkstage"
	"github.com/branched-services/go-chunkstage/aptosrest"
	"github.com/branched-services/go-chunkstage/movepkg"
)

var (
	publishPackageDir   string
	publishDeployer     string
	publishObject       string
	publishNamedAddress string
	publishMultisig     bool
	publishModuleOrder  []string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build a package and write its staged publishing payloads",
}

var publishAccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Publish the package under the deployer's account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, chunkstage.TargetAccount)
	},
}

var publishObjectCmd = &cobra.Command{
	Use:   "object",
	Short: "Publish the package to a new object",
	Long: `Publish the package to a new object owned by the deployer.

The object address depends on the deployer's sequence number when the last
payload executes, so the payloads must be submitted in order with no other
transactions from the deployer in between.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, chunkstage.TargetObjectCreate)
	},
}

var publishUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the package held by an existing object",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, chunkstage.TargetObjectUpgrade)
	},
}

func init() {
	flags := publishCmd.PersistentFlags()
	flags.StringVar(&publishPackageDir, "package-dir", ".", "Move package directory")
	flags.StringVar(&publishDeployer, "deployer", "", "account submitting the payloads")
	flags.StringVar(&publishNamedAddress, "named-address", "", "named address bound to the publish address (default: the manifest's unassigned address)")
	flags.StringSliceVar(&publishModuleOrder, "module-order", nil, "module names in publishing order (default: the package metadata order)")
	_ = publishCmd.MarkPersistentFlagRequired("deployer")

	publishObjectCmd.Flags().BoolVar(&publishMultisig, "multisig", false, "payloads are submitted through a multisig account")
	publishUpgradeCmd.Flags().StringVar(&publishObject, "object-address", "", "object holding the package")
	_ = publishUpgradeCmd.MarkFlagRequired("object-address")

	publishCmd.AddCommand(publishAccountCmd)
	publishCmd.AddCommand(publishObjectCmd)
	publishCmd.AddCommand(publishUpgradeCmd)
}

// newIntent resolves the deployment target from command line values.
func newIntent(kind chunkstage.TargetKind, staging chunkstage.Address, object string) (chunkstage.Intent, error) {
	switch kind {
	case chunkstage.TargetAccount:
		return chunkstage.AccountIntent(staging), nil
	case chunkstage.TargetObjectCreate:
		return chunkstage.ObjectIntent(staging), nil
	case chunkstage.TargetObjectUpgrade:
		if object == "" {
			return chunkstage.Intent{}, chunkstage.ErrMissingObjectAddress
		}
		addr, err := chunkstage.ParseAddress(object)
		if err != nil {
			return chunkstage.Intent{}, fmt.Errorf("--object-address: %w", err)
		}
		in := chunkstage.UpgradeIntent(staging, addr)
		return in, in.Validate()
	default:
		return chunkstage.Intent{}, fmt.Errorf("%w: %v", chunkstage.ErrUnknownTarget, kind)
	}
}

func runPublish(cmd *cobra.Command, kind chunkstage.TargetKind) error {
	staging, err := cfg.ResolvedStaging()
	if err != nil {
		return err
	}
	intent, err := newIntent(kind, staging, publishObject)
	if err != nil {
		return err
	}
	deployer, err := chunkstage.ParseAddress(publishDeployer)
	if err != nil {
		return fmt.Errorf("--deployer: %w", err)
	}

	builder, manifest, err := movepkg.NewCompilerBuilder(publishPackageDir, logger)
	if err != nil {
		return err
	}
	builder.Compiler = cfg.Compiler
	builder.Order = publishModuleOrder

	named := publishNamedAddress
	if named == "" {
		if named, err = manifest.PackageAddressName(); err != nil {
			return fmt.Errorf("%w (set --named-address)", err)
		}
	}

	opts := []chunkstage.PreparerOption{
		chunkstage.WithLogger(logger),
		chunkstage.WithNamedAddress(named),
		chunkstage.WithMultisig(publishMultisig),
		chunkstage.WithPackOptions(packOptions(cfg, globalFlags.RawSize)...),
	}
	if kind == chunkstage.TargetObjectCreate {
		nodeURL, err := cfg.ResolvedNodeURL()
		if err != nil {
			return err
		}
		opts = append(opts, chunkstage.WithSequenceSource(aptosrest.New(nodeURL, aptosrest.WithLogger(logger))))
	}

	deployment, err := chunkstage.NewPreparer(builder, intent, deployer, opts...).Prepare(cmd.Context())
	if err != nil {
		return err
	}

	emitted, err := chunkstage.NewEmitter(cfg.OutputDir, manifest.Package.Name).Emit(deployment)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range emitted.Files {
		fmt.Fprintf(out, "%s  %s\n", f.Path, f.Function.Function)
	}
	if deployment.ObjectAddress != nil {
		fmt.Fprintf(out, "object address: %s\n", deployment.ObjectAddress.Hex())
	}
	return nil
}

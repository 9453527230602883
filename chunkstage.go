// Package chunkstage prepares chunked publishing of Move packages that are
// too large for a single transaction.
//
// The staging contract (large_packages) accumulates metadata and module
// bytecode across several transactions and publishes the package on the
// last one. This library splits compiled artifacts into those transactions:
//   - Pack metadata and modules into size-bounded stage calls
//   - Pick the terminal entry function for the deployment target
//   - Derive the object address for object deployments
//
// # Basic Usage
//
// Pack a compiled bundle for publishing under the deployer's account:
//
//	bundle, err := chunkstage.NewBundle(metadata, modules)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	staging := chunkstage.MustParseAddress("0x7")
//	plan, err := chunkstage.NewPacker(chunkstage.AccountIntent(staging)).Pack(bundle)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, call := range plan.Calls {
//	    payload, _ := call.MarshalJSON()
//	    // submit payload in order
//	}
//
// # Deployment Targets
//
//   - Account: the terminal call is stage_code_chunk_and_publish_to_account.
//
//   - Object: the terminal call is stage_code_chunk_and_publish_to_object.
//     The object address depends on the deployer's sequence number and on how
//     many calls precede publishing, so the package is built twice (see
//     Preparer).
//
//   - Upgrade: the terminal call is stage_code_chunk_and_upgrade_object_code
//     and carries the existing object's address as a fourth argument.
//
// # Packing
//
// Modules keep their original order; their index in the bundle is sent
// alongside the bytecode so the contract can reassemble them. The metadata
// is sent once, with the first call. A batch is closed when the next module
// would push it over the chunk size; a module larger than the chunk size is
// sent alone rather than rejected.
//
// # References
//
//   - https://github.com/aptos-labs/aptos-core (large_packages, object_code_deployment)
package chunkstage

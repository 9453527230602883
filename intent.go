package chunkstage

// Intent is the deployment configuration fixed for one run.
type Intent struct {
	Kind    TargetKind
	Staging Address // address the staging contract is published at
	Object  Address // existing object, TargetObjectUpgrade only
}

// AccountIntent publishes to the deployer's account.
func AccountIntent(staging Address) Intent {
	return Intent{Kind: TargetAccount, Staging: staging}
}

// ObjectIntent publishes into a new object.
func ObjectIntent(staging Address) Intent {
	return Intent{Kind: TargetObjectCreate, Staging: staging}
}

// UpgradeIntent upgrades the package held by object.
func UpgradeIntent(staging, object Address) Intent {
	return Intent{Kind: TargetObjectUpgrade, Staging: staging, Object: object}
}

// Validate checks the intent is complete for its kind.
func (in Intent) Validate() error {
	if _, err := ResolveEntry(true, in.Kind); err != nil {
		return err
	}
	if in.Staging.IsZero() {
		return ErrMissingStagingAddress
	}
	if in.Kind == TargetObjectUpgrade && in.Object.IsZero() {
		return ErrMissingObjectAddress
	}
	return nil
}

// Contract returns the staging contract the intent targets.
func (in Intent) Contract() *StagingContract {
	return NewStagingContract(in.Staging)
}

package chunkstage

import "golang.org/x/crypto/sha3"

// Object address derivation constants. These must match the target chain's
// framework exactly; a mismatch yields a wrong address with no local error.
const (
	// ObjectCodeDeploymentDomain separates code deployment seeds from other
	// object seeds.
	ObjectCodeDeploymentDomain = "aptos_framework::object_code_deployment"

	// ObjectFromSeedScheme is appended to the preimage of seed-derived object
	// addresses.
	ObjectFromSeedScheme byte = 0xFE
)

// SeedSequence returns the sequence number the publishing transaction will
// observe.
//
// A multisig deployment executes under a single sequence number, so the
// seed uses seq+1 regardless of stageCount. A single signer submits every
// stage call as its own transaction, so the publishing call runs after
// stageCount-1 staging calls and observes seq+stageCount.
func SeedSequence(seq, stageCount uint64, multisig bool) uint64 {
	if multisig {
		return seq + 1
	}
	return seq + stageCount
}

// ObjectSeed builds the object deployment seed for a sequence number:
// BCS(domain as vector<u8>) followed by BCS(u64).
func ObjectSeed(sequence uint64) []byte {
	return NewBCSEncoder().
		WriteBytes([]byte(ObjectCodeDeploymentDomain)).
		WriteU64(sequence).
		Bytes()
}

// DeriveObjectAddress computes the address of the object created by creator
// from seed: sha3-256(creator || seed || ObjectFromSeedScheme).
func DeriveObjectAddress(creator Address, seed []byte) Address {
	h := sha3.New256()
	h.Write(creator[:])
	h.Write(seed)
	h.Write([]byte{ObjectFromSeedScheme})

	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}

// ObjectCodeAddress derives the address a new code object will be created
// at, given the deployer's current sequence number and the stage count.
func ObjectCodeAddress(creator Address, seq, stageCount uint64, multisig bool) Address {
	return DeriveObjectAddress(creator, ObjectSeed(SeedSequence(seq, stageCount, multisig)))
}

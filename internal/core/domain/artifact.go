package domain

// ArtifactHandle is the opaque identity of a generated or imported artifact.
type ArtifactHandle string

// Artifact is the product of a generation back-end for one composition context.
// The engine never looks inside an artifact; it only keys, caches and hands it back.
type Artifact interface {
	Handle() ArtifactHandle
}

// auxiliaryPrefix cannot start a ContextKey built from a parsed TypeRef.
const auxiliaryPrefix = "<aux>"

// AuxiliaryKey returns the cache key under which the secondary artifact of a
// mixin type is registered. Secondary artifacts are shared by every context
// that applies the mixin.
func AuxiliaryKey(mixin TypeRef) ContextKey {
	return ContextKey(auxiliaryPrefix + mixin.String())
}

// IsAuxiliary reports whether k was produced by AuxiliaryKey.
func (k ContextKey) IsAuxiliary() bool {
	return len(k) >= len(auxiliaryPrefix) && string(k[:len(auxiliaryPrefix)]) == auxiliaryPrefix
}

// ExportedArtifact pairs an artifact generated in a workspace with the metadata
// needed to reconstruct its composition.
type ExportedArtifact struct {
	Artifact Artifact
	Record   MetadataRecord
}

// StoredArtifact is the persisted form of an exported artifact: its handle, the
// digest of its composition and the record needed to rebuild it.
type StoredArtifact struct {
	Handle ArtifactHandle `json:"handle"`
	Digest string         `json:"digest"`
	Record MetadataRecord `json:"record"`
}

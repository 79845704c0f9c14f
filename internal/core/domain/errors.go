package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateMixin is returned when the same mixin, or another member of its family,
	// is declared twice for one target.
	ErrDuplicateMixin = zerr.New("duplicate mixin declaration")

	// ErrCircularDependency is returned when explicit mixin dependencies form a cycle.
	ErrCircularDependency = zerr.New("circular mixin dependency")

	// ErrNonComposableTarget is returned by a generation back-end when the target cannot be composed.
	ErrNonComposableTarget = zerr.New("target type is not composable")

	// ErrInternalConsistency is returned when the resolver detects re-entrant resolution or a corrupted memo.
	ErrInternalConsistency = zerr.New("internal consistency violation")

	// ErrInvalidTypeRef is returned when a type identity cannot be parsed.
	ErrInvalidTypeRef = zerr.New("invalid type identity")

	// ErrUnknownMixinKind is returned when a mixin kind tag is not recognised.
	ErrUnknownMixinKind = zerr.New("unknown mixin kind")

	// ErrUnknownMatchMode is returned when a suppression match mode is not recognised.
	ErrUnknownMatchMode = zerr.New("unknown match mode")

	// ErrUnknownType is returned when a type is referenced that the configuration does not describe.
	ErrUnknownType = zerr.New("unknown type")

	// ErrInvalidMetadataRecord is returned when a composition metadata record cannot be reconstructed.
	ErrInvalidMetadataRecord = zerr.New("invalid composition metadata record")

	// ErrNoTargetsSpecified is returned when a command needs at least one target type.
	ErrNoTargetsSpecified = zerr.New("no target types specified")

	// ErrConfigNotFound is returned when no weave.yaml exists in the directory or its parents.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the config file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrStoreCreateFailed is returned when the artifact store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create artifact store directory")

	// ErrStoreReadFailed is returned when exported artifacts cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read exported artifacts")

	// ErrStoreUnmarshalFailed is returned when exported artifacts cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal exported artifacts")

	// ErrStoreMarshalFailed is returned when exported artifacts cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal exported artifacts")

	// ErrStoreWriteFailed is returned when exported artifacts cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write exported artifacts")

	// ErrMemberNotImplemented is returned when a dispatch chain reaches a member with no implementation.
	ErrMemberNotImplemented = zerr.New("member has no implementation")

	// ErrArtifactMismatch is returned when an imported artifact does not belong to its record.
	ErrArtifactMismatch = zerr.New("artifact does not match metadata record")
)

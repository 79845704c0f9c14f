package domain

const (
	// RecordVersion is the only metadata record layout understood by this build.
	RecordVersion = 1

	// RecordSeparator terminates each block of the flattened dependency list.
	// It cannot collide with a type identity because '<' and '>' are rejected by ParseTypeRef.
	RecordSeparator = "<end>"
)

// MetadataRecord is the persisted, self-contained form of a CompositionContext,
// attached to every generated artifact so the composition can be reconstructed
// without the configuration that produced it.
//
// Kinds and Mixins are parallel. Dependencies is a flattened list of blocks, one
// per mixin that has dependencies: the mixin, its dependencies, then RecordSeparator.
type MetadataRecord struct {
	Version            int      `json:"version" yaml:"version"`
	Target             string   `json:"target" yaml:"target"`
	Kinds              []string `json:"kinds" yaml:"kinds"`
	Mixins             []string `json:"mixins" yaml:"mixins"`
	CompleteInterfaces []string `json:"complete_interfaces" yaml:"complete_interfaces"`
	Dependencies       []string `json:"dependencies" yaml:"dependencies"`
}

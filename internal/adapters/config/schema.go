package config

import (
	"gopkg.in/yaml.v3"
)

// Weavefile represents the structure of the weave.yaml configuration file.
type Weavefile struct {
	Version string               `yaml:"version"`
	Types   map[string]TypeDTO   `yaml:"types"`
	Targets map[string]TargetDTO `yaml:"targets"`
}

// TypeDTO describes one type of the catalog.
type TypeDTO struct {
	Extends   []string `yaml:"extends"`
	Members   []string `yaml:"members"`
	Abstract  []string `yaml:"abstract"`
	Overrides []string `yaml:"overrides"`
	Sealed    bool     `yaml:"sealed"`
}

// TargetDTO declares the mixins of one target type.
type TargetDTO struct {
	Mixins              []MixinDTO    `yaml:"mixins"`
	Suppress            []SuppressDTO `yaml:"suppress"`
	CompleteInterfaces  []string      `yaml:"completeInterfaces"`
	SuppressInheritance bool          `yaml:"suppressInheritance"`
}

// MixinDTO declares one mixin. A plain scalar is shorthand for {type: <scalar>}.
type MixinDTO struct {
	Type      string   `yaml:"type"`
	Kind      string   `yaml:"kind"`
	DependsOn []string `yaml:"dependsOn"`
}

// UnmarshalYAML accepts both the scalar shorthand and the mapping form.
func (m *MixinDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Type = node.Value
		return nil
	}
	type plain MixinDTO
	return node.Decode((*plain)(m))
}

// SuppressDTO excludes mixins from a target.
type SuppressDTO struct {
	Type  string `yaml:"type"`
	Match string `yaml:"match"`
}

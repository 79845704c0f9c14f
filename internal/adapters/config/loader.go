// Package config provides the configuration loader for weave.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration version understood by this loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverConfigPath walks up from cwd and returns the nearest weave.yaml.
func (l *Loader) DiscoverConfigPath(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no "+domain.ConfigFileName+" in any parent directory"), "cwd", cwd)
}

// Load reads the configuration file at configPath and returns a fresh snapshot.
func (l *Loader) Load(configPath string) (*domain.Configuration, error) {
	var weavefile Weavefile
	if err := readAndUnmarshalYAML(configPath, &weavefile); err != nil {
		return nil, err
	}

	if weavefile.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, "cannot load configuration"), "version", weavefile.Version)
	}

	cfg := domain.NewConfiguration()
	cfg.Source = configPath

	for _, name := range slices.Sorted(maps.Keys(weavefile.Types)) {
		info, err := buildTypeInfo(name, weavefile.Types[name])
		if err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		cfg.Types[info.Type] = info
	}

	for _, name := range slices.Sorted(maps.Keys(weavefile.Targets)) {
		decl, err := buildDeclaration(name, weavefile.Targets[name])
		if err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		cfg.Declarations[decl.Target] = decl
	}

	l.warnUnknownReferences(cfg)
	return cfg, nil
}

func buildTypeInfo(name string, dto TypeDTO) (domain.TypeInfo, error) {
	t, err := domain.ParseTypeRef(name)
	if err != nil {
		return domain.TypeInfo{}, err
	}

	supertypes, err := domain.ParseTypeRefs(dto.Extends)
	if err != nil {
		return domain.TypeInfo{}, zerr.With(err, "type", name)
	}

	return domain.TypeInfo{
		Type:       t,
		Supertypes: supertypes,
		Members:    dto.Members,
		Abstract:   dto.Abstract,
		Overrides:  dto.Overrides,
		Sealed:     dto.Sealed,
	}, nil
}

func buildDeclaration(name string, dto TargetDTO) (domain.Declaration, error) {
	target, err := domain.ParseTypeRef(name)
	if err != nil {
		return domain.Declaration{}, err
	}

	decl := domain.Declaration{
		Target:              target,
		Mixins:              make([]domain.MixinDescriptor, 0, len(dto.Mixins)),
		SuppressInheritance: dto.SuppressInheritance,
	}

	for _, m := range dto.Mixins {
		mixin, err := domain.ParseTypeRef(m.Type)
		if err != nil {
			return domain.Declaration{}, zerr.With(err, "target", name)
		}
		kind, err := domain.ParseMixinKind(m.Kind)
		if err != nil {
			return domain.Declaration{}, zerr.With(zerr.With(err, "target", name), "mixin", m.Type)
		}
		deps, err := domain.ParseTypeRefs(m.DependsOn)
		if err != nil {
			return domain.Declaration{}, zerr.With(zerr.With(err, "target", name), "mixin", m.Type)
		}
		decl.Mixins = append(decl.Mixins, domain.MixinDescriptor{Type: mixin, Kind: kind, Dependencies: deps})
	}

	for _, s := range dto.Suppress {
		t, err := domain.ParseTypeRef(s.Type)
		if err != nil {
			return domain.Declaration{}, zerr.With(err, "target", name)
		}
		mode, err := domain.ParseMatchMode(s.Match)
		if err != nil {
			return domain.Declaration{}, zerr.With(err, "target", name)
		}
		decl.Suppressions = append(decl.Suppressions, domain.Suppression{Type: t, Mode: mode})
	}

	decl.CompleteInterfaces, err = domain.ParseTypeRefs(dto.CompleteInterfaces)
	if err != nil {
		return domain.Declaration{}, zerr.With(err, "target", name)
	}

	return decl, nil
}

// warnUnknownReferences reports supertypes and mixins the catalog does not describe.
func (l *Loader) warnUnknownReferences(cfg *domain.Configuration) {
	if l.Logger == nil {
		return
	}
	for _, t := range cfg.Targets() {
		for _, m := range cfg.Declarations[t].Mixins {
			if _, ok := cfg.Types[m.Type]; !ok {
				if _, ok := cfg.Types[m.Type.Family()]; !ok {
					l.Logger.Warn(fmt.Sprintf("mixin %s of %s is not described in types", m.Type, t))
				}
			}
		}
	}
	for _, t := range slices.SortedFunc(maps.Keys(cfg.Types), compareRefs) {
		for _, s := range cfg.Types[t].Supertypes {
			if !cfg.Knows(s) {
				l.Logger.Warn(fmt.Sprintf("supertype %s of %s is not described in types", s, t))
			}
		}
	}
}

func compareRefs(a, b domain.TypeRef) int {
	return strings.Compare(a.String(), b.String())
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error()), "path", configPath)
	}

	return nil
}

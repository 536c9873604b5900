package modset

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modstack/pkg/deps"
	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/semver"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor returns the manifest format implied by a file name.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported manifest file %q (want .toml, .yaml or .yml)", name)
}

// Manifest is the on-disk description of a game's installed mods.
type Manifest struct {
	Game string        `toml:"game" yaml:"game"`
	Mods []ManifestMod `toml:"mods" yaml:"mods"`
}

// ManifestMod describes one installed mod.
type ManifestMod struct {
	ID           string        `toml:"id" yaml:"id"`
	Kind         string        `toml:"kind" yaml:"kind"`
	Name         string        `toml:"name" yaml:"name"`
	Version      string        `toml:"version" yaml:"version"`
	Layout       string        `toml:"layout" yaml:"layout"`
	Dependencies []ManifestRef `toml:"dependencies" yaml:"dependencies"`
}

// ManifestRef is a declared dependency of a manifest mod.
type ManifestRef struct {
	ID    string `toml:"id" yaml:"id"`
	Kind  string `toml:"kind" yaml:"kind"`
	Range string `toml:"range" yaml:"range"`
}

// Load reads the manifest at path and builds its mod set. The format is
// chosen by file extension.
func Load(path string) (*Set, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read manifest %s", path)
	}
	return Parse(data, format)
}

// Parse decodes a manifest and builds its mod set.
func Parse(data []byte, format Format) (*Set, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse toml manifest")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse yaml manifest")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	return m.Build()
}

// Build validates the manifest and converts it into a mod set.
func (m *Manifest) Build() (*Set, error) {
	if strings.TrimSpace(m.Game) == "" {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "manifest has no game")
	}
	set, err := New(m.Game)
	if err != nil {
		return nil, err
	}
	for i, mm := range m.Mods {
		mod, err := mm.build()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "mods[%d]", i)
		}
		if err := set.Add(mod); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (mm ManifestMod) build() (*deps.Mod, error) {
	kind, err := deps.ParseKind(mm.Kind)
	if err != nil {
		return nil, err
	}
	if err := validateID(mm.ID, kind); err != nil {
		return nil, err
	}
	version, err := semver.ParseVersion(mm.Version)
	if err != nil {
		return nil, err
	}

	info := deps.ModInfo{
		ID:      NormalizeID(mm.ID, kind),
		Kind:    kind,
		Name:    mm.Name,
		Version: version,
	}

	if len(mm.Dependencies) > 0 || mm.Layout != "" {
		layout, err := deps.ParseLayout(mm.Layout)
		if err != nil {
			return nil, err
		}
		refs := make([]deps.Reference, 0, len(mm.Dependencies))
		for j, r := range mm.Dependencies {
			ref, err := r.build()
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "dependencies[%d]", j)
			}
			refs = append(refs, ref)
		}
		info.Declared = deps.NewDeclaration(layout, refs...)
	}
	return deps.NewMod(info), nil
}

// build keeps the identifier as written; the resolver normalizes it before
// lookup.
func (r ManifestRef) build() (deps.Reference, error) {
	kind, err := deps.ParseKind(r.Kind)
	if err != nil {
		return deps.Reference{}, err
	}
	if err := validateID(r.ID, kind); err != nil {
		return deps.Reference{}, err
	}
	rng, err := semver.ParseConstraint(r.Range)
	if err != nil {
		return deps.Reference{}, err
	}
	return deps.Reference{ID: r.ID, Kind: kind, Range: rng}, nil
}

func validateID(id string, kind deps.Kind) error {
	if kind == deps.KindWorkshops {
		return errs.ValidateWorkshopID(id)
	}
	return errs.ValidateModID(id)
}

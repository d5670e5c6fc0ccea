// Package manifest parses the optional lox.yaml project manifest: a small
// struct decoded with gopkg.in/yaml.v3, KnownFields enabled so a typo'd
// key is a load error rather than silently ignored, and validation
// errors aggregated instead of failing on the first one.
package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Manifest describes a Lox project: its entry script and any native
// functions it asks to disable, plus a minimum-interpreter-version
// constraint checked against the running binary at startup.
type Manifest struct {
	Entry        string
	Requires     string
	NativeToggle map[string]bool

	Path string
}

type manifestFile struct {
	Entry    string          `yaml:"entry"`
	Requires string          `yaml:"requires"`
	Natives  map[string]bool `yaml:"natives"`
}

// ValidationError aggregates every manifest field problem found, so a
// user fixes all of them in one pass instead of one-at-a-time.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var raw manifestFile
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	m := &Manifest{
		Path:         path,
		Entry:        strings.TrimSpace(raw.Entry),
		Requires:     strings.TrimSpace(raw.Requires),
		NativeToggle: raw.Natives,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires: invalid version constraint %q: %v", m.Requires, err))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// CheckVersion reports an error if the manifest's requires constraint
// rejects the running interpreter's version. A manifest with no requires
// field always passes.
func (m *Manifest) CheckVersion(runningVersion string) error {
	if m.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("manifest: invalid version constraint %q: %w", m.Requires, err)
	}
	v, err := semver.NewVersion(runningVersion)
	if err != nil {
		return fmt.Errorf("manifest: cannot parse interpreter version %q: %w", runningVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("manifest requires interpreter version %s, running %s", m.Requires, runningVersion)
	}
	return nil
}

// NativeEnabled reports whether a native function name is enabled.
// Absent from the manifest's natives map means enabled; explicitly false
// disables it. clock can never be disabled.
func (m *Manifest) NativeEnabled(name string) bool {
	if name == "clock" {
		return true
	}
	if m == nil || m.NativeToggle == nil {
		return true
	}
	enabled, ok := m.NativeToggle[name]
	if !ok {
		return true
	}
	return enabled
}

// Package manifest writes the metadata files that describe a generated
// skill: the provenance manifest and the two static descriptors.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/provenance"
	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/jingkaihe/skillport/pkg/walk"
	"github.com/pkg/errors"
)

// FileName is the manifest written at the skill root.
const FileName = "upstream.json"

// Manifest records where a skill was generated from and what it contains.
type Manifest struct {
	SourceRepo     string `json:"source_repo" jsonschema:"description=Normalized HTTPS URL of the source repository or local-repo"`
	SourceRef      string `json:"source_ref" jsonschema:"description=Default or current branch of the source repository"`
	SourceCommit   string `json:"source_commit" jsonschema:"description=Commit hash of the source tree or local-repo"`
	GeneratedSkill string `json:"generated_skill" jsonschema:"description=Name of the generated skill"`
	Counts         Counts `json:"counts" jsonschema:"description=Number of documents per category"`
}

// Count is the number of files found for one category.
type Count struct {
	Name  string
	Files int
}

// Counts keeps category counts in category order. It encodes as a JSON
// object whose keys follow slice order.
type Counts []Count

// Get returns the count for name, or zero.
func (c Counts) Get(name string) int {
	for _, n := range c {
		if n.Name == name {
			return n.Files
		}
	}
	return 0
}

// MarshalJSON implements json.Marshaler.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(n.Files)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("counts must be a JSON object")
	}

	var out Counts
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var files int
		if err := dec.Decode(&files); err != nil {
			return errors.Wrapf(err, "invalid count for %s", name)
		}
		out = append(out, Count{Name: name, Files: files})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

// JSONSchema describes Counts as an object of integers.
func (Counts) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: &jsonschema.Schema{Type: "integer", Minimum: json.Number("0")},
	}
}

// CountFiles walks each category's destination subtree and counts the files
// accepted by its count filter. It reads what is on disk, not what the copy
// phase reported.
func CountFiles(skillRoot string, categories []scaffold.Category, docExt string) (Counts, error) {
	counts := make(Counts, 0, len(categories))
	for _, cat := range categories {
		n, err := walk.Count(cat.DestDir(skillRoot), cat.CountFilter(docExt))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to count %s", cat.Name)
		}
		counts = append(counts, Count{Name: cat.Name, Files: n})
	}
	return counts, nil
}

// New assembles a manifest from provenance and counts.
func New(skill string, info provenance.Info, counts Counts) *Manifest {
	return &Manifest{
		SourceRepo:     info.Repo,
		SourceRef:      info.Ref,
		SourceCommit:   info.Commit,
		GeneratedSkill: skill,
		Counts:         counts,
	}
}

// Encode renders the manifest as indented JSON with a trailing newline.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode manifest")
	}
	return append(data, '\n'), nil
}

// Write encodes m to <skillRoot>/upstream.json.
func Write(ctx context.Context, skillRoot string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	path := filepath.Join(skillRoot, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	logger.G(ctx).WithField("path", path).WithField("repo", m.SourceRepo).Debug("wrote manifest")
	return nil
}

// Read loads a manifest previously written by Write.
func Read(skillRoot string) (*Manifest, error) {
	path := filepath.Join(skillRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &m, nil
}

// Schema returns the JSON Schema of the manifest file.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&Manifest{})
}

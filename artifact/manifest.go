package artifact

import "encoding/hex"
import "os"
import "sort"
import "time"

import "github.com/google/uuid"
import "golang.org/x/crypto/blake2b"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/surrogate/config"
import "github.com/neurlang/surrogate/errs"

// Manifest describes one training run and pins the content of every file
// in the store.
type Manifest struct {
	RunID   string            `yaml:"run_id"`
	Created time.Time         `yaml:"created"`
	Config  *config.Config    `yaml:"config,omitempty"`
	Samples string            `yaml:"samples,omitempty"` // fingerprint of the generated population
	Blobs   map[string]string `yaml:"blobs"`             // file name -> BLAKE2b-256 hex digest
}

// Names returns the blob file names in sorted order.
func (m *Manifest) Names() (o []string) {
	for name := range m.Blobs {
		o = append(o, name)
	}
	sort.Strings(o)
	return
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *Store) digest(name string) (string, error) {
	data, err := s.read("artifact.Digest", name)
	if err != nil {
		return "", err
	}
	return Digest(data), nil
}

// Seal digests every regular file in the store and writes the manifest.
// samples is the population fingerprint, empty when unknown.
func (s *Store) Seal(cfg *config.Config, samples string) (*Manifest, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errs.IO("artifact.Seal", s.Dir, err)
	}
	m := &Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC().Truncate(time.Second),
		Config:  cfg,
		Samples: samples,
		Blobs:   make(map[string]string),
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == ManifestFile {
			continue
		}
		if m.Blobs[e.Name()], err = s.digest(e.Name()); err != nil {
			return nil, err
		}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errs.Corrupt("artifact.Seal", s.path(ManifestFile), "%v", err)
	}
	if err := s.write("artifact.Seal", ManifestFile, data); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadManifest reads the manifest written by Seal.
func (s *Store) ReadManifest() (*Manifest, error) {
	data, err := s.read("artifact.ReadManifest", ManifestFile)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errs.Corrupt("artifact.ReadManifest", s.path(ManifestFile), "%v", err)
	}
	return &m, nil
}

// Verify recomputes the digest of every file listed in the manifest. A
// missing or modified file is reported as an IO error naming its path.
func (s *Store) Verify() error {
	m, err := s.ReadManifest()
	if err != nil {
		return err
	}
	for _, name := range m.Names() {
		got, err := s.digest(name)
		if err != nil {
			return err
		}
		if got != m.Blobs[name] {
			return errs.Corrupt("artifact.Verify", s.path(name), "digest %s, manifest has %s", got, m.Blobs[name])
		}
	}
	return nil
}

// Package artifact persists the outputs of a training run: the split
// datasets, the two scalers, the network weights, the convergence history
// and a manifest with a digest of every file.
package artifact

import "encoding/json"
import "os"
import "path/filepath"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/net/feedforward"
import "github.com/neurlang/surrogate/scaler"
import "github.com/neurlang/surrogate/trainer"

// Blob names of the datasets.
const (
	XTraining   = "x_training"
	YTraining   = "y_training"
	XValidation = "x_validation"
	YValidation = "y_validation"
	XTest       = "x_test"
	YTest       = "y_test"
	YPrediction = "y_prediction"
)

// Blob names of the scalers.
const (
	XScaler = "x_scaler"
	YScaler = "y_scaler"
)

const (
	WeightsFile  = "weights.json.lzw"
	HistoryFile  = "history.json"
	ManifestFile = "manifest.yaml"
)

// Store reads and writes artifacts under Dir.
type Store struct {
	Dir string
}

func (s *Store) path(file string) string {
	return filepath.Join(s.Dir, file)
}

func (s *Store) write(op, file string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errs.IO(op, s.Dir, err)
	}
	if err := os.WriteFile(s.path(file), data, 0o644); err != nil {
		return errs.IO(op, s.path(file), err)
	}
	return nil
}

func (s *Store) read(op, file string) ([]byte, error) {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		return nil, errs.IO(op, s.path(file), err)
	}
	return data, nil
}

// SaveSet writes a matrix in gonum's binary format. A nil matrix, the
// representation of an empty set, is written as an empty file.
func (s *Store) SaveSet(name string, m *mat.Dense) error {
	var data []byte
	if m != nil {
		var err error
		if data, err = m.MarshalBinary(); err != nil {
			return errs.Corrupt("artifact.SaveSet", s.path(name+".bin"), "%v", err)
		}
	}
	return s.write("artifact.SaveSet", name+".bin", data)
}

// LoadSet reads a matrix written by SaveSet. An empty file yields nil.
func (s *Store) LoadSet(name string) (*mat.Dense, error) {
	data, err := s.read("artifact.LoadSet", name+".bin")
	if err != nil || len(data) == 0 {
		return nil, err
	}
	var m mat.Dense
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, errs.Corrupt("artifact.LoadSet", s.path(name+".bin"), "%v", err)
	}
	return &m, nil
}

// SaveScaler writes the fitted statistics of a scaler as JSON.
func (s *Store) SaveScaler(name string, sc *scaler.MinMax) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.write("artifact.SaveScaler", name+".json", data)
}

// LoadScaler reads a scaler written by SaveScaler.
func (s *Store) LoadScaler(name string) (*scaler.MinMax, error) {
	data, err := s.read("artifact.LoadScaler", name+".json")
	if err != nil {
		return nil, err
	}
	var sc scaler.MinMax
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errs.Corrupt("artifact.LoadScaler", s.path(name+".json"), "%v", err)
	}
	return &sc, nil
}

// SaveWeights writes the network weights.
func (s *Store) SaveWeights(net *feedforward.Network) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errs.IO("artifact.SaveWeights", s.Dir, err)
	}
	return net.WriteCompressedWeightsToFile(s.path(WeightsFile))
}

// LoadWeights reads the network written by SaveWeights.
func (s *Store) LoadWeights() (*feedforward.Network, error) {
	var net feedforward.Network
	if err := net.ReadCompressedWeightsFromFile(s.path(WeightsFile)); err != nil {
		return nil, err
	}
	return &net, nil
}

// WeightsPath returns the weights file location, as used by trainer.Resume.
func (s *Store) WeightsPath() string {
	return s.path(WeightsFile)
}

// SaveHistory writes the per-epoch losses as JSON.
func (s *Store) SaveHistory(h trainer.History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return s.write("artifact.SaveHistory", HistoryFile, data)
}

// LoadHistory reads the losses written by SaveHistory.
func (s *Store) LoadHistory() (h trainer.History, err error) {
	data, err := s.read("artifact.LoadHistory", HistoryFile)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, errs.Corrupt("artifact.LoadHistory", s.path(HistoryFile), "%v", err)
	}
	return h, nil
}

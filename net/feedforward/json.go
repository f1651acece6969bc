package feedforward

import "compress/lzw"
import "encoding/json"
import "io"
import "os"
import "strconv"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

// layerJSON is the on-disk form of a layer. W is stored row by row
// (inputs x units), so the file can be read back with plain matrix code.
type layerJSON struct {
	W          [][]float64 `json:"w"`
	B          []float64   `json:"b"`
	Activation Activation  `json:"activation"`
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f Network) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return errs.IO("feedforward.WriteCompressedWeightsToFile", name, err)
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = errs.IO("feedforward.WriteCompressedWeightsToFile", name, cerr)
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer as a layer ordered
// JSON list of {"w", "b", "activation"} objects, lzw compressed.
func (f Network) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)

	var layers = make([]layerJSON, len(f.Layers))
	for n, l := range f.Layers {
		r, _ := l.W.Dims()
		layers[n].W = make([][]float64, r)
		for i := range layers[n].W {
			layers[n].W[i] = mat.Row(nil, i, l.W)
		}
		layers[n].B = l.B
		layers[n].Activation = l.Activation
	}
	enc := json.NewEncoder(lw)
	enc.SetIndent("", "\t")
	if err := enc.Encode(layers); err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *Network) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return errs.IO("feedforward.ReadCompressedWeightsFromFile", name, err)
	}
	defer file.Close()
	if err := f.ReadCompressedWeights(file); err != nil {
		if errs.Is(err, errs.KindShapeMismatch) {
			return err
		}
		return errs.Corrupt("feedforward.ReadCompressedWeightsFromFile", name, "%v", err)
	}
	return nil
}

// ReadCompressedWeights reads model weights from a reader, replacing the
// network's layers. The decoded network is checked for consistent shapes.
func (f *Network) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var layers []layerJSON
	if err := json.NewDecoder(lr).Decode(&layers); err != nil {
		return err
	}
	var o Network
	for n, l := range layers {
		if len(l.W) == 0 || len(l.W[0]) == 0 {
			return errs.Shape("feedforward.ReadCompressedWeights", "layer "+strconv.Itoa(n)+" weights", 1, 0)
		}
		w := mat.NewDense(len(l.W), len(l.W[0]), nil)
		for i, row := range l.W {
			if len(row) != len(l.W[0]) {
				return errs.Shape("feedforward.ReadCompressedWeights", "layer "+strconv.Itoa(n)+" row "+strconv.Itoa(i), len(l.W[0]), len(row))
			}
			w.SetRow(i, row)
		}
		o.Layers = append(o.Layers, Layer{W: w, B: l.B, Activation: l.Activation})
	}
	if err := o.Check(); err != nil {
		return err
	}
	*f = o
	return nil
}

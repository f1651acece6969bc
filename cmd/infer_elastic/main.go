package main

import "bufio"
import "fmt"
import "io"
import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import "github.com/spf13/cobra"

import "github.com/neurlang/surrogate/artifact"
import "github.com/neurlang/surrogate/config"
import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/inference"

func main() {
	var (
		model      string
		order      string
		verify     bool
		analytical bool
	)

	root := &cobra.Command{
		Use:          "infer_elastic [strain files...]",
		Short:        "Predict stresses with a trained elastic surrogate",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := &artifact.Store{Dir: model}
			if verify {
				if err := store.Verify(); err != nil {
					return err
				}
			}
			reorder := inference.Identity
			switch order {
			case "voigt":
			case "symmtensor":
				reorder = inference.HostSymmTensor
			default:
				return errors.Errorf("unknown component order %q", order)
			}

			engine, err := inference.Load(store)
			if err != nil {
				return err
			}
			var predictors = []inference.Predictor{engine.WithReorder(reorder)}
			if analytical {
				exact, err := exactLaw(store, reorder)
				if err != nil {
					return err
				}
				predictors = append(predictors, exact)
			}

			strain, err := readRows(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			var outputs [][]float64
			for _, p := range predictors {
				stress := make([]float64, len(strain))
				if err := p.PredictInto(stress, strain); err != nil {
					return err
				}
				outputs = append(outputs, stress)
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			for i := 0; i < len(strain); i += elastic.Components {
				var fields []string
				for _, stress := range outputs {
					for _, v := range stress[i : i+elastic.Components] {
						fields = append(fields, strconv.FormatFloat(v, 'e', 9, 64))
					}
				}
				fmt.Fprintln(w, strings.Join(fields, " "))
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&model, "model", "out", "artifact directory written by train_elastic")
	flags.StringVar(&order, "order", "voigt", "component order of the rows: voigt (xx yy zz xy yz zx) or symmtensor (xx xy xz yy yz zz)")
	flags.BoolVar(&verify, "verify", true, "check artifact digests against the manifest")
	flags.BoolVar(&analytical, "analytical", false, "also print the exact stresses of the training material")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// exactLaw builds Hooke's law for the material recorded in the manifest.
func exactLaw(store *artifact.Store, reorder inference.Reorder) (*inference.Analytical, error) {
	m, err := store.ReadManifest()
	if err != nil {
		return nil, err
	}
	cfg := m.Config
	if cfg == nil {
		cfg = config.Default()
	}
	p, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	return inference.NewAnalytical(elastic.Stiffness(p), reorder)
}

// readRows reads whitespace separated rows of six values from the named
// files, or from stdin when there are none.
func readRows(stdin io.Reader, names []string) (rows []float64, err error) {
	if len(names) == 0 {
		return parseRows(stdin, "stdin")
	}
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return nil, errs.IO("infer_elastic.readRows", name, err)
		}
		r, err := parseRows(f, name)
		f.Close()
		if err != nil {
			return nil, err
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

func parseRows(r io.Reader, name string) (rows []float64, err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != elastic.Components {
			return nil, errors.Errorf("%s:%d: %d values, want %d", name, line, len(fields), elastic.Components)
		}
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Errorf("%s:%d: %v", name, line, err)
			}
			rows = append(rows, v)
		}
	}
	return rows, scanner.Err()
}

package main

import "log"
import "os"

import "github.com/spf13/cobra"

import "github.com/neurlang/surrogate/config"
import "github.com/neurlang/surrogate/pipeline"

func main() {
	var (
		cfgPath string
		logfile string
	)
	overrides := config.Default()

	root := &cobra.Command{
		Use:          "train_elastic",
		Short:        "Train a neural network surrogate for a linear elastic material",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("samples") {
				cfg.Samples.Count = overrides.Samples.Count
			}
			if flags.Changed("max-strain") {
				cfg.Samples.MaxAbsStrain = overrides.Samples.MaxAbsStrain
			}
			if flags.Changed("epochs") {
				cfg.Training.Epochs = overrides.Training.Epochs
			}
			if flags.Changed("slow") {
				cfg.Training.Slow = overrides.Training.Slow
			}
			if flags.Changed("batch") {
				cfg.Training.BatchSize = overrides.Training.BatchSize
			}
			if flags.Changed("threads") {
				cfg.Training.Threads = overrides.Training.Threads
			}
			if flags.Changed("resume") {
				cfg.Training.Resume = overrides.Training.Resume
			}
			if flags.Changed("quiet") {
				cfg.Training.Quiet = overrides.Training.Quiet
			}
			if flags.Changed("seed") {
				cfg.Seed = overrides.Seed
			}
			if flags.Changed("out") {
				cfg.Output = overrides.Output
			}

			logger := log.New(os.Stderr, "", log.LstdFlags)
			if logfile != "" {
				f, err := os.OpenFile(logfile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
				if err != nil {
					return err
				}
				defer f.Close()
				logger = log.New(f, "", log.LstdFlags)
			}

			res, err := pipeline.Run(cfg, logger)
			if err != nil {
				return err
			}
			logger.Printf("final loss %.6e, test loss %.6e", res.History.Loss[res.History.Epochs()-1], res.TestMSE)
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "YAML configuration file (default: built-in defaults)")
	flags.StringVar(&logfile, "logfile", "", "append training progress to this file instead of stderr")
	flags.IntVar(&overrides.Samples.Count, "samples", overrides.Samples.Count, "number of strain samples")
	flags.Float64Var(&overrides.Samples.MaxAbsStrain, "max-strain", overrides.Samples.MaxAbsStrain, "equivalent strain cap")
	flags.IntVar(&overrides.Training.Epochs, "epochs", overrides.Training.Epochs, "training epochs")
	flags.BoolVar(&overrides.Training.Slow, "slow", overrides.Training.Slow, "use the robust amsgrad optimizer profile")
	flags.IntVar(&overrides.Training.BatchSize, "batch", overrides.Training.BatchSize, "rows per update, 0 for full batch")
	flags.IntVar(&overrides.Training.Threads, "threads", overrides.Training.Threads, "gradient workers, 0 for physical cores")
	flags.BoolVar(&overrides.Training.Resume, "resume", false, "resume training from the weights in the output directory")
	flags.BoolVar(&overrides.Training.Quiet, "quiet", false, "do not draw the progress bar")
	flags.Int64Var(&overrides.Seed, "seed", overrides.Seed, "random seed")
	flags.StringVar(&overrides.Output, "out", overrides.Output, "artifact directory")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

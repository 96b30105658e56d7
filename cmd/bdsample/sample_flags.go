package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"bdsample/internal/bdrom"
	"bdsample/internal/config"
	"bdsample/internal/faults"
	"bdsample/internal/logging"
)

// sampleOptions holds the flags shared by plan and extract.
type sampleOptions struct {
	stream  string
	sizeMiB int
	target  string
}

func (o *sampleOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.stream, "stream", "s", "", "Stream to sample, e.g. 00001.m2ts (default: largest stream)")
	cmd.Flags().IntVar(&o.sizeMiB, "size", 0, fmt.Sprintf("Sample size in MiB, one of %s (default from config)", sizeChoices()))
	cmd.Flags().StringVarP(&o.target, "target", "t", "", "Target directory (default from config)")
}

func sizeChoices() string {
	parts := make([]string, 0, len(config.SampleSizesMiB))
	for _, size := range config.SampleSizesMiB {
		parts = append(parts, fmt.Sprint(size))
	}
	return strings.Join(parts, ", ")
}

func (o *sampleOptions) sampleBytes(cfg *config.Config) (int64, error) {
	if o.sizeMiB == 0 {
		return cfg.SampleBytes(), nil
	}
	if !config.ValidSampleSize(o.sizeMiB) {
		return 0, faults.Wrap(faults.ErrValidation, "sample", "parse size",
			fmt.Sprintf("--size %d is not one of %s", o.sizeMiB, sizeChoices()), nil)
	}
	return int64(o.sizeMiB) * config.MiB, nil
}

func (o *sampleOptions) targetDir(cfg *config.Config) (string, error) {
	target := strings.TrimSpace(o.target)
	if target == "" {
		target = cfg.Paths.TargetDir
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", faults.Wrap(faults.ErrValidation, "sample", "resolve target", target, err)
	}
	return expanded, nil
}

// selectStream resolves the --stream flag against the catalog. An unknown
// stream is passed through so the planner plans metadata only.
func selectStream(disc *bdrom.Disc, query string, logger *slog.Logger) string {
	query = strings.TrimSpace(query)
	if query == "" {
		largest, ok := disc.LargestStream()
		if !ok {
			logging.WarnWithContext(logger, "disc has no readable streams", "stream_selection",
				logging.String(logging.FieldImpact, "only metadata will be sampled"),
			)
			return ""
		}
		attrs := logging.DecisionAttrs("stream_selection", largest.Name, "largest stream")
		attrs = append(attrs, logging.Int64("size", largest.Size))
		logger.Info("stream selected", logging.Args(attrs...)...)
		return largest.Name
	}
	if stream, ok := disc.ResolveStream(query); ok {
		return stream.Name
	}
	logging.WarnWithContext(logger, "stream not found in catalog", "stream_selection",
		logging.String("stream", query),
		logging.String(logging.FieldErrorHint, "run `bdsample streams` to list stream identifiers"),
		logging.String(logging.FieldImpact, "no stream bytes will be sampled"),
	)
	return query
}

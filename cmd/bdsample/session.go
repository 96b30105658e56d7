package main

import (
	"context"
	"log/slog"

	"bdsample/internal/bdrom"
	"bdsample/internal/config"
	"bdsample/internal/sample"
)

// sampleSession carries one command's disc, stream selection and sizing from
// flag parsing through planning.
type sampleSession struct {
	cfg    *config.Config
	logger *slog.Logger
	disc   *bdrom.Disc
	stream string
	size   int64
	target string
}

func openSession(ctx context.Context, cmdCtx *commandContext, discPath string, opts *sampleOptions, prompt *prompter) (*sampleSession, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return nil, err
	}
	size, err := opts.sampleBytes(cfg)
	if err != nil {
		return nil, err
	}
	target, err := opts.targetDir(cfg)
	if err != nil {
		return nil, err
	}

	disc, err := cmdCtx.openDisc(ctx, discPath, prompt)
	if err != nil {
		return nil, err
	}
	return &sampleSession{
		cfg:    cfg,
		logger: logger,
		disc:   disc,
		stream: selectStream(disc, opts.stream, logger),
		size:   size,
		target: target,
	}, nil
}

func (s *sampleSession) outputDir() string {
	return sample.OutputDir(s.target, s.disc.VolumeLabel())
}

func (s *sampleSession) plan() (*sample.Job, error) {
	return sample.Plan(sample.Request{
		Disc:       s.disc,
		Stream:     s.stream,
		SampleSize: s.size,
		TargetRoot: s.target,
	})
}

func (s *sampleSession) Close() {
	_ = s.disc.Close()
}

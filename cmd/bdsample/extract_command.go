package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bdsample/internal/faults"
	"bdsample/internal/logging"
	"bdsample/internal/preflight"
	"bdsample/internal/sample"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	opts := &sampleOptions{}
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "extract <disc>",
		Short: "Copy a bounded sample of a disc to the target directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			prompt := newPrompter(cmd)

			session, err := openSession(runCtx, ctx, args[0], opts, prompt)
			if err != nil {
				return err
			}
			defer session.Close()

			outputDir := session.outputDir()
			if session.cfg.Sample.Lock {
				lock, err := sample.LockTarget(outputDir)
				if err != nil {
					return err
				}
				defer func() { _ = lock.Unlock() }()
			}

			if sample.HasPriorExtraction(outputDir) {
				if !assumeYes && !prompt.confirm(fmt.Sprintf("%s already contains a previous extraction. Delete it?", outputDir)) {
					return faults.Wrap(faults.ErrCancelled, "extract", "reset target", outputDir+" left untouched", nil)
				}
				result := sample.Reset(runCtx, outputDir, session.logger)
				if len(result.Failures) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d entries of the previous extraction could not be removed\n", len(result.Failures))
				}
			}

			job, err := session.plan()
			if err != nil {
				return err
			}
			jobCtx := logging.WithJobID(runCtx, job.ID)
			logger := logging.WithContext(jobCtx, session.logger)

			if err := preflight.Err(preflight.CheckTarget(job.TargetRoot, job.TotalBytes)); err != nil {
				return err
			}

			copier := sample.NewCopier(session.cfg, logger)
			renderer := newProgressRenderer(cmd.ErrOrStderr(), job, logger)
			updates := make(chan sample.Progress, 1)
			copier.Progress = func(p sample.Progress) {
				select {
				case updates <- p:
				default:
				}
			}

			started := time.Now()
			group, groupCtx := errgroup.WithContext(jobCtx)
			group.Go(func() error {
				defer close(updates)
				return copier.Run(groupCtx, job)
			})
			group.Go(func() error {
				renderer.run(updates)
				return nil
			})
			err = group.Wait()
			renderer.finish(job)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d files (%s) to %s in %s\n",
				len(job.Entries),
				humanize.IBytes(uint64(job.BytesCompleted())),
				job.OutputDir,
				time.Since(started).Round(time.Millisecond),
			)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete a previous extraction without asking")
	return cmd
}

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStreamsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "streams <disc>",
		Short: "List the streams of a disc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disc, err := ctx.openDisc(cmd.Context(), args[0], newPrompter(cmd))
			if err != nil {
				return err
			}
			defer disc.Close()

			streams := disc.Streams()
			largest, _ := disc.LargestStream()

			rows := make([][]string, 0, len(streams))
			for _, stream := range streams {
				marker := ""
				if stream.Name == largest.Name {
					marker = "*"
				}
				rows = append(rows, []string{
					stream.Name,
					humanize.IBytes(uint64(stream.Size)),
					fmt.Sprint(stream.Size),
					marker,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Disc: %s (%s)\n", disc.VolumeLabel(), backendName(disc.IsImage()))
			if len(rows) == 0 {
				fmt.Fprintln(out, "No readable streams")
			} else {
				fmt.Fprintln(out, renderTable(
					[]string{"Stream", "Size", "Bytes", "Default"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
					nil,
				))
			}
			fmt.Fprintf(out, "Playlists: %d  Clip-info: %d  Skipped: %d\n",
				len(disc.Playlists()), len(disc.ClipInfos()), len(disc.Skipped()))
			return nil
		},
	}
}

func backendName(image bool) string {
	if image {
		return "image"
	}
	return "directory"
}

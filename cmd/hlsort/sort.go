package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alorle/hls-sorter/metrics"
	"github.com/alorle/hls-sorter/rewriter"
	"github.com/alorle/hls-sorter/writer"
)

type sortOptions struct {
	output      string
	stdout      bool
	stream      []string
	audio       []string
	iframe      []string
	metricsFile string
}

func newSortCommand(ctx *commandContext) *cobra.Command {
	var opts sortOptions

	cmd := &cobra.Command{
		Use:   "sort SOURCE",
		Short: "Sort a master playlist and write the result",
		Long: `Load a master playlist from an http(s) URL, a file:// URL or a local path,
sort its stream, audio and I-Frame sections and write the result.

Sections without a sort flag use the keys from the configuration, which
default to RESOLUTION,BANDWIDTH for streams, ID for audio and CODECS for
I-Frame streams.`,
		Example: `  hlsort sort https://cdn.example.com/master.m3u8
  hlsort sort master.m3u8 --stream BANDWIDTH --audio LANGUAGE,NAME -o sorted
  hlsort sort master.m3u8 --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file name; .m3u8 is appended when missing")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the sorted playlist to stdout instead of a file")
	cmd.Flags().StringSliceVar(&opts.stream, "stream", nil, "Sort keys for stream variants, primary first")
	cmd.Flags().StringSliceVar(&opts.audio, "audio", nil, "Sort keys for audio renditions, primary first")
	cmd.Flags().StringSliceVar(&opts.iframe, "iframe", nil, "Sort keys for I-Frame streams, primary first")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")

	return cmd
}

func runSort(cmd *cobra.Command, ctx *commandContext, source string, opts sortOptions) (err error) {
	override, err := rewriter.ParsePlan(opts.stream, opts.audio, opts.iframe)
	if err != nil {
		return err
	}

	cfg, deps, cleanup, err := ctx.dependencies(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}
	if metricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(metricsFile); werr != nil && err == nil {
				err = fmt.Errorf("failed to write metrics: %w", werr)
			}
		}()
	}

	start := time.Now()
	res, err := deps.Fetcher.Load(cmd.Context(), source)
	if err != nil {
		return err
	}
	if res.Stale {
		deps.Logger.Warn("upstream unavailable, sorting stale cached copy", "source", source)
	}

	plan := deps.Rewriter.Plan().Override(override)
	out, err := deps.Rewriter.RewriteWith(res.Content, plan)
	if err != nil {
		return fmt.Errorf("failed to sort %s: %w", source, err)
	}

	if opts.stdout {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	name := opts.output
	if name == "" {
		name = cfg.Output.Name
	}
	file := writer.New(name)
	if err := file.Write(out); err != nil {
		return err
	}

	deps.Logger.Info("sorted playlist written",
		"source", source,
		"output", file.Name(),
		"plan", plan.String(),
		"duration", time.Since(start),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Sorted playlist written to %s\n", file.Name())
	return nil
}

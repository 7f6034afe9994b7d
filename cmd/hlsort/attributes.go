package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alorle/hls-sorter/playlist"
	"github.com/alorle/hls-sorter/rewriter"
)

func newAttributesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "attributes",
		Short:       "List the sort attributes each section accepts",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(playlist.Kinds()))
			for _, kind := range playlist.Kinds() {
				attrs := rewriter.Supported(kind)
				names := make([]string, len(attrs))
				for i, a := range attrs {
					names[i] = a.String()
				}
				rows = append(rows, []string{kind.String(), strings.Join(names, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Section", "Attributes"}, rows, nil))
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

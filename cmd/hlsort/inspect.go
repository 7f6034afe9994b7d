package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/alorle/hls-sorter/playlist"
)

var (
	titleCaser    = cases.Title(language.English)
	languageNamer = display.English.Tags()
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "inspect SOURCE",
		Short: "Show the sections of a master playlist as tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := playlist.Kinds()
			if section != "" {
				kind, err := playlist.ParseKind(section)
				if err != nil {
					return err
				}
				kinds = []playlist.Kind{kind}
			}

			_, deps, cleanup, err := ctx.dependencies(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := deps.Fetcher.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, err := playlist.Parse(string(res.Content))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			writeInspection(cmd.OutOrStdout(), m, kinds)
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Only show one section: stream, audio or iframe")

	return cmd
}

var sectionTitles = map[playlist.Kind]string{
	playlist.StreamSection: "stream variants",
	playlist.AudioSection:  "audio renditions",
	playlist.IFrameSection: "i-frame streams",
}

func writeInspection(w io.Writer, m *playlist.Master, kinds []playlist.Kind) {
	for i, kind := range kinds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", titleCaser.String(sectionTitles[kind]), m.Len(kind))
		if m.Len(kind) == 0 {
			continue
		}

		headers, rows, aligns := sectionTable(m, kind)
		fmt.Fprintln(w, renderTable(headers, rows, aligns))
	}
}

func sectionTable(m *playlist.Master, kind playlist.Kind) ([]string, [][]string, []columnAlignment) {
	switch kind {
	case playlist.StreamSection:
		headers := []string{"#", "Bandwidth", "Average", "Resolution", "Codecs", "Frame rate", "Range", "Audio", "URI"}
		aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight}
		rows := make([][]string, 0, len(m.Streams.Variants))
		for i, v := range m.Streams.Variants {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				formatBandwidth(v.Bandwidth),
				formatBandwidth(v.AverageBandwidth),
				formatHeight(v.ResolutionHeight),
				v.Codecs,
				v.FrameRate,
				v.VideoRange,
				v.AudioGroup,
				v.URI,
			})
		}
		return headers, rows, aligns

	case playlist.AudioSection:
		headers := []string{"#", "Group", "Name", "Language", "Default", "Autoselect", "Channels", "URI"}
		aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
		rows := make([][]string, 0, len(m.Audio.Tracks))
		for i, a := range m.Audio.Tracks {
			channels := ""
			if a.ChannelCount > 0 {
				channels = strconv.Itoa(a.ChannelCount)
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				a.GroupID,
				a.Name,
				languageName(a.Language),
				a.Default,
				a.Autoselect,
				channels,
				a.URI,
			})
		}
		return headers, rows, aligns

	default:
		headers := []string{"#", "Bandwidth", "Codecs", "Resolution", "Range", "URI"}
		aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignRight}
		rows := make([][]string, 0, len(m.IFrames.Streams))
		for i, s := range m.IFrames.Streams {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				formatBandwidth(s.Bandwidth),
				s.Codecs,
				formatHeight(s.ResolutionHeight),
				s.VideoRange,
				s.URI,
			})
		}
		return headers, rows, aligns
	}
}

// languageName renders a BCP 47 tag as "German (de)". Unknown tags are
// returned unchanged.
func languageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := languageNamer.Name(tag)
	if name == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func formatBandwidth(bps int) string {
	switch {
	case bps <= 0:
		return ""
	case bps >= 1_000_000:
		return strconv.FormatFloat(float64(bps)/1_000_000, 'f', 2, 64) + " Mbps"
	case bps >= 1_000:
		return strconv.FormatFloat(float64(bps)/1_000, 'f', 0, 64) + " kbps"
	}
	return strconv.Itoa(bps) + " bps"
}

func formatHeight(h int) string {
	if h <= 0 {
		return ""
	}
	return strconv.Itoa(h) + "p"
}

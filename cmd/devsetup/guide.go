package devsetup

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/devsetup/pkg/ui"
)

// guideRenderer renders the embedded guide with glamour.
type guideRenderer struct {
	Style string // "auto", "notty", "dark", "light" or a style file path
	Width int    // 0 keeps glamour's default wrapping
}

// newGuideRenderer picks a style for the resolved output format. Plain
// text output gets the notty style so no escape codes leak into pipes.
func newGuideRenderer(format ui.Format) *guideRenderer {
	style := "auto"
	if format == ui.FormatText {
		style = "notty"
	}
	return &guideRenderer{Style: style}
}

func (r *guideRenderer) Render(content string) (string, error) {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

func newGuideCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "guide",
		Short:   MsgGuideShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := g.outputFormat(cmd, "")
			if err != nil {
				return err
			}
			out, err := newGuideRenderer(format).Render(guideContent)
			if err != nil {
				// Unstyled markdown is still readable.
				out = guideContent
				fmt.Fprintln(cmd.ErrOrStderr(), fmt.Errorf(MsgErrRenderGuide, err))
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhuels/dagview/pkg/style"
)

// stylesCommand creates the styles command listing built-in style sheets.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the built-in style sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range style.Names() {
				sheet, err := style.Builtin(name)
				if err != nil {
					return err
				}
				printKeyValue(name, styleSummary(sheet))
			}
			printNewline()
			printNextStep("Use a style", "dagview render \"a AND b\" --style dark")
			return nil
		},
	}
}

// styleSummary produces a short description of a sheet's node defaults.
func styleSummary(s *style.Sheet) string {
	shape := s.Node["shape"]
	if shape == "" {
		shape = "unstyled"
	}
	if fill, ok := s.Node["fillcolor"]; ok {
		return shape + " " + StyleDim.Render(fill)
	}
	return shape
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/pkg/palette"
)

// paletteCommand creates the palette command, which shows the colours
// derived from a brand colour.
func (c *CLI) paletteCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "palette [color]",
		Short:   "Show the palette derived from a brand colour",
		Example: `  adforge palette "#3B82F6"
  adforge palette e11d48 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hex := args[0]
			if hex != "" && hex[0] != '#' {
				hex = "#" + hex
			}
			p, err := palette.FromHex(hex)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPalette(p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the palette as JSON")
	return cmd
}

func printPalette(p palette.Palette) {
	fmt.Println(renderSwatches(p))
	printNewline()

	primary := palette.MustParseHex(p.Primary)
	for _, hex := range p.Colors()[1:] {
		ratio := palette.Contrast(primary, palette.MustParseHex(hex))
		printKeyValue(hex, fmt.Sprintf("%.2f:1 against primary", ratio))
	}
	printDetail("Text on the background uses %s", palette.ForegroundHex(p.Background))
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"oxrsession/internal/config"
	"oxrsession/pkg/types"
)

// runProfiles lists the known interaction profile tables.
func runProfiles(cfg config.Config, asJSON bool, out io.Writer) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	sums := reg.Summaries()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types.ProfilesResponse{Profiles: sums})
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tACTION SET\tACTIONS\tBINDINGS")
	for _, p := range sums {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", p.Name, p.Path, p.ActionSet, p.Actions, p.Bindings)
	}
	return tw.Flush()
}

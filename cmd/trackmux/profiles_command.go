package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/composer"
)

type profileView struct {
	ID          string   `json:"id"`
	Description string   `json:"description,omitempty"`
	Inputs      int      `json:"inputs"`
	Audio       bool     `json:"audio"`
	Suffix      string   `json:"suffix,omitempty"`
	Args        []string `json:"args"`
}

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List encoding profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			profiles := composer.NewRegistry(cfg.Composer.Profiles).List()
			if asJSON {
				views := make([]profileView, 0, len(profiles))
				for _, p := range profiles {
					views = append(views, profileView(p))
				}
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				suffix := p.Suffix
				if suffix == "" {
					suffix = "(input)"
				}
				rows = append(rows, []string{p.ID, strconv.Itoa(p.Inputs), yesNo(p.Audio), suffix, strings.Join(p.Args, " ")})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Profile", "Inputs", "Audio", "Suffix", "Arguments"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print profiles as JSON")
	return cmd
}

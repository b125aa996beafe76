package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPropertiesCmd(factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List registered GA4 property profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			profiles, err := svc.Profiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			for _, p := range profiles {
				cmd.Printf("%s\t%s\n", p.Name, p.PropertyID)
			}
			return nil
		},
	}
}

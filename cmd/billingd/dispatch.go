package main

import (
	"github.com/spf13/cobra"
)

func newDispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run one dispatch cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			a.dispatcher.Dispatch(cmd.Context())
			return nil
		},
	}
}

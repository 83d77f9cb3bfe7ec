package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paneloom/internal/config"
	"paneloom/internal/invariant"
)

func newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Replay a scenario and report any structural invariant violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			opts := config.Default()
			if configPath != "" {
				opts, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			l, _ := Run(scenario, opts)
			violations := invariant.Check(l)
			if len(violations) == 0 {
				fmt.Println("ok: no invariant violations")
				return nil
			}
			for _, v := range violations {
				fmt.Println(v.String())
			}
			return fmt.Errorf("%d invariant violation(s)", len(violations))
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Options override file")
	return cmd
}

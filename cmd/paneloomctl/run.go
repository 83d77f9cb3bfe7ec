package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paneloom/internal/config"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var ascii bool
	var elements bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario against a fresh layout and print the result",
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
			if ascii {
				fmt.Println(RenderASCII(l))
				return nil
			}
			if elements {
				for _, m := range l.Outputs() {
					for _, el := range l.RenderElements(m.Output.Name()) {
						fmt.Printf("%s kind=%d window=%d rect=%+v active=%v\n",
							m.Output.Name(), el.Kind, el.WindowID, el.Rect, el.Active)
					}
				}
				return nil
			}
			for _, m := range l.Outputs() {
				fmt.Printf("%s: %d workspaces, active=%d\n", m.Output.Name(), len(m.Workspaces), m.ActiveIdx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Options override file")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "render an ASCII floor plan instead of a summary")
	cmd.Flags().BoolVar(&elements, "elements", false, "dump the per-output render elements")
	return cmd
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"ecarows/internal/core"
	"ecarows/internal/rules"

	"github.com/spf13/cobra"
)

type rulesOptions struct {
	*rootOptions
	JSON    bool
	Wolfram uint8
}

type ruleInfo struct {
	Name    string                    `json:"name"`
	Code    uint8                     `json:"code"`
	Mapping map[string]core.CellState `json:"mapping"`
}

func newRulesCommand(root *rootOptions) *cobra.Command {
	opts := &rulesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "rules [name...]",
		Short: "List the registered rule tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tables []*rules.Table
			if cmd.Flags().Changed("wolfram") {
				if len(args) > 0 {
					return errors.New("--wolfram cannot be combined with rule names")
				}
				tables = append(tables, rules.FromWolfram(opts.Wolfram))
			}
			names := args
			if len(names) == 0 && len(tables) == 0 {
				names = rules.Names()
			}
			for _, name := range names {
				t, err := rules.Get(name)
				if err != nil {
					return err
				}
				tables = append(tables, t)
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				infos := make([]ruleInfo, len(tables))
				for i, t := range tables {
					infos[i] = ruleInfo{Name: t.Name(), Code: t.Code(), Mapping: t.Mapping()}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			for _, t := range tables {
				fmt.Fprintln(out, t.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print tables as JSON")
	cmd.Flags().Uint8Var(&opts.Wolfram, "wolfram", 0, "print the binary table of this Wolfram code (0-255) instead")

	return cmd
}

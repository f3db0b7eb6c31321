package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/pairs/internal/catalog"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect the environment catalog",
}

var envLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List playable environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := catalog.Load(cmd.Context(), cfg.Catalog.Path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPAIRS\tSYMBOLS\tDESCRIPTION")
		for _, env := range cat.All() {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", env.Name, env.Pairs(), strings.Join(env.Symbols, " "), env.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envLsCmd)
}

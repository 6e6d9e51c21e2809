package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardougne/runebuf/pkg/layout"
)

var layoutsVerbose bool

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Lists the packet layouts in layouts_dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		return listLayouts(cmd.OutOrStdout(), env.catalog, layoutsVerbose)
	},
}

func init() {
	layoutsCmd.Flags().BoolVarP(&layoutsVerbose, "verbose", "v", false, "Print the fields of every layout")
	rootCmd.AddCommand(layoutsCmd)
}

func listLayouts(w io.Writer, catalog *layout.Catalog, verbose bool) error {
	names, err := catalog.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		l, err := catalog.Get(name)
		if err != nil {
			fmt.Fprintf(w, "%s (invalid: %v)\n", name, err)
			continue
		}
		if l.Description != "" {
			fmt.Fprintf(w, "%s - %s\n", l.Name, l.Description)
		} else {
			fmt.Fprintln(w, l.Name)
		}
		if !verbose {
			continue
		}
		for i := range l.Fields {
			f := &l.Fields[i]
			if f.Kind == layout.KindBitAccess || f.Kind == layout.KindByteAccess {
				fmt.Fprintf(w, "    [%s]\n", f.Kind)
				continue
			}
			fmt.Fprintf(w, "    %s: %s\n", f.Name, f.Describe())
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmark/docmark/pkg/docmark"
)

var inspectShowRels bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectShowRels, "rels", false, "also list each part's relationships")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <document.docx>",
	Short: "List the parts and properties of a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogLevel()
		docmark.UpdateLoggerFromConfig()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		pkg, err := docmark.OpenPackage(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range pkg.PartNames() {
			part, _ := pkg.Part(name)
			fmt.Fprintf(out, "%s\t%s\n", name, part.ContentType)
			if !inspectShowRels {
				continue
			}
			for _, id := range part.RelationshipIDs() {
				target, err := part.Relationship(id)
				if err != nil {
					return err
				}
				location := target.URI
				if !target.External && target.Part != nil {
					location = target.Part.Name
				}
				fmt.Fprintf(out, "\t%s\t%s\n", id, location)
			}
		}

		if title := pkg.CoreProperty("dc:title"); title != "" {
			fmt.Fprintf(out, "title: %s\n", title)
		}
		if props := pkg.CustomProperties(); props != nil {
			for _, name := range props.Names() {
				value, _ := props.Value(name)
				fmt.Fprintf(out, "property %s: %s\n", name, value)
			}
		}
		return nil
	},
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/output"
)

var listFlags struct {
	tag string
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available template sets",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listFlags.tag, "tag", "", "Only list sets with this tag")
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, def := range cat.Definitions() {
		if listFlags.tag != "" && !hasTag(def.Tags, listFlags.tag) {
			continue
		}
		compiled, err := cat.Compile(def.Name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			def.Name,
			strconv.Itoa(len(compiled.Fields())),
			def.Source,
			def.Description,
		})
	}

	if len(rows) == 0 {
		return output.Muted(cmd.OutOrStdout(), "No template sets found")
	}
	title := fmt.Sprintf("%d template sets", len(rows))
	return output.Table(cmd.OutOrStdout(), title, []string{"Name", "Fields", "Source", "Description"}, rows)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Cyclone1070/wisemcp/internal/tool"
)

var (
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	descStyle     = lipgloss.NewStyle().PaddingLeft(2)
	paramStyle    = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("245"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newToolsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			descriptors := a.manager.Describe()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), descriptors)
			}
			renderTools(cmd.OutOrStdout(), descriptors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print descriptors as JSON schemas")
	return cmd
}

func renderTools(w io.Writer, descriptors []tool.Descriptor) {
	for i, d := range descriptors {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, nameStyle.Render(string(d.Name)))
		fmt.Fprintln(w, descStyle.Render(d.Description))
		for _, p := range d.Parameters.Properties {
			fmt.Fprintln(w, paramStyle.Render(describeParam(p, slices.Contains(d.Parameters.Required, p.Name))))
		}
	}
}

func describeParam(p tool.Property, required bool) string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString(" (")
	b.WriteString(string(p.Type))
	if p.Items != nil {
		b.WriteString(" of " + string(p.Items.Type))
	}
	b.WriteString(")")
	if required {
		b.WriteString(" " + requiredStyle.Render("required"))
	}
	if p.Default != nil {
		fmt.Fprintf(&b, " default=%v", p.Default)
	}
	if p.Description != "" {
		b.WriteString(": " + p.Description)
	}
	return b.String()
}

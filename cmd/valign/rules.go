package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"valign/internal/lint"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [name]",
		Short: "List registered rules or show the documentation of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type ruleOptionPayload struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default"`
	Summary string `json:"summary"`
}

type rulePayload struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Recommended bool                `json:"recommended"`
	Fixable     string              `json:"fixable"`
	Code        string              `json:"code"`
	Severity    string              `json:"severity"`
	Options     []ruleOptionPayload `json:"options,omitempty"`
	Before      string              `json:"before,omitempty"`
	After       string              `json:"after,omitempty"`
}

func toRulePayload(m lint.Meta) rulePayload {
	p := rulePayload{
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Recommended: m.Recommended,
		Fixable:     m.Fixable.String(),
		Code:        m.Code.ID(),
		Severity:    strings.ToLower(m.Severity.String()),
		Before:      m.Before,
		After:       m.After,
	}
	for _, o := range m.Options {
		p.Options = append(p.Options, ruleOptionPayload(o))
	}
	return p
}

func runRules(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return usageError(fmt.Errorf("unknown format: %s", format))
	}
	out := cmd.OutOrStdout()
	useColor(g.color, out)

	metas := ruleMetas()
	if len(args) == 1 {
		rule, err := lint.Default().Resolve(args[0])
		if err != nil {
			return usageError(err)
		}
		metas = []lint.Meta{rule.Meta()}
	}

	if format == "json" {
		payload := make([]rulePayload, len(metas))
		for i, m := range metas {
			payload[i] = toRulePayload(m)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if len(args) == 1 {
		return writeRuleDoc(out, metas[0])
	}
	return writeRuleTable(out, metas)
}

func writeRuleTable(out io.Writer, metas []lint.Meta) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tRECOMMENDED\tFIXABLE\tDESCRIPTION")
	for _, m := range metas {
		rec := "no"
		if m.Recommended {
			rec = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Name, m.Category, rec, m.Fixable, m.Description)
	}
	return tw.Flush()
}

func writeRuleDoc(out io.Writer, m lint.Meta) error {
	bold := color.New(color.Bold)
	fmt.Fprintf(out, "%s (%s)\n", bold.Sprint(m.Name), m.Code.ID())
	fmt.Fprintf(out, "  %s\n\n", m.Description)
	fmt.Fprintf(out, "category:    %s\n", m.Category)
	fmt.Fprintf(out, "recommended: %t\n", m.Recommended)
	fmt.Fprintf(out, "fixable:     %s\n", m.Fixable)
	fmt.Fprintf(out, "severity:    %s\n", strings.ToLower(m.Severity.String()))

	if len(m.Options) > 0 {
		fmt.Fprintln(out, "\noptions:")
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, o := range m.Options {
			fmt.Fprintf(tw, "  %s\t%s\tdefault %s\t%s\n", o.Name, o.Type, o.Default, o.Summary)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if m.Before != "" {
		fmt.Fprintf(out, "\nincorrect:\n%s\n", indent(m.Before))
	}
	if m.After != "" {
		fmt.Fprintf(out, "\ncorrect:\n%s\n", indent(m.After))
	}
	return nil
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

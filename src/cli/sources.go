// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/answer"
)

var sourcesJSON bool

// sourceProbe is one row of the diagnostic report.
type sourceProbe struct {
	Source      string `json:"source"`
	Status      string `json:"status"`
	URL         string `json:"url,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Probe every answer source without fetching anything",
		Long: `Probes the configuration partition, the DHCP lease file and the DNS
TXT records independently and reports what each would contribute.
Nothing is POSTed and no fingerprint is exported, so the command is
safe to run repeatedly while preparing an installation.`,
		Args: cobra.NoArgs,
		RunE: runSources,
	}

	cmd.Flags().BoolVarP(&sourcesJSON, "json", "j", false, "emit the probe report as JSON")

	return cmd
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	resolver := answer.NewResolver(cfg, nil, newLogger(cmd))
	probes := probeSources(cmd.Context(), resolver)

	if sourcesJSON {
		data, err := json.MarshalIndent(probes, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderProbeTable(probes))
	return nil
}

// probeSources runs each source in isolation. Unlike resolution, every
// probe starts without a fingerprint so the report shows what the source
// would contribute on its own.
func probeSources(ctx context.Context, resolver *answer.Resolver) []sourceProbe {
	probes := make([]sourceProbe, 0, 3)

	fp, err := resolver.Partition().ReadFingerprint(ctx)
	probes = append(probes, newSourceProbe("partition", "", fp, err))

	url, fp, err := resolver.DHCP().Fetch("")
	probes = append(probes, newSourceProbe("dhcp", url, fp, err))

	url, fp, err = resolver.DNS().Fetch(ctx, "")
	probes = append(probes, newSourceProbe("dns", url, fp, err))

	return probes
}

func newSourceProbe(source, url, fp string, err error) sourceProbe {
	if err != nil {
		return sourceProbe{Source: source, Status: err.Error()}
	}
	return sourceProbe{Source: source, Status: "ok", URL: url, Fingerprint: fp}
}

// renderProbeTable renders the probe report as a formatted markdown table.
func renderProbeTable(probes []sourceProbe) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"📡 Source", "✅ Status", "🌐 URL", "🔏 Fingerprint"})

	var rows [][]string
	for _, p := range probes {
		rows = append(rows, []string{p.Source, p.Status, p.URL, p.Fingerprint})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/nats"
	"github.com/mark3labs/promptgen/internal/output"
)

var historyFlags struct {
	limit   int
	natsURL string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show renders recorded by 'serve --nats --store-dir'",
	Long: `Show the most recent renders recorded by a running render service.

Connects to --nats-url, the nats_url config, or the embedded server at
nats_addr.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "Number of renders to show (0 = all)")
	historyCmd.Flags().StringVar(&historyFlags.natsURL, "nats-url", "", "NATS server URL")
}

func runHistory(cmd *cobra.Command, args []string) error {
	url := historyFlags.natsURL
	if url == "" {
		url = cfg.NATSURL
	}
	if url == "" {
		url = "nats://" + cfg.NATSAddr
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return err
	}
	defer nc.Close()

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	events, err := nats.History(ctx, js, historyFlags.limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return output.Muted(cmd.OutOrStdout(), "No renders recorded")
	}

	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.FormatUint(ev.Sequence, 10),
			ev.Timestamp.Local().Format(time.DateTime),
			ev.Set,
			summarizeFields(ev.Fields, 60),
		})
	}
	return output.Table(cmd.OutOrStdout(), fmt.Sprintf("%d renders", len(events)), []string{"Seq", "Time", "Set", "Fields"}, rows)
}

// summarizeFields renders fields as sorted name=value pairs cut to max runes.
func summarizeFields(fields map[string]string, max int) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+strings.Join(strings.Fields(fields[name]), " "))
	}
	s := []rune(strings.Join(parts, " "))
	if len(s) > max {
		return string(s[:max-1]) + "…"
	}
	return string(s)
}

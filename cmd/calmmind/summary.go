package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/assistant"
	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/mcp"
	"github.com/rpggio/calmmind/internal/ui"
)

const meterWidth = 24

func newSummaryCmd() *cobra.Command {
	var (
		user        string
		start, end  string
		granularity string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a user's stress level and dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			now := a.dashboard.Now()
			rng, err := dashboard.ParseRange(start, end, granularity, now)
			if err != nil {
				return err
			}
			ac, err := a.dashboard.AssistantContext(ctx, user)
			if err != nil {
				return err
			}
			dash, err := a.dashboard.UserDashboard(ctx, user, rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"stress": ac, "dashboard": dash})
			}
			renderSummary(out, user, now, ac, dash)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", mcp.DefaultTenant, "user whose tasks to summarise")
	cmd.Flags().StringVar(&start, "start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&granularity, "granularity", "daily", "daily, weekly or monthly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func renderSummary(w io.Writer, user string, now time.Time, ac *assistant.Context, dash *dashboard.User) {
	var head strings.Builder
	fmt.Fprintln(&head, ui.Heading(ui.IconCalm, "Stress for "+user))
	fmt.Fprintf(&head, "%s %s %.0f%%\n", ui.LevelText(ac.Label), ui.Meter(ac.Percent, meterWidth), ac.Percent)
	fmt.Fprintln(&head, ui.LabelValue("Overdue", ac.Overdue))
	fmt.Fprint(&head, ui.LabelValue("Due within 72h", ac.DueSoon))
	fmt.Fprintln(w, ui.Panel.Render(head.String()))

	if len(ac.NextDeadlines) > 0 {
		fmt.Fprintln(w, ui.H2.Render(ui.IconClock+" Next deadlines"))
		for _, d := range ac.NextDeadlines {
			fmt.Fprintf(w, "  %s %s\n", d.Title, ui.Muted.Render(humanize.RelTime(d.Due, now, "ago", "from now")))
		}
	}

	if len(dash.MostStressful) > 0 {
		fmt.Fprintln(w, ui.H2.Render(ui.IconWarn+" Most stressful"))
		for _, st := range dash.MostStressful {
			fmt.Fprintf(w, "  %-32s %s\n", st.Task.Title, ui.Meter(st.Stress*100, 10))
		}
	}

	c := dash.StatusCounts
	fmt.Fprintln(w, ui.H2.Render(ui.IconChart+" "+dash.Range.Start.Format("Jan 2")+" to "+dash.Range.End.Format("Jan 2")))
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		column("todo", c.Todo),
		column("in_progress", c.InProgress),
		column("missing", c.Missing),
		column("completed", c.Completed),
	))

	if len(ac.Recommendations)+len(ac.TaskSuggestions) > 0 {
		fmt.Fprintln(w, ui.H2.Render(ui.IconDone+" Suggestions"))
		for _, r := range ac.Recommendations {
			fmt.Fprintf(w, "  • %s\n", r)
		}
		for _, r := range ac.TaskSuggestions {
			fmt.Fprintf(w, "  • %s\n", r)
		}
	}
}

func column(status string, n int) string {
	return lipgloss.NewStyle().Width(16).Render(ui.StatusText(status) + " " + humanize.Comma(int64(n)))
}

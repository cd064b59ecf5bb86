package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/calendar"
	"github.com/rpggio/calmmind/internal/ui"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Import Google Calendar events as tasks",
	}
	cmd.AddCommand(newCalendarAuthCmd(), newCalendarImportCmd())
	return cmd
}

func newCalendarAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only calendar access and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			cc := a.cfg.Calendar
			oauthCfg, err := calendar.OAuthConfig(cc.CredentialsPath)
			if err != nil {
				return err
			}
			if err := calendar.Authorize(cmd.Context(), oauthCfg, cc.TokenPath, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Token saved to "+cc.TokenPath))
			return nil
		},
	}
}

func newCalendarImportCmd() *cobra.Command {
	var (
		user string
		days int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create tasks from upcoming calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			cc := a.cfg.Calendar
			if user == "" {
				user = cc.Owner
			}
			if days <= 0 {
				days = cc.Days
			}

			ctx := cmd.Context()
			oauthCfg, err := calendar.OAuthConfig(cc.CredentialsPath)
			if err != nil {
				return err
			}
			client, err := calendar.Client(ctx, oauthCfg, cc.TokenPath)
			if errors.Is(err, calendar.ErrNoToken) {
				return errors.New("no calendar token yet, run `calmmind calendar auth` first")
			}
			if err != nil {
				return err
			}
			source, err := calendar.NewGoogleSource(ctx, client, cc.CalendarID)
			if err != nil {
				return err
			}

			from := a.dashboard.Now()
			to := from.Add(time.Duration(days) * 24 * time.Hour)
			res, err := calendar.NewImporter(source, a.tasks, a.logger).Import(ctx, user, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s, %s\n",
				ui.IconCalendar,
				ui.LabelValue("Imported", res.Created),
				ui.LabelValue("skipped", res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner of the imported tasks (defaults to calendar.owner)")
	cmd.Flags().IntVar(&days, "days", 0, "days ahead to import (defaults to calendar.days)")
	return cmd
}

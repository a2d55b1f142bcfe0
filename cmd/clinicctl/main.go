package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-scheduling/internal/app"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/logging"
	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

// opener builds the service a command runs against; close releases its backends.
type opener func(ctx context.Context) (svc *schedule.Service, window time.Duration, close func(), err error)

func main() {
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*schedule.Service, time.Duration, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, 0, nil, err
	}
	// keep stdout for command output
	logger := logging.New("prod", cfg.LogLevel).Output(os.Stderr).Level(zerolog.WarnLevel)
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, 0, nil, err
	}
	return a.Service, cfg.UpcomingWindow, a.Close, nil
}

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "clinicctl",
		Short:        "Operate the clinic schedule from the command line",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(doctorsCmd(open))
	rootCmd.AddCommand(appointmentsCmd(open))
	rootCmd.AddCommand(statsCmd(open))

	return rootCmd
}

// withService opens the service for the duration of fn.
func withService(cmd *cobra.Command, open opener, fn func(ctx context.Context, svc *schedule.Service, window time.Duration) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, window, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc, window)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func doctorsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Inspect doctors",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, _ time.Duration) error {
				specialty, _ := cmd.Flags().GetString("specialty")
				var (
					doctors []schedule.Doctor
					err     error
				)
				if specialty != "" {
					doctors, err = svc.DoctorsBySpecialty(ctx, specialty)
				} else {
					doctors, err = svc.ListDoctors(ctx)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doctors)
			})
		},
	}
	listCmd.Flags().String("specialty", "", "only doctors of this specialty")

	availableCmd := &cobra.Command{
		Use:   "available",
		Short: "List doctors free at a date and time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, _ time.Duration) error {
				date, _ := cmd.Flags().GetString("date")
				tm, _ := cmd.Flags().GetString("time")
				doctors, err := svc.AvailableDoctors(ctx, date, tm)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doctors)
			})
		},
	}
	availableCmd.Flags().String("date", "", "date as YYYY-MM-DD or D/M/YYYY")
	availableCmd.Flags().String("time", "", "time as HH:MM or h:MM AM/PM")
	_ = availableCmd.MarkFlagRequired("date")
	_ = availableCmd.MarkFlagRequired("time")

	cmd.AddCommand(listCmd, availableCmd)
	return cmd
}

func appointmentsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Book, cancel and list appointments",
	}

	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, _ time.Duration) error {
				flags := cmd.Flags()
				in := schedule.NewAppointment{}
				in.PatientID, _ = flags.GetString("patient")
				in.DoctorID, _ = flags.GetString("doctor")
				in.Date, _ = flags.GetString("date")
				in.Time, _ = flags.GetString("time")
				in.Reason, _ = flags.GetString("reason")

				appt, err := svc.CreateAppointment(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), appt)
			})
		},
	}
	bookCmd.Flags().String("patient", "", "patient id")
	bookCmd.Flags().String("doctor", "", "doctor id")
	bookCmd.Flags().String("date", "", "date as YYYY-MM-DD or D/M/YYYY")
	bookCmd.Flags().String("time", "", "time as HH:MM or h:MM AM/PM")
	bookCmd.Flags().String("reason", "", "reason for the visit")
	for _, name := range []string{"patient", "doctor", "date", "time"} {
		_ = bookCmd.MarkFlagRequired(name)
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, _ time.Duration) error {
				appt, err := svc.CancelAppointment(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), appt)
			})
		},
	}

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List scheduled appointments starting soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, window time.Duration) error {
				if hours, _ := cmd.Flags().GetInt("hours"); hours != 0 {
					window = time.Duration(hours) * time.Hour
				}
				appts, err := svc.Upcoming(ctx, window)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), appts)
			})
		},
	}
	upcomingCmd.Flags().Int("hours", 0, "window in hours (default UPCOMING_WINDOW)")

	cmd.AddCommand(bookCmd, cancelCmd, upcomingCmd)
	return cmd
}

func statsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *schedule.Service, window time.Duration) error {
				dash, err := svc.Dashboard(ctx, window)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dash)
			})
		},
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"studio/internal/adapters/export"
	web "studio/internal/adapters/http"
	"studio/internal/application/projections"
	"studio/internal/domain/caldate"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Offline reports",
	}
	cmd.AddCommand(newAttendanceReportCmd())
	return cmd
}

func newAttendanceReportCmd() *cobra.Command {
	var (
		month string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Write a month's attendance report as an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := caldate.ParseMonth(month)
			if err != nil {
				return fmt.Errorf("invalid --month: %w", err)
			}
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := projections.QueryGetAttendanceReport(cmd.Context(), projections.GetAttendanceReportQuery{Range: rng}, projections.GetAttendanceReportDeps{
				MemberStore: rt.stores.MemberStore,
				LessonStore: rt.stores.LessonStore,
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = fmt.Sprintf("attendance-%s.xlsx", month)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteAttendance(f, web.ToExportReport(res)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			slog.Info("report", "event", "attendance_written", "file", out, "rows", len(res.Rows), "total", res.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to report (YYYY-MM, required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default attendance-<month>.xlsx)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

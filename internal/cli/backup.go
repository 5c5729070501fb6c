package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/backup"
)

func (a *App) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write backups to the backup directory and, if configured, S3",
	}
	cmd.AddCommand(a.backupRunCommand(), a.backupScheduleCommand())
	return cmd
}

func (a *App) backupRunner(cmd *cobra.Command) (*backup.Runner, error) {
	sinks := []backup.Sink{backup.NewLocalSink(a.cfg.BackupDir)}
	if a.cfg.S3Enabled() {
		s3, err := backup.NewS3Sink(cmd.Context(), backup.S3Config{
			Bucket:       a.cfg.S3Bucket,
			Region:       a.cfg.S3Region,
			BaseEndpoint: a.cfg.S3BaseEndpoint,
			AccessKey:    a.cfg.S3AccessKey,
			SecretKey:    a.cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3)
	}
	return backup.NewRunner(a.transfer, a.logger, a.cfg.BackupTimeout, sinks...), nil
}

func (a *App) backupRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Write one backup now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.backupRunner(cmd)
			if err != nil {
				return err
			}
			results, err := r.RunOnce(cmd.Context())
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Sink, res.Location)
			}
			return err
		},
	}
}

func (a *App) backupScheduleCommand() *cobra.Command {
	var schedule string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Write backups on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.backupRunner(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cron") {
				schedule = a.cfg.BackupSchedule
			}
			s, err := backup.NewScheduler(cmd.Context(), r, schedule)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backing up on schedule %q; press Ctrl+C to stop.\n", schedule)
			s.Run(cmd.Context())
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "cron", "", "cron expression overriding the configured schedule")
	return cmd
}

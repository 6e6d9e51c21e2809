package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardougne/runebuf/internal/core/bytes"
	"github.com/ardougne/runebuf/internal/core/data"
)

var segmentsSession string

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Prints the stored segments of a capture session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		db, err := data.Initialize(env.config.Database.Engine, env.config.DataSource(), env.config.Debugging.DatabaseLoggingEnabled)
		if err != nil {
			return err
		}
		defer data.Shutdown(db)

		segments, err := data.FindSegmentsBySession(db, segmentsSession)
		if err != nil {
			return fmt.Errorf("error loading session %s: %w", segmentsSession, err)
		}
		printSegments(cmd.OutOrStdout(), segments)
		return nil
	},
}

func init() {
	segmentsCmd.Flags().StringVarP(&segmentsSession, "session", "s", "", "Name of the session to print")
	_ = segmentsCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(segmentsCmd)
}

func printSegments(w io.Writer, segments []data.Segment) {
	for _, s := range segments {
		fmt.Fprintf(w, "[%s] %s %s -> %s (%d bytes)\n",
			s.CapturedAt.Format("2006-01-02 15:04:05.000"), s.Direction, s.Source, s.Destination, len(s.Payload))
		fmt.Fprint(w, bytes.HexDump(s.Payload))
		if s.Layout != "" {
			fmt.Fprintf(w, "%s: %s\n", s.Layout, s.Decoded)
		}
		if s.DecodeError != "" {
			fmt.Fprintf(w, "decode error: %s\n", s.DecodeError)
		}
		fmt.Fprintln(w)
	}
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ardougne/runebuf/internal/capture"
	"github.com/ardougne/runebuf/internal/core/data"
	"github.com/ardougne/runebuf/pkg/buffer"
	"github.com/ardougne/runebuf/pkg/layout"
)

var (
	captureSession   string
	captureLayout    string
	captureOffset    int
	captureDirection string
	capturePort      uint16
	captureReplace   bool
)

var captureCmd = &cobra.Command{
	Use:   "capture FILE",
	Short: "Stores the TCP payloads of a packet capture",
	Long: `Reads a pcap or pcapng file and persists every non-empty TCP payload to the
	capture store under the given session name. With --layout, each payload is also
	decoded and the field values stored alongside it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		port := capturePort
		if port == 0 {
			port = uint16(env.config.Capture.ServerPort)
		}
		segments, err := capture.ReadFile(args[0], port)
		if err != nil {
			return err
		}
		env.log.WithFields(logrus.Fields{"file": args[0], "segments": len(segments)}).Info("read capture")

		var l *layout.Layout
		if captureLayout != "" {
			if l, err = env.catalog.Get(captureLayout); err != nil {
				return err
			}
		}

		db, err := data.Initialize(env.config.Database.Engine, env.config.DataSource(), env.config.Debugging.DatabaseLoggingEnabled)
		if err != nil {
			return err
		}
		defer data.Shutdown(db)

		c := &capturer{codec: env.codec(), layout: l, offset: captureOffset, direction: captureDirection, options: env.options}
		rows := c.segments(captureSession, segments)
		if err := store(db, captureSession, rows, captureReplace); err != nil {
			return err
		}
		env.log.WithFields(logrus.Fields{"session": captureSession, "stored": len(rows)}).Info("stored capture")
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVarP(&captureSession, "session", "s", "", "Name to store the segments under")
	captureCmd.Flags().StringVarP(&captureLayout, "layout", "l", "", "Layout to decode each payload with")
	captureCmd.Flags().IntVar(&captureOffset, "offset", 0, "Number of leading payload bytes to skip before decoding")
	captureCmd.Flags().StringVar(&captureDirection, "direction", "", "Only decode segments sent by this side (client or server)")
	captureCmd.Flags().Uint16Var(&capturePort, "port", 0, "Game server port; defaults to capture.server_port")
	captureCmd.Flags().BoolVar(&captureReplace, "replace", false, "Delete any segments already stored for the session")
	_ = captureCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(captureCmd)
}

// capturer turns captured segments into store rows, decoding them when a
// layout is set.
type capturer struct {
	codec     *layout.Codec
	layout    *layout.Layout
	offset    int
	direction string
	options   []buffer.Option
}

func (c *capturer) segments(session string, segments []capture.Segment) []data.Segment {
	rows := make([]data.Segment, 0, len(segments))
	for _, s := range segments {
		row := data.Segment{
			Session:     session,
			Direction:   s.Direction.String(),
			CapturedAt:  s.Timestamp,
			Source:      s.Source,
			Destination: s.Destination,
			Payload:     s.Payload,
		}
		if c.layout != nil && (c.direction == "" || c.direction == row.Direction) {
			row.Layout = c.layout.Name
			row.Decoded, row.DecodeError = c.decode(s.Payload)
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *capturer) decode(payload []byte) (string, string) {
	r := buffer.NewReader(payload, c.options...)
	if err := r.SetPosition(c.offset); err != nil {
		return "", fmt.Sprintf("invalid offset: %v", err)
	}

	var decodeErr string
	values, err := c.codec.Decode(r, c.layout)
	if err != nil {
		decodeErr = err.Error()
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err.Error()
	}
	return string(encoded), decodeErr
}

func store(db *gorm.DB, session string, rows []data.Segment, replace bool) error {
	if replace {
		if err := data.DeleteSession(db, session); err != nil {
			return fmt.Errorf("error deleting session %s: %w", session, err)
		}
	}
	if err := data.SaveSegments(db, rows); err != nil {
		return fmt.Errorf("error storing session %s: %w", session, err)
	}
	return nil
}

// Commands:
//     decode: interprets hex bytes with a packet layout
//     encode: builds a packet body from field values
//     capture: extracts TCP payloads from a pcap file into the capture store
//     segments: prints the stored segments of a capture session
//     layouts: lists the known packet layouts

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ardougne/runebuf/internal/core"
	"github.com/ardougne/runebuf/pkg/buffer"
	"github.com/ardougne/runebuf/pkg/layout"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "runebuf",
	Short: "Encoder and decoder for RuneScape game protocol buffers",
	Long: `Reads and writes packet bodies with the scalar, bit, smart and string
	encodings used by the RuneScape game protocol. Packet shapes are described by
	layout files, which can be applied to hex strings or to every TCP payload in a
	packet capture.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "Directory (or file) containing config.yaml")
}

// environment is everything a command needs that comes from the config.
type environment struct {
	config  *core.Config
	log     *logrus.Logger
	catalog *layout.Catalog
	options []buffer.Option
}

func loadEnvironment() (*environment, error) {
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := core.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	enc, err := cfg.Encoding()
	if err != nil {
		return nil, fmt.Errorf("invalid charset: %w", err)
	}

	env := &environment{
		config:  cfg,
		log:     log,
		catalog: layout.NewCatalog(cfg.LayoutsDir, cfg.LayoutCacheTTL),
	}
	if enc != nil {
		env.options = append(env.options, buffer.WithCharset(enc))
	}
	return env, nil
}

func (e *environment) codec() *layout.Codec {
	return &layout.Codec{Logger: e.log}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

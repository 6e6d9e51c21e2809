package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/ardougne/runebuf/internal/core/bytes"
	"github.com/ardougne/runebuf/pkg/buffer"
	"github.com/ardougne/runebuf/pkg/layout"
)

var (
	decodeLayout string
	decodeOffset int
	decodeDump   bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode HEX...",
	Short: "Decodes hex bytes with a packet layout",
	Long: `Decodes the bytes given as hex (spaces, commas and 0x prefixes are ignored)
	with the named layout and prints one line per field.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		l, err := env.catalog.Get(decodeLayout)
		if err != nil {
			return err
		}
		data, err := bytes.ParseHex(strings.Join(args, " "))
		if err != nil {
			return err
		}
		dump := decodeDump || env.config.Debugging.DumpValues
		return decode(cmd.OutOrStdout(), env.codec(), l, data, decodeOffset, dump, env.options...)
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeLayout, "layout", "l", "", "Name of the layout to decode with")
	decodeCmd.Flags().IntVar(&decodeOffset, "offset", 0, "Number of leading bytes to skip, e.g. an opcode and length")
	decodeCmd.Flags().BoolVar(&decodeDump, "dump", false, "Dump the decoded values with go-spew")
	_ = decodeCmd.MarkFlagRequired("layout")
	rootCmd.AddCommand(decodeCmd)
}

func decode(w io.Writer, codec *layout.Codec, l *layout.Layout, data []byte, offset int, dump bool, opts ...buffer.Option) error {
	r := buffer.NewReader(data, opts...)
	if err := r.SetPosition(offset); err != nil {
		return fmt.Errorf("invalid offset: %w", err)
	}

	values, err := codec.Decode(r, l)
	printValues(w, l, values)
	if dump {
		spew.Fdump(w, values)
	}
	if err != nil {
		return err
	}

	if remaining, err := r.Readable(); err == nil && remaining > 0 {
		tail := make([]byte, remaining)
		if err := r.BytesAt(r.Position(), tail); err == nil {
			fmt.Fprintf(w, "%d trailing bytes:\n%s", remaining, bytes.HexDump(tail))
		}
	}
	return nil
}

func printValues(w io.Writer, l *layout.Layout, values []layout.Value) {
	shapes := make(map[string]string, len(l.Fields))
	for i := range l.Fields {
		shapes[l.Fields[i].Name] = l.Fields[i].Describe()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range values {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Field, shapes[v.Field], v)
	}
	tw.Flush()
}

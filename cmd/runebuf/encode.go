package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardougne/runebuf/internal/core/bytes"
	"github.com/ardougne/runebuf/pkg/buffer"
	"github.com/ardougne/runebuf/pkg/layout"
)

var (
	encodeLayout string
	encodeValues map[string]string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encodes field values with a packet layout",
	Long: `Writes every field of the named layout, taking the values from --set flags,
	and prints the resulting bytes as hex followed by a hex dump. Numbers may be
	written in decimal, hex (0x) or octal (0o), byte blocks as hex strings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		l, err := env.catalog.Get(encodeLayout)
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), env.codec(), l, encodeValues, env.options...)
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeLayout, "layout", "l", "", "Name of the layout to encode with")
	encodeCmd.Flags().StringToStringVar(&encodeValues, "set", nil, "Field value as name=value; may be repeated")
	_ = encodeCmd.MarkFlagRequired("layout")
	rootCmd.AddCommand(encodeCmd)
}

func encode(w io.Writer, codec *layout.Codec, l *layout.Layout, set map[string]string, opts ...buffer.Option) error {
	values := make(map[string]interface{}, len(set))
	for k, v := range set {
		values[k] = v
	}

	out := buffer.NewWriter(opts...)
	if err := codec.Encode(out, l, values); err != nil {
		return err
	}
	if out.Mode() != buffer.ByteAccess {
		if err := out.SwitchToByteAccess(); err != nil {
			return err
		}
	}

	data := out.Bytes()
	fmt.Fprintln(w, bytes.FormatHex(data))
	fmt.Fprint(w, bytes.HexDump(data))
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/geometry"
)

var decodeFlags struct {
	sizeKB        uint64
	blockSize     uint64
	associativity uint64
	addressWidth  int
}

var decodeCmd = &cobra.Command{
	Use:   "decode <address>",
	Short: "Split an address into its tag, set-index, and offset fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return err
		}

		geom, err := geometry.Make(
			decodeFlags.sizeKB*1024,
			decodeFlags.blockSize,
			decodeFlags.associativity,
			decodeFlags.addressWidth,
		)
		if err != nil {
			return err
		}

		fields := geom.Decode(addr)

		fmt.Printf("address      0x%08x\n", addr)
		fmt.Printf("tag          0x%x (%d bits)\n", fields.Tag, geom.TagBits)
		fmt.Printf("set index    %d (%d bits, %d sets)\n",
			fields.SetIndex, geom.SetIndexBits, geom.NumSets)
		fmt.Printf("block offset %d (%d bits)\n",
			fields.Offset, geom.OffsetBits)

		return nil
	},
}

func init() {
	decodeCmd.Flags().Uint64Var(&decodeFlags.sizeKB,
		"size-kb", 64, "total cache size in KB")
	decodeCmd.Flags().Uint64Var(&decodeFlags.blockSize,
		"block-size", 64, "block size in bytes")
	decodeCmd.Flags().Uint64Var(&decodeFlags.associativity,
		"ways", 1, "ways per set, 0 for fully associative")
	decodeCmd.Flags().IntVar(&decodeFlags.addressWidth,
		"address-width", geometry.DefaultAddressWidth, "address width in bits")

	rootCmd.AddCommand(decodeCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/hierarchy"
	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/workload"
)

var runFlags struct {
	workloadType string
	base         uint64
	wordSize     uint64
	stride       uint64
	span         uint64
	writeProb    float64
	seed         int64
	count        int
	sqlite       string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload through the default hierarchy and print statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := hierarchy.MakeBuilder()

		if runFlags.sqlite != "" {
			builder = builder.WithRecorder(recording.New(runFlags.sqlite))
		}

		sim, err := builder.Build()
		if err != nil {
			return err
		}

		gen, err := makeGenerator()
		if err != nil {
			return err
		}

		sim.RunWorkload(gen, runFlags.count)
		printSnapshot(sim)

		return nil
	},
}

func makeGenerator() (workload.Generator, error) {
	f := runFlags

	switch f.workloadType {
	case "sequential":
		return workload.Sequential(f.base, f.wordSize, f.count), nil
	case "strided":
		return workload.Strided(f.base, f.stride, f.count), nil
	case "random":
		if f.span == 0 {
			return nil, fmt.Errorf("random workloads need a non-zero span")
		}

		return workload.Random(f.base, f.span, f.writeProb, f.count, f.seed), nil
	default:
		return nil, fmt.Errorf("unknown workload type %q", f.workloadType)
	}
}

func printSnapshot(sim *hierarchy.Simulator) {
	snapshot := sim.Snapshot()

	for _, l := range snapshot.Levels {
		fmt.Printf("%-8s hits %8d  misses %8d  hit rate %6.2f%%\n",
			l.Name, l.Hits, l.Misses, l.HitRate*100)
	}

	fmt.Printf("%-8s accesses %d\n", "Memory", snapshot.MemoryAccesses)
	fmt.Printf("overall hit rate %.2f%%, average latency %.2f cycles\n",
		snapshot.OverallHitRate*100, snapshot.AverageLatency)
}

func init() {
	runCmd.Flags().StringVar(&runFlags.workloadType,
		"workload", "sequential", "workload type: sequential, strided, random")
	runCmd.Flags().Uint64Var(&runFlags.base,
		"base", 0, "base address")
	runCmd.Flags().Uint64Var(&runFlags.wordSize,
		"word-size", 4, "word size for sequential workloads")
	runCmd.Flags().Uint64Var(&runFlags.stride,
		"stride", 64, "stride for strided workloads")
	runCmd.Flags().Uint64Var(&runFlags.span,
		"span", 1<<20, "address range for random workloads")
	runCmd.Flags().Float64Var(&runFlags.writeProb,
		"write-prob", 0.3, "write probability for random workloads")
	runCmd.Flags().Int64Var(&runFlags.seed,
		"seed", 1, "seed for random workloads")
	runCmd.Flags().IntVar(&runFlags.count,
		"count", 1000, "number of accesses")
	runCmd.Flags().StringVar(&runFlags.sqlite,
		"sqlite", "", "record the access trace into this SQLite file")

	rootCmd.AddCommand(runCmd)
}

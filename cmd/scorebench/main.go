// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"time"

	"github.com/gorse-io/scoremat/base"
	"github.com/gorse-io/scoremat/base/log"
	"github.com/gorse-io/scoremat/cmd/version"
	"github.com/gorse-io/scoremat/device"
	"github.com/gorse-io/scoremat/score"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

var benchCommand = &cobra.Command{
	Use:   "scorebench",
	Short: "Benchmarking tool for score matrix aggregation.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		users, _ := cmd.PersistentFlags().GetInt("users")
		items, _ := cmd.PersistentFlags().GetInt("items")
		rank, _ := cmd.PersistentFlags().GetInt("rank")
		density, _ := cmd.PersistentFlags().GetFloat64("density")
		activation, _ := cmd.PersistentFlags().GetString("activation")
		fill, _ := cmd.PersistentFlags().GetFloat32("fill")
		rounds, _ := cmd.PersistentFlags().GetInt("rounds")
		seed, _ := cmd.PersistentFlags().GetInt64("seed")
		reductions, _ := cmd.PersistentFlags().GetStringSlice("reductions")
		deviceMemory, _ := cmd.PersistentFlags().GetInt64("device-memory")
		var dev device.Device
		if deviceMemory > 0 {
			dev = device.NewVirtual("emu0", uint64(deviceMemory))
		}

		matrix, events := composeMatrix(users, items, rank, density, score.Activation(activation), fill, seed)
		fmt.Println("Matrix composed:")
		fmt.Printf("  Users: %d\n", users)
		fmt.Printf("  Items: %d\n", items)
		fmt.Printf("  Rank: %d\n", rank)
		fmt.Printf("  Exposure events: %d\n", events)
		fmt.Printf("  Batch size: %d\n", matrix.BatchSize(dev))

		bar := progressbar.Default(int64(rounds*len(reductions)), "Aggregating score matrix")
		for _, reduction := range reductions {
			var value float32
			latencies := make([]float64, 0, rounds)
			for i := 0; i < rounds; i++ {
				start := time.Now()
				result, err := score.Aggregate(matrix, reduction, dev)
				if err != nil {
					log.Logger().Fatal("failed to aggregate score matrix",
						zap.String("reduction", reduction), zap.Error(err))
				}
				value = result
				latencies = append(latencies, time.Since(start).Seconds()*1000)
				_ = bar.Add(1)
			}
			fmt.Printf("%s: %v (%.2f ms +/- %.2f ms over %d rounds)\n",
				reduction, value, stat.Mean(latencies, nil), stat.StdDev(latencies, nil), rounds)
		}
	},
}

// composeMatrix builds an exposure-weighted prediction matrix. Predictions
// come from random factors. Exposure weights come from sampled feedback events
// that only ever touch four fifths of the items, so the frame must be
// reindexed onto the full item set before it multiplies the predictions.
func composeMatrix(users, items, rank int, density float64, act score.Activation, fill float32, seed int64) (score.Matrix, int) {
	rng := base.NewRandomGenerator(seed)
	userLabels := base.Labels("user", users)
	itemLabels := base.Labels("item", items)
	predictions, err := score.NewLowRank(
		score.NewDense(users, rank, rng.NormalVector(users*rank, 0, 0.1)),
		score.NewDense(items, rank, rng.NormalVector(items*rank, 0, 0.1)),
		userLabels, itemLabels, act)
	if err != nil {
		log.Logger().Fatal("failed to create factored matrix", zap.Error(err))
	}
	seenLabels := lo.Map(rng.Sample(0, items, items*4/5), func(pos int, _ int) string {
		return itemLabels[pos]
	})
	events := int(density * float64(users*len(seenLabels)))
	eventRows := make([]string, events)
	eventCols := make([]string, events)
	for i := range eventRows {
		eventRows[i] = userLabels[rng.Intn(users)]
		eventCols[i] = seenLabels[rng.Intn(len(seenLabels))]
	}
	exposure, err := score.FrameFromEvents(userLabels, seenLabels,
		eventRows, eventCols, rng.UniformVector(events, 0.1, 1))
	if err != nil {
		log.Logger().Fatal("failed to build exposure frame", zap.Error(err))
	}
	aligned, err := exposure.Reindex(itemLabels, 1, fill)
	if err != nil {
		log.Logger().Fatal("failed to reindex exposure frame", zap.Error(err))
	}
	weighted, err := predictions.Multiply(aligned)
	if err != nil {
		log.Logger().Fatal("failed to compose score expression", zap.Error(err))
	}
	return weighted, events
}

func init() {
	log.AddFlags(benchCommand.PersistentFlags())
	benchCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	benchCommand.PersistentFlags().BoolP("version", "v", false, "scorebench version")
	benchCommand.PersistentFlags().Int("users", 10000, "number of user rows")
	benchCommand.PersistentFlags().Int("items", 1000, "number of item columns")
	benchCommand.PersistentFlags().Int("rank", 32, "number of factor components")
	benchCommand.PersistentFlags().Float64("density", 0.01, "share of observed exposure events")
	benchCommand.PersistentFlags().String("activation", "sigmoid", "activation of the factored matrix (exp or sigmoid)")
	benchCommand.PersistentFlags().Float32("fill", 0, "exposure weight of unobserved items")
	benchCommand.PersistentFlags().Int("rounds", 10, "number of measured rounds per reduction")
	benchCommand.PersistentFlags().Int64("seed", 42, "random seed")
	benchCommand.PersistentFlags().StringSlice("reductions", []string{"max", "min", "sum"}, "reductions to benchmark")
	benchCommand.PersistentFlags().Int64("device-memory", 0, "memory in bytes of an emulated device (0 evaluates on the host)")
}

func main() {
	if err := benchCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}

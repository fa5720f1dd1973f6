package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/state"
	"github.com/delaneyj/signalbridge/viewer"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

var (
	layerCounts    = []int{1, 10, 100}
	callbackCounts = []int{1, 10, 100}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure hover propagation through stream and plain callbacks",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Selection changes per measurement",
				Value: 1_000,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: benchmark,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmark(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	log.Printf("warming up")
	benchmarkMode(config.ModeStream, iters, false)

	benchmarkMode(config.ModeStream, iters, true)
	benchmarkMode(config.ModePlain, iters, true)
	return nil
}

func benchmarkMode(mode config.CallbackMode, iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("%s callbacks", mode))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "calls", "avg", "min", "p75", "p99", "max"})

	for _, layers := range layerCounts {
		for _, callbacks := range callbackCounts {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			st := state.NewViewer()
			cfg := config.Default()
			cfg.CallbackMode = mode
			v, err := viewer.New(st, cfg)
			if err != nil {
				log.Panic(err)
			}

			calls := 0
			for i := 0; i < callbacks; i++ {
				v.AddMouseOverSegmentCallback(func(*uint64, viewer.LayerRef) { calls++ })
			}
			segs := make([]*state.SegmentationLayer, layers)
			for i := range segs {
				segs[i] = st.NewSegmentationLayer(fmt.Sprintf("precomputed://bench/%d", i))
				st.Layers().AddLayer(fmt.Sprintf("seg%d", i), segs[i])
			}

			for i := 0; i < iters; i++ {
				sel := segs[i%layers].Selection()
				start := time.Now()
				sel.Set(uint64(i))
				tach.AddTime(time.Since(start))
			}
			v.Dispose()

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("hover: %d layers * %d callbacks", layers, callbacks),
					humanize.Comma(int64(calls)),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

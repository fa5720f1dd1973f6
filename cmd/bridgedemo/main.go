package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/state"
	"github.com/delaneyj/signalbridge/viewer"
)

const (
	configKey = "config"
	layersKey = "layers"
	eventsKey = "events"
	modeKey   = "mode"
	seedKey   = "seed"
)

func main() {
	cmd := &cli.Command{
		Name:  "bridgedemo",
		Usage: "Drive a viewer through a hover scenario and print what the callbacks saw",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "Path to a .toml or .yaml viewer config",
			},
			&cli.UintFlag{
				Name:  layersKey,
				Usage: "Number of segmentation layers",
				Value: 2,
			},
			&cli.UintFlag{
				Name:  eventsKey,
				Usage: "Number of hover changes to simulate",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  modeKey,
				Usage: "Callback mode, stream or plain (overrides the config file)",
			},
			&cli.IntFlag{
				Name:  seedKey,
				Usage: "Random seed for the hover sequence",
				Value: 1,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := cmd.String(configKey); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if mode := cmd.String(modeKey); mode != "" {
		cfg.CallbackMode = config.CallbackMode(mode)
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()

	start := time.Now()
	log.Info().Str("mode", string(cfg.CallbackMode)).Msg("scenario started")

	st := state.NewViewer()
	rec := &recorder{}
	v, err := viewer.New(st, cfg,
		viewer.WithLogger(log),
		viewer.WithErrorHandler(func(err error) {
			rec.errors++
			log.Warn().Err(err).Msg("pipeline error")
		}),
	)
	if err != nil {
		return err
	}

	remove := v.AddMouseOverSegmentCallback(rec.segment)
	defer remove()
	v.AddMousePositionCallbackInRealSpace(rec.mouse)

	st.Navigation().Position().SetVoxelSize(state.Vec3{4, 4, 40})

	layers := make([]*state.SegmentationLayer, cmd.Uint(layersKey))
	for i := range layers {
		l := st.NewSegmentationLayer(fmt.Sprintf("precomputed://demo/seg%d", i))
		st.Layers().AddLayer(fmt.Sprintf("seg%d", i), l)
		layers[i] = l
	}
	if len(layers) == 0 {
		log.Warn().Msg("no segmentation layers, nothing to hover")
	}

	rnd := rand.New(rand.NewSource(cmd.Int(seedKey)))
	for i := uint64(0); i < cmd.Uint(eventsKey) && len(layers) > 0; i++ {
		l := layers[rnd.Intn(len(layers))]
		st.Mouse().Move(state.Vec3{rnd.Float64() * 1000, rnd.Float64() * 1000, 40})
		if rnd.Intn(4) == 0 {
			l.Selection().Clear()
			continue
		}
		l.Selection().Set(uint64(rnd.Intn(1_000_000)))
	}
	st.Mouse().Leave()

	v.Dispose()
	rec.elapsed = time.Since(start)
	log.Info().Dur("took", rec.elapsed).Msg("scenario finished")

	rec.render(os.Stdout)
	return writeSummary(os.Stdout, cfg, len(layers), rec)
}

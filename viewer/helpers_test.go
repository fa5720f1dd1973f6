package viewer_test

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/state"
	"github.com/delaneyj/signalbridge/viewer"
)

func newViewer(t *testing.T, cfg config.Config, opts ...viewer.Option) (*state.Viewer, *viewer.Viewer) {
	t.Helper()
	st := state.NewViewer()
	opts = append([]viewer.Option{viewer.WithLogger(zerolog.New(zerolog.NewTestWriter(t)))}, opts...)
	v, err := viewer.New(st, cfg, opts...)
	require.NoError(t, err)
	return st, v
}

func plainConfig() config.Config {
	cfg := config.Default()
	cfg.CallbackMode = config.ModePlain
	return cfg
}

func hover(segment *uint64, layer viewer.LayerRef) string {
	if segment == nil {
		return layer.Name + ":-"
	}
	return fmt.Sprintf("%s:%d", layer.Name, *segment)
}

// hoverLog collects hover events as "layer:segment" strings.
type hoverLog struct {
	events []string
}

func (h *hoverLog) add(segment *uint64, layer viewer.LayerRef) {
	h.events = append(h.events, hover(segment, layer))
}

type errorLog struct {
	errs []error
}

func (e *errorLog) handler(err error) {
	e.errs = append(e.errs, err)
}

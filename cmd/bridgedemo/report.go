package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/valyala/quicktemplate"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/state"
	"github.com/delaneyj/signalbridge/viewer"
)

type event struct {
	layer   string
	segment string
}

type recorder struct {
	events      []event
	entered     int
	left        int
	mouseMoves  int
	mouseLeaves int
	errors      int
	elapsed     time.Duration
}

func (r *recorder) segment(id *uint64, layer viewer.LayerRef) {
	e := event{layer: layer.Name, segment: "-"}
	if id != nil {
		e.segment = strconv.FormatUint(*id, 10)
		r.entered++
	} else {
		r.left++
	}
	r.events = append(r.events, e)
}

func (r *recorder) mouse(p *state.Vec3) {
	if p == nil {
		r.mouseLeaves++
		return
	}
	r.mouseMoves++
}

func (r *recorder) render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "layer", "segment"})
	for i, e := range r.events {
		table.Append([]string{strconv.Itoa(i + 1), e.layer, e.segment})
	}
	table.Render()
}

func writeSummary(w io.Writer, cfg config.Config, layers int, r *recorder) error {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	streamSummary(qw, cfg, layers, r)
	return nil
}

func streamSummary(qw *quicktemplate.Writer, cfg config.Config, layers int, r *recorder) {
	q := qw.N()
	q.S("mode: ")
	q.S(string(cfg.CallbackMode))
	q.S("\nlayers: ")
	q.D(layers)
	q.S("\nsegment events: ")
	q.S(humanize.Comma(int64(len(r.events))))
	q.S(fmt.Sprintf(" (%s entered, %s left)", humanize.Comma(int64(r.entered)), humanize.Comma(int64(r.left))))
	q.S("\nmouse events: ")
	q.S(humanize.Comma(int64(r.mouseMoves + r.mouseLeaves)))
	q.S("\nerrors: ")
	q.D(r.errors)
	q.S("\nelapsed: ")
	q.S(r.elapsed.String())
	q.S("\n")
}

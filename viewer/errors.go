package viewer

import (
	"errors"
	"fmt"

	"github.com/delaneyj/signalbridge/rx"
)

var (
	ErrNoLayer        = errors.New("no segmentation layer found")
	ErrAmbiguousLayer = errors.New("ambiguous request, multiple segmentation layers found")
	ErrColorRange     = errors.New("color channel out of range 0 to 255")
	ErrNoVoxelSize    = errors.New("voxel size is not known yet")
)

// ConfigurationError reports a pipeline used without the capability it needs
// having been enabled when the viewer was composed. It is returned to the
// caller and never routed to the error handler.
func ConfigurationError(op, msg string) error {
	return &rx.Error{Op: op, Kind: rx.KindConfiguration, Err: errors.New(msg)}
}

// report routes err to the error handler, or drops it when none is set.
func (v *Viewer) report(err error) {
	if err == nil {
		return
	}
	if h := v.errorHandler; h != nil {
		h(err)
		return
	}
	v.log.Debug().Err(err).Msg("dropping error, no handler registered")
}

// fail reports err and hands it back for returning to the caller.
func (v *Viewer) fail(op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	v.report(err)
	return err
}

// invoke runs a consumer callback, routing a panic to the error handler
// instead of letting it unwind into the dispatching signal.
func (v *Viewer) invoke(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			v.report(&rx.Error{Op: op, Kind: rx.KindCallback, Err: err, Value: r})
		}
	}()
	fn()
}

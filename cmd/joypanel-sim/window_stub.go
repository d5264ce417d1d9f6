//go:build !tinygo && !cgo

package main

import "errors"

func runWindow(_ *simulator) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}

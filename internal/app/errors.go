package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoCharts = errors.New("no chart paths provided")
)

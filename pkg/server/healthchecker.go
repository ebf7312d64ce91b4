package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// FuncHealthChecker adapts a probe function, typically a cheap call against
// the index backend.
type FuncHealthChecker struct {
	probe func(ctx context.Context) error
}

func NewFuncHealthChecker(probe func(ctx context.Context) error) *FuncHealthChecker {
	return &FuncHealthChecker{probe: probe}
}

func (hc *FuncHealthChecker) Healthy(ctx context.Context) bool {
	return hc.probe(ctx) == nil
}

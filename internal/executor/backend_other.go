//go:build !darwin

package executor

import "github.com/phinze/overmouse/internal/event"

type unsupported struct{}

func newBackend() (Backend, error) { return unsupported{}, nil }

func (unsupported) PostKey(uint16, event.Modifiers) error { return ErrUnsupported }

func (unsupported) PostMiddleClick() error { return ErrUnsupported }

func (unsupported) PostScroll(event.ScrollDelta, event.Modifiers) error { return ErrUnsupported }

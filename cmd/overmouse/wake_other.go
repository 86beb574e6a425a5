//go:build !darwin

package main

import (
	"context"
	"log/slog"
)

func watchWake(context.Context, *slog.Logger) <-chan struct{} { return nil }

package dut

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

// AdapterDialer returns a Dialer that connects a new adapter from factory to
// desc on every call.
func AdapterDialer(factory adapter.Factory, desc conninfo.Descriptor, logger *slog.Logger) Dialer {
	return func(ctx context.Context) (Conn, error) {
		a := factory(logger)
		if err := a.Connect(ctx, desc); err != nil {
			return nil, err
		}
		return a, nil
	}
}

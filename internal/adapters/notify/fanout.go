package notify

import (
	"context"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Publisher receives stored alerts.
type Publisher interface {
	Publish(ctx context.Context, a model.Alert)
}

// Fanout hands every alert to each publisher in order.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(ctx context.Context, a model.Alert) { //nolint:gocritic // hugeParam
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, a)
		}
	}
}

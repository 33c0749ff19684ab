package contextx

import (
	"context"
	"fmt"
	"strconv"
)

// LeadID идентификатор сделки AmoCRM, обрабатываемой в текущем запросе.
type LeadID int64

type contextKeyLeadID struct{}

func (l LeadID) String() string {
	return strconv.FormatInt(int64(l), 10)
}

func WithLeadID(ctx context.Context, leadID LeadID) context.Context {
	return context.WithValue(ctx, contextKeyLeadID{}, leadID)
}

func LeadIDFromContext(ctx context.Context) (LeadID, error) {
	leadID, ok := ctx.Value(contextKeyLeadID{}).(LeadID)
	if !ok {
		return 0, fmt.Errorf("lead id: %w", ErrNoValue)
	}

	return leadID, nil
}

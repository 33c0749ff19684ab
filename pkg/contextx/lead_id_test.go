package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"amo_checkbox/pkg/contextx"
)

func TestLeadID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testLeadIDEmpty contextx.LeadID

	testLeadIDNotEmpty := contextx.LeadID(555)

	leadID, err := contextx.LeadIDFromContext(ctx)
	rq.Equal(testLeadIDEmpty, leadID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "lead id: no value in context")

	ctx = contextx.WithLeadID(ctx, testLeadIDNotEmpty)

	leadID, err = contextx.LeadIDFromContext(ctx)
	rq.Equal(testLeadIDNotEmpty, leadID)
	rq.NoError(err)

	rq.Equal("555", leadID.String())
}

package transportbox_test

import (
	"testing"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_EveryStateHasErrorEdgeCase(t *testing.T) {
	for _, s := range transportbox.States() {
		node, ok := transportbox.Node(s)
		require.True(t, ok, s.String())

		tr, found := transportbox.Lookup(s, transportbox.OpError, transportbox.Error)
		require.True(t, found, s.String())
		assert.Equal(t, transportbox.TransitionEdgeCase, tr.Type)
		assert.Contains(t, targets(node.EdgeCases), transportbox.Error)
	}
}

func TestNode_ClosedIsTerminal(t *testing.T) {
	node, ok := transportbox.Node(transportbox.Closed)

	require.True(t, ok)
	assert.Empty(t, node.Next)
	assert.Empty(t, node.Previous)
	assert.Equal(t, []transportbox.State{transportbox.Error}, targets(node.EdgeCases))
}

func TestNode_Table(t *testing.T) {
	tests := []struct {
		from     transportbox.State
		next     []transportbox.State
		previous []transportbox.State
		edge     []transportbox.State
	}{
		{transportbox.New, states(transportbox.Opened), nil, states(transportbox.Closed, transportbox.Error)},
		{transportbox.Opened, states(transportbox.InTransit, transportbox.Reserve), states(transportbox.New), states(transportbox.Error)},
		{transportbox.InTransit, states(transportbox.Received), states(transportbox.Opened), states(transportbox.Error)},
		{transportbox.Reserve, states(transportbox.Received), states(transportbox.Opened), states(transportbox.Error)},
		{transportbox.Received, states(transportbox.Stocked), nil, states(transportbox.Closed, transportbox.Error)},
		{transportbox.Stocked, states(transportbox.Closed), nil, states(transportbox.Error)},
		{transportbox.Error, nil, nil, states(transportbox.Stocked, transportbox.Error)},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			node, ok := transportbox.Node(tt.from)

			require.True(t, ok)
			assert.Equal(t, tt.next, targets(node.Next))
			assert.Equal(t, tt.previous, targets(node.Previous))
			assert.Equal(t, tt.edge, targets(node.EdgeCases))
		})
	}
}

func TestLookup_SystemOnly(t *testing.T) {
	tr, ok := transportbox.Find(transportbox.Received, transportbox.Stocked)
	require.True(t, ok)
	assert.True(t, tr.SystemOnly)

	tr, ok = transportbox.Find(transportbox.Error, transportbox.Stocked)
	require.True(t, ok)
	assert.False(t, tr.SystemOnly)
}

func TestAllowedSources(t *testing.T) {
	assert.Equal(t,
		states(transportbox.InTransit, transportbox.Reserve),
		transportbox.AllowedSources(transportbox.OpRevertToOpened, transportbox.Opened),
	)
	assert.Equal(t,
		states(transportbox.New, transportbox.Received, transportbox.Stocked),
		transportbox.AllowedSources(transportbox.OpClose, transportbox.Closed),
	)
	assert.Equal(t, transportbox.States(), transportbox.AllowedSources(transportbox.OpError, transportbox.Error))
}

func TestTransitionError(t *testing.T) {
	box := boxIn(t, transportbox.New)

	err := box.ToTransit(now, user)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	var trErr *transportbox.TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, transportbox.New, trErr.Current)
	assert.Equal(t, transportbox.InTransit, trErr.Target)
	assert.Equal(t, states(transportbox.Opened), trErr.Allowed)
	assert.Equal(t,
		"state transition is invalid: ToTransit cannot move box from New to InTransit, allowed from: [Opened]",
		err.Error(),
	)
}

func TestTransitionError_WithCause(t *testing.T) {
	box, err := transportbox.NewTransportBox(1, now, user)
	require.NoError(t, err)
	require.NoError(t, box.Open("B001", now, user))

	err = box.ToTransit(now, user)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	require.ErrorIs(t, err, transportbox.ErrBoxHasNoItems)
	assert.Contains(t, err.Error(), "(cause: box has no items)")
}

func states(s ...transportbox.State) []transportbox.State {
	return s
}

func targets(ts []transportbox.Transition) []transportbox.State {
	var out []transportbox.State
	for _, t := range ts {
		out = append(out, t.Target)
	}
	return out
}

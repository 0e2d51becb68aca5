package queries

import (
	"context"
	"errors"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

var (
	ErrGetTransportBoxTransitionsQueryIsNotConstructed = errors.New(
		"GetTransportBoxTransitionsQuery must be created via NewGetTransportBoxTransitionsQuery constructor",
	)
)

// GetTransportBoxTransitionsQuery describes the outgoing edges of one state,
// without evaluating guard conditions.
type GetTransportBoxTransitionsQuery struct {
	state transportbox.State
	guard guard.ConstructorGuard
}

func NewGetTransportBoxTransitionsQuery(state string) (GetTransportBoxTransitionsQuery, error) {
	parsed, err := transportbox.ParseState(state)
	if err != nil {
		return GetTransportBoxTransitionsQuery{}, err
	}

	return GetTransportBoxTransitionsQuery{state: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTransportBoxTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetTransportBoxTransitionsQueryIsNotConstructed)
}

func (q GetTransportBoxTransitionsQuery) State() transportbox.State {
	return q.state
}

type GetTransportBoxTransitionsQueryResponse struct {
	State       transportbox.State
	Transitions []TransitionResponse
}

// GetTransportBoxTransitionsQueryHandler answers from the in-memory transition table.
type GetTransportBoxTransitionsQueryHandler struct{}

func NewGetTransportBoxTransitionsQueryHandler() GetTransportBoxTransitionsQueryHandler {
	return GetTransportBoxTransitionsQueryHandler{}
}

func (h GetTransportBoxTransitionsQueryHandler) Handle(
	_ context.Context,
	query GetTransportBoxTransitionsQuery,
) (*GetTransportBoxTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	node, ok := transportbox.Node(query.State())
	if !ok {
		return nil, errs.NewObjectNotFoundError("state", query.State().String())
	}

	transitions := make([]TransitionResponse, 0)
	for _, t := range node.Transitions() {
		transitions = append(transitions, toTransitionResponse(t))
	}

	return &GetTransportBoxTransitionsQueryResponse{State: query.State(), Transitions: transitions}, nil
}

package http

import (
	"context"
	"net/http"
	"time"

	"heblo/internal/adapters/in/http/api"
	"heblo/internal/core/application/catalog"
	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/application/usecases/queries"
	"heblo/internal/core/domain/model/transportbox"

	"github.com/labstack/echo/v4"
)

type (
	CreateTransportBoxHandler interface {
		Handle(ctx context.Context, cmd commands.CreateTransportBoxCommand) (int, error)
	}
	ChangeTransportBoxStateHandler interface {
		Handle(
			ctx context.Context,
			cmd commands.ChangeTransportBoxStateCommand,
		) (commands.ChangeTransportBoxStateResult, error)
	}
	AddTransportBoxItemHandler interface {
		Handle(ctx context.Context, cmd commands.AddTransportBoxItemCommand) (int, error)
	}
	RemoveTransportBoxItemHandler interface {
		Handle(ctx context.Context, cmd commands.RemoveTransportBoxItemCommand) error
	}
	GetTransportBoxHandler interface {
		Handle(ctx context.Context, query queries.GetTransportBoxQuery) (*queries.GetTransportBoxQueryResponse, error)
	}
	GetTransportBoxesHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetTransportBoxesQuery,
		) (*queries.GetTransportBoxesQueryResponse, error)
	}
	GetTransportBoxTransitionsHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetTransportBoxTransitionsQuery,
		) (*queries.GetTransportBoxTransitionsQueryResponse, error)
	}
	GetCatalogHandler interface {
		Handle(ctx context.Context, query queries.GetCatalogQuery) (*queries.GetCatalogQueryResponse, error)
	}
	GetMergeStatusHandler interface {
		Handle(ctx context.Context) queries.GetMergeStatusQueryResponse
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateTransportBox      CreateTransportBoxHandler
	ChangeTransportBoxState ChangeTransportBoxStateHandler
	AddTransportBoxItem     AddTransportBoxItemHandler
	RemoveTransportBoxItem  RemoveTransportBoxItemHandler

	GetTransportBox            GetTransportBoxHandler
	GetTransportBoxes          GetTransportBoxesHandler
	GetTransportBoxTransitions GetTransportBoxTransitionsHandler
	GetCatalog                 GetCatalogHandler
	GetMergeStatus             GetMergeStatusHandler
}

// Server implements api.ServerInterface on top of the application use cases.
// Handler errors are returned to echo and rendered by the error handler.
type Server struct {
	handlers Handlers
}

var _ api.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// CreateTransportBox handles POST /api/v1/transport-boxes.
func (s *Server) CreateTransportBox(ctx echo.Context, params api.UserParams) error {
	cmd, err := commands.NewCreateTransportBoxCommand(params.XUserName)
	if err != nil {
		return err
	}

	id, err := s.handlers.CreateTransportBox.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, api.Created{ID: id})
}

// ListTransportBoxes handles GET /api/v1/transport-boxes.
func (s *Server) ListTransportBoxes(ctx echo.Context, params api.ListTransportBoxesParams) error {
	limit := queries.DefaultPageSize
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetTransportBoxesQuery(
		valueOf(params.State),
		valueOf(params.Code),
		limit,
		valueOf(params.Offset),
	)
	if err != nil {
		return err
	}

	page, err := s.handlers.GetTransportBoxes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := api.TransportBoxPage{
		Items: make([]api.TransportBoxSummary, len(page.Items)),
		Total: page.Total,
	}
	for i, box := range page.Items {
		response.Items[i] = api.TransportBoxSummary{
			ID:               box.ID,
			Code:             box.Code,
			State:            box.State.String(),
			Location:         box.Location,
			ItemCount:        box.ItemCount,
			LastStateChanged: box.LastStateChanged,
			CreatedAt:        box.CreatedAt,
			CreatedBy:        box.CreatedBy,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetTransportBox handles GET /api/v1/transport-boxes/{id}.
func (s *Server) GetTransportBox(ctx echo.Context, id int) error {
	query, err := queries.NewGetTransportBoxQuery(id)
	if err != nil {
		return err
	}

	box, err := s.handlers.GetTransportBox.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := api.TransportBox{
		ID:                  box.ID,
		Code:                box.Code,
		State:               box.State.String(),
		DefaultReceiveState: box.DefaultReceiveState.String(),
		Location:            box.Location,
		LastStateChanged:    box.LastStateChanged,
		CreatedAt:           box.CreatedAt,
		CreatedBy:           box.CreatedBy,
		UpdatedAt:           box.UpdatedAt,
		UpdatedBy:           box.UpdatedBy,
		Items:               make([]api.TransportBoxItem, len(box.Items)),
		StateLog:            make([]api.StateLogEntry, len(box.StateLog)),
		AllowedTransitions:  toTransitions(box.AllowedTransitions),
	}
	for i, item := range box.Items {
		response.Items[i] = api.TransportBoxItem{
			ID:          item.ID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Amount:      item.Amount,
			DateAdded:   item.DateAdded,
			UserAdded:   item.UserAdded,
		}
	}
	for i, entry := range box.StateLog {
		response.StateLog[i] = api.StateLogEntry{
			ID:          entry.ID,
			State:       entry.State.String(),
			Timestamp:   entry.Timestamp,
			User:        entry.UserName,
			Description: entry.Description,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ChangeTransportBoxState handles POST /api/v1/transport-boxes/{id}/state.
func (s *Server) ChangeTransportBoxState(ctx echo.Context, id int, params api.UserParams) error {
	var body api.ChangeStateRequest
	if err := bindBody(ctx, &body); err != nil {
		return err
	}

	target, err := transportbox.ParseState(body.State)
	if err != nil {
		return err
	}

	options := commands.ChangeStateOptions{
		BoxCode:            valueOf(body.BoxCode),
		ConfirmedBoxNumber: valueOf(body.ConfirmedBoxNumber),
		Location:           valueOf(body.Location),
		Description:        valueOf(body.Description),
	}
	if body.ReceiveState != nil {
		if options.ReceiveState, err = transportbox.ParseState(*body.ReceiveState); err != nil {
			return err
		}
	}

	cmd, err := commands.NewChangeTransportBoxStateCommand(id, target, params.XUserName, options)
	if err != nil {
		return err
	}

	result, err := s.handlers.ChangeTransportBoxState.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, api.ChangeStateResponse{
		ID:            result.BoxID,
		PreviousState: result.PreviousState.String(),
		State:         result.State.String(),
	})
}

// AddTransportBoxItem handles POST /api/v1/transport-boxes/{id}/items.
func (s *Server) AddTransportBoxItem(ctx echo.Context, id int, params api.UserParams) error {
	var body api.AddItemRequest
	if err := bindBody(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewAddTransportBoxItemCommand(
		id, body.ProductCode, body.ProductName, body.Amount, params.XUserName,
	)
	if err != nil {
		return err
	}

	itemID, err := s.handlers.AddTransportBoxItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, api.Created{ID: itemID})
}

// RemoveTransportBoxItem handles DELETE /api/v1/transport-boxes/{id}/items/{itemId}.
func (s *Server) RemoveTransportBoxItem(ctx echo.Context, id int, itemID int, params api.UserParams) error {
	cmd, err := commands.NewRemoveTransportBoxItemCommand(id, itemID, params.XUserName)
	if err != nil {
		return err
	}

	if err = s.handlers.RemoveTransportBoxItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetStateTransitions handles GET /api/v1/transport-box-states/{state}/transitions.
func (s *Server) GetStateTransitions(ctx echo.Context, state string) error {
	query, err := queries.NewGetTransportBoxTransitionsQuery(state)
	if err != nil {
		return err
	}

	result, err := s.handlers.GetTransportBoxTransitions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, api.TransitionList{
		State:       result.State.String(),
		Transitions: toTransitions(result.Transitions),
	})
}

// GetCatalog handles GET /api/v1/catalog.
func (s *Server) GetCatalog(ctx echo.Context, params api.GetCatalogParams) error {
	query := queries.NewGetCatalogQuery(valueOf(params.ProductCode))

	result, err := s.handlers.GetCatalog.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := api.Catalog{
		Items:    make([]api.CatalogItem, len(result.Items)),
		MergedAt: timeOrNil(result.MergedAt),
	}
	for i, item := range result.Items {
		response.Items[i] = toCatalogItem(item)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetMergeStatus handles GET /api/v1/catalog/merge-status.
func (s *Server) GetMergeStatus(ctx echo.Context) error {
	status := s.handlers.GetMergeStatus.Handle(ctx.Request().Context())

	return ctx.JSON(http.StatusOK, api.MergeStatus{
		InProgress:    status.InProgress,
		Pending:       status.Pending,
		LastMergeTime: timeOrNil(status.LastMergeTime),
	})
}

func bindBody(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return err
	}
	return ctx.Validate(body)
}

func toTransitions(in []queries.TransitionResponse) []api.Transition {
	out := make([]api.Transition, len(in))
	for i, t := range in {
		out[i] = api.Transition{
			Target:      t.Target.String(),
			Type:        t.Type.String(),
			SystemOnly:  t.SystemOnly,
			Conditional: t.Conditional,
		}
	}
	return out
}

func toCatalogItem(item catalog.Item) api.CatalogItem {
	return api.CatalogItem{
		ProductCode:      item.ProductCode,
		ProductName:      item.ProductName,
		InOpenedBoxes:    item.InOpenedBoxes,
		InTransit:        item.InTransit,
		InReserve:        item.InReserve,
		StockedFromBoxes: item.StockedFromBoxes,
	}
}

func valueOf[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const userNameHeader = "X-User-Name"

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/v1/transport-boxes)
	CreateTransportBox(ctx echo.Context, params UserParams) error
	// (GET /api/v1/transport-boxes)
	ListTransportBoxes(ctx echo.Context, params ListTransportBoxesParams) error
	// (GET /api/v1/transport-boxes/{id})
	GetTransportBox(ctx echo.Context, id int) error
	// (POST /api/v1/transport-boxes/{id}/state)
	ChangeTransportBoxState(ctx echo.Context, id int, params UserParams) error
	// (POST /api/v1/transport-boxes/{id}/items)
	AddTransportBoxItem(ctx echo.Context, id int, params UserParams) error
	// (DELETE /api/v1/transport-boxes/{id}/items/{itemId})
	RemoveTransportBoxItem(ctx echo.Context, id int, itemID int, params UserParams) error
	// (GET /api/v1/transport-box-states/{state}/transitions)
	GetStateTransitions(ctx echo.Context, state string) error
	// (GET /api/v1/catalog)
	GetCatalog(ctx echo.Context, params GetCatalogParams) error
	// (GET /api/v1/catalog/merge-status)
	GetMergeStatus(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateTransportBox(ctx echo.Context) error {
	params, err := bindUser(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CreateTransportBox(ctx, params)
}

func (w *ServerInterfaceWrapper) ListTransportBoxes(ctx echo.Context) error {
	var params ListTransportBoxesParams

	if err := runtime.BindQueryParameter("form", true, false, "state", ctx.QueryParams(), &params.State); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter state: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "code", ctx.QueryParams(), &params.Code); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter code: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	return w.Handler.ListTransportBoxes(ctx, params)
}

func (w *ServerInterfaceWrapper) GetTransportBox(ctx echo.Context) error {
	id, err := bindPathInt(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetTransportBox(ctx, id)
}

func (w *ServerInterfaceWrapper) ChangeTransportBoxState(ctx echo.Context) error {
	id, err := bindPathInt(ctx, "id")
	if err != nil {
		return err
	}
	params, err := bindUser(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeTransportBoxState(ctx, id, params)
}

func (w *ServerInterfaceWrapper) AddTransportBoxItem(ctx echo.Context) error {
	id, err := bindPathInt(ctx, "id")
	if err != nil {
		return err
	}
	params, err := bindUser(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AddTransportBoxItem(ctx, id, params)
}

func (w *ServerInterfaceWrapper) RemoveTransportBoxItem(ctx echo.Context) error {
	id, err := bindPathInt(ctx, "id")
	if err != nil {
		return err
	}
	itemID, err := bindPathInt(ctx, "itemId")
	if err != nil {
		return err
	}
	params, err := bindUser(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RemoveTransportBoxItem(ctx, id, itemID, params)
}

func (w *ServerInterfaceWrapper) GetStateTransitions(ctx echo.Context) error {
	var state string
	err := runtime.BindStyledParameterWithOptions("simple", "state", ctx.Param("state"), &state,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter state: %s", err))
	}
	return w.Handler.GetStateTransitions(ctx, state)
}

func (w *ServerInterfaceWrapper) GetCatalog(ctx echo.Context) error {
	var params GetCatalogParams
	err := runtime.BindQueryParameter("form", true, false, "productCode", ctx.QueryParams(), &params.ProductCode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter productCode: %s", err))
	}
	return w.Handler.GetCatalog(ctx, params)
}

func (w *ServerInterfaceWrapper) GetMergeStatus(ctx echo.Context) error {
	return w.Handler.GetMergeStatus(ctx)
}

func bindPathInt(ctx echo.Context, name string) (int, error) {
	var value int
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return value, nil
}

func bindUser(ctx echo.Context) (UserParams, error) {
	var params UserParams

	values, found := ctx.Request().Header[http.CanonicalHeaderKey(userNameHeader)]
	if !found {
		return params, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Header parameter %s is required, but not found", userNameHeader))
	}
	if len(values) != 1 {
		return params, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Expected one value for %s, got %d", userNameHeader, len(values)))
	}

	err := runtime.BindStyledParameterWithOptions("simple", userNameHeader, values[0], &params.XUserName,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid format for parameter %s: %s", userNameHeader, err))
	}

	return params, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/transport-boxes", wrapper.CreateTransportBox)
	router.GET(baseURL+"/api/v1/transport-boxes", wrapper.ListTransportBoxes)
	router.GET(baseURL+"/api/v1/transport-boxes/:id", wrapper.GetTransportBox)
	router.POST(baseURL+"/api/v1/transport-boxes/:id/state", wrapper.ChangeTransportBoxState)
	router.POST(baseURL+"/api/v1/transport-boxes/:id/items", wrapper.AddTransportBoxItem)
	router.DELETE(baseURL+"/api/v1/transport-boxes/:id/items/:itemId", wrapper.RemoveTransportBoxItem)
	router.GET(baseURL+"/api/v1/transport-box-states/:state/transitions", wrapper.GetStateTransitions)
	router.GET(baseURL+"/api/v1/catalog", wrapper.GetCatalog)
	router.GET(baseURL+"/api/v1/catalog/merge-status", wrapper.GetMergeStatus)
}

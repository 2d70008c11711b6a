package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/zamato/zamato/internal/cart"
	"github.com/zamato/zamato/internal/events"
	"github.com/zamato/zamato/internal/logging"
)

type CartHTTP struct {
	Svc      *cart.Service
	Producer events.Publisher
}

func getUserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

func (h *CartHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Producer.Publish(ctx, events.TopicCartEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("cart_event_publish_failed", "error", err)
	}
}

func cartError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart")

	switch {
	case errors.Is(err, cart.ErrRestaurantMismatch):
		l.Warn("cart_error", "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "cart contains items from another restaurant")
	case errors.Is(err, cart.ErrItemNotFound):
		l.Warn("cart_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, cart.ErrItemUnavailable):
		l.Warn("cart_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "menu item is not available")
	case errors.Is(err, cart.ErrValidation):
		l.Warn("cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		l.Error("cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	result, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

type addItemRequest struct {
	RestaurantID        uuid.UUID `json:"restaurant_id"`
	RestaurantName      string    `json:"restaurant_name"`
	MenuItemID          uuid.UUID `json:"menu_item_id"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions"`
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.AddItem(ctx, userID, req.RestaurantID, req.RestaurantName, req.MenuItemID, req.Quantity, req.SpecialInstructions)
	if err != nil {
		return cartError(c, err)
	}

	h.publish(c, userID.String(), map[string]any{
		"type":         "item_added",
		"user_id":      userID,
		"menu_item_id": req.MenuItemID,
		"quantity":     req.Quantity,
	})

	l.Info("item_added")
	return c.JSON(http.StatusOK, result)
}

type updateItemRequest struct {
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions"`
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("update_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.UpdateItemQuantity(ctx, userID, itemID, req.Quantity, req.SpecialInstructions)
	if err != nil {
		return cartError(c, err)
	}

	h.publish(c, userID.String(), map[string]any{
		"type":     "item_updated",
		"user_id":  userID,
		"item_id":  itemID,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, result)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("remove_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("remove_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	result, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return cartError(c, err)
	}

	h.publish(c, userID.String(), map[string]any{
		"type":    "item_removed",
		"user_id": userID,
		"item_id": itemID,
	})

	return c.JSON(http.StatusOK, result)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	result, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		return cartError(c, err)
	}

	h.publish(c, userID.String(), map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, result)
}

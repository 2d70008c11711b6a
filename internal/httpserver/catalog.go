package httpserver

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zamato/zamato/internal/catalog"
	"github.com/zamato/zamato/internal/events"
	"github.com/zamato/zamato/internal/logging"
	"github.com/zamato/zamato/internal/models"
	"github.com/zamato/zamato/internal/search"
	"github.com/zamato/zamato/internal/util"
)

type CatalogHTTP struct {
	Svc      *catalog.Service
	Producer events.Publisher
	ES       *elasticsearch.Client
}

func (h *CatalogHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Producer.Publish(ctx, events.TopicMenuEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("menu_event_publish_failed", "error", err)
	}
}

func (h *CatalogHTTP) GetRestaurants(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_restaurants")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetRestaurants(ctx, offset, limit)
	if err != nil {
		l.Error("get_restaurants_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list restaurants")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_restaurant")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_restaurant_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	restaurant, err := h.Svc.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_restaurant_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		l.Error("get_restaurant_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get restaurant")
	}

	return c.JSON(http.StatusOK, restaurant)
}

func (h *CatalogHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_menu")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_menu_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	categories, err := h.Svc.GetMenu(ctx, id)
	if err != nil {
		l.Error("get_menu_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get menu")
	}

	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

func (h *CatalogHTTP) CreateRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_restaurant")

	var restaurant models.Restaurant
	if err := c.Bind(&restaurant); err != nil {
		l.Warn("create_restaurant_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.CreateRestaurant(ctx, &restaurant); err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("create_restaurant_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_restaurant_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create restaurant")
	}

	if h.ES != nil {
		if err := search.IndexRestaurant(ctx, h.ES, &restaurant); err != nil {
			l.Warn("restaurant_index_failed", "error", err)
		}
	}

	l.Info("restaurant_created")
	return c.JSON(http.StatusCreated, restaurant)
}

func (h *CatalogHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_menu_item")

	var item models.MenuItem
	if err := c.Bind(&item); err != nil {
		l.Warn("create_menu_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.CreateMenuItem(ctx, &item); err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("create_menu_item_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_menu_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create menu item")
	}

	h.publish(c, item.RestaurantID.String(), map[string]any{
		"type":         "menu_item_created",
		"menu_item_id": item.ID,
		"name":         item.Name,
	})

	l.Info("menu_item_created")
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) PatchMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_menu_item")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_menu_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req catalog.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_menu_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.PatchMenuItem(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("patch_menu_item_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("patch_menu_item_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("patch_menu_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot patch menu item")
	}

	h.publish(c, item.RestaurantID.String(), map[string]any{
		"type":         "menu_item_updated",
		"menu_item_id": item.ID,
		"name":         item.Name,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_menu_item")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_menu_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_menu_item_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		l.Error("delete_menu_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete menu item")
	}

	h.publish(c, id.String(), map[string]any{
		"type":         "menu_item_deleted",
		"menu_item_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}

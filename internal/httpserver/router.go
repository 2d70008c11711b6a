package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/zamato/zamato/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	SearchHandler  *SearchHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.New(d.JWTSecret)

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.POST("/logout", d.AuthHandler.LogOut)

	restaurants := v1.Group("/restaurants")
	restaurants.GET("", d.CatalogHandler.GetRestaurants)
	restaurants.GET("/:id", d.CatalogHandler.GetRestaurant)
	restaurants.GET("/:id/menu", d.CatalogHandler.GetMenu)

	if d.SearchHandler != nil && d.SearchHandler.ES != nil {
		v1.GET("/search", d.SearchHandler.Restaurants)
	}

	owner := v1.Group("/owner", authMW.RequireOwner)
	owner.POST("/restaurants", d.CatalogHandler.CreateRestaurant)
	owner.POST("/menu-items", d.CatalogHandler.CreateMenuItem)
	owner.PATCH("/menu-items/:id", d.CatalogHandler.PatchMenuItem)
	owner.DELETE("/menu-items/:id", d.CatalogHandler.DeleteMenuItem)

	cart := v1.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)
}

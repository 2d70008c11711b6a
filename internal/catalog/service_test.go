package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zamato/zamato/internal/models"
)

func newTestCatalogService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Restaurant{}, &models.MenuItem{}))

	return &Service{Repo: &GormRepo{DB: db}}
}

func TestCreateRestaurant_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	err := svc.CreateRestaurant(context.Background(), &models.Restaurant{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateRestaurant_AssignsID(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	restaurant := models.Restaurant{Name: "Luigi's", Cuisine: "Italian"}
	require.NoError(t, svc.CreateRestaurant(ctx, &restaurant))
	assert.NotEqual(t, uuid.Nil, restaurant.ID)

	got, err := svc.GetRestaurant(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luigi's", got.Name)
}

func TestGetRestaurants_Pagination(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		require.NoError(t, svc.CreateRestaurant(ctx, &models.Restaurant{Name: name}))
	}

	total, page, err := svc.GetRestaurants(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Name)
	assert.Equal(t, "Bravo", page[1].Name)

	_, rest, err := svc.GetRestaurants(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "Charlie", rest[0].Name)
}

func TestCreateMenuItem_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()
	restaurantID := uuid.New()

	tests := []struct {
		name string
		item models.MenuItem
	}{
		{name: "missing name", item: models.MenuItem{RestaurantID: restaurantID}},
		{name: "missing restaurant", item: models.MenuItem{Name: "Margherita"}},
		{name: "negative price", item: models.MenuItem{
			Name:         "Margherita",
			RestaurantID: restaurantID,
			Price:        decimal.RequireFromString("-1"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateMenuItem(ctx, &tt.item)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetMenu_GroupsByCategory(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	restaurant := models.Restaurant{Name: "Luigi's"}
	require.NoError(t, svc.CreateRestaurant(ctx, &restaurant))

	seed := []models.MenuItem{
		{Name: "Tiramisu", Category: "Desserts", Price: decimal.RequireFromString("6.00")},
		{Name: "Margherita", Category: "Pizza", Price: decimal.RequireFromString("12.99")},
		{Name: "Diavola", Category: "Pizza", Price: decimal.RequireFromString("14.50")},
		{Name: "Sparkling Water", Price: decimal.RequireFromString("2.25")},
	}
	for i := range seed {
		seed[i].RestaurantID = restaurant.ID
		require.NoError(t, svc.CreateMenuItem(ctx, &seed[i]))
	}

	categories, err := svc.GetMenu(ctx, restaurant.ID)
	require.NoError(t, err)

	// an empty category sorts first and falls back to "Other"
	require.Len(t, categories, 3)
	assert.Equal(t, "Other", categories[0].Name)
	assert.Len(t, categories[0].Items, 1)
	assert.Equal(t, "Desserts", categories[1].Name)
	assert.Len(t, categories[1].Items, 1)
	assert.Equal(t, "Pizza", categories[2].Name)
	require.Len(t, categories[2].Items, 2)
	assert.Equal(t, "Diavola", categories[2].Items[0].Name)
}

func TestPatchMenuItem(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	item := models.MenuItem{
		Name:         "Margherita",
		RestaurantID: uuid.New(),
		Price:        decimal.RequireFromString("12.99"),
		IsAvailable:  true,
	}
	require.NoError(t, svc.CreateMenuItem(ctx, &item))

	newPrice := decimal.RequireFromString("13.99")
	unavailable := false
	patched, err := svc.PatchMenuItem(ctx, PatchMenuItemRequest{
		Price:       &newPrice,
		IsAvailable: &unavailable,
	}, item.ID)
	require.NoError(t, err)

	assert.Equal(t, "Margherita", patched.Name)
	assert.True(t, patched.Price.Equal(newPrice))
	assert.False(t, patched.IsAvailable)

	negative := decimal.RequireFromString("-5")
	_, err = svc.PatchMenuItem(ctx, PatchMenuItemRequest{Price: &negative}, item.ID)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PatchMenuItem(ctx, PatchMenuItemRequest{}, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteMenuItem(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	item := models.MenuItem{
		Name:         "Margherita",
		RestaurantID: uuid.New(),
		Price:        decimal.RequireFromString("12.99"),
	}
	require.NoError(t, svc.CreateMenuItem(ctx, &item))

	require.NoError(t, svc.DeleteMenuItem(ctx, item.ID))

	_, err := svc.GetMenuItem(ctx, item.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteMenuItem(ctx, item.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

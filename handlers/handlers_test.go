package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"click-collect/config"
	"click-collect/events"
	"click-collect/handlers"
	"click-collect/middleware"
	"click-collect/models"
	"click-collect/orderclient"
	"click-collect/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var secret = []byte("handler-test-secret")

// Monday 10:00 UTC
var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	events  *events.Recorder
	joes    models.Restaurant
	pizza   models.Restaurant
	burger  models.MenuItem
	cola    models.MenuItem
	soldOut models.MenuItem
	margher models.MenuItem

	adminToken      string
	pizzaAdminToken string
	superToken      string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.Config{DBDriver: "sqlite", DBDSN: ":memory:"})
	require.NoError(t, err)

	f := &fixture{t: t, db: db, events: &events.Recorder{}}

	h := handlers.New(db, zap.NewNop().Sugar(), f.events, secret)
	h.Now = func() time.Time { return now }

	f.router = gin.New()
	routes.SetupRoutes(f.router, h)

	f.joes = models.Restaurant{Name: "Joe's Burgers", Slug: "joes", Address: "1 High St", OpeningHours: "Mon-Fri 11:00-14:00, 18:00-22:00", IsOpen: true}
	f.pizza = models.Restaurant{Name: "Pizzeria", Slug: "pizzeria", Address: "2 High St", IsOpen: true}
	require.NoError(t, db.Create(&f.joes).Error)
	require.NoError(t, db.Create(&f.pizza).Error)

	f.burger = models.MenuItem{RestaurantID: f.joes.ID, Name: "Burger", Price: 8.50, Category: "Mains", IsAvailable: true}
	f.cola = models.MenuItem{RestaurantID: f.joes.ID, Name: "Cola", Price: 2, Category: "Drinks", SortOrder: 1, IsAvailable: true}
	f.soldOut = models.MenuItem{RestaurantID: f.joes.ID, Name: "Milkshake", Price: 4, IsAvailable: true}
	f.margher = models.MenuItem{RestaurantID: f.pizza.ID, Name: "Margherita", Price: 9, IsAvailable: true}
	for _, m := range []*models.MenuItem{&f.burger, &f.cola, &f.soldOut, &f.margher} {
		require.NoError(t, db.Create(m).Error)
	}
	require.NoError(t, db.Model(&f.soldOut).Update("is_available", false).Error)

	f.adminToken = f.token(models.RoleAdmin, &f.joes.ID, "joe@example.com")
	f.pizzaAdminToken = f.token(models.RoleAdmin, &f.pizza.ID, "luigi@example.com")
	f.superToken = f.token(models.RoleSuperAdmin, nil, "root@example.com")
	return f
}

func (f *fixture) token(role models.UserRole, restaurantID *uint, email string) string {
	f.t.Helper()
	user := models.User{Name: email, Email: email, PasswordHash: "x", Role: role, RestaurantID: restaurantID}
	require.NoError(f.t, f.db.Create(&user).Error)
	tok, err := middleware.GenerateToken(&user, secret)
	require.NoError(f.t, err)
	return tok
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// detail flattens an error response the way API clients display it.
func detail(w *httptest.ResponseRecorder) string {
	return orderclient.FlattenDetail(w.Code, w.Body.Bytes())
}

func (f *fixture) orderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		RestaurantID:  f.joes.ID,
		CustomerName:  "Ada",
		CustomerPhone: "+442079460958",
		PickupTime:    time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC),
		Items: []models.OrderLine{
			{MenuItemID: f.burger.ID, Quantity: 2},
			{MenuItemID: f.cola.ID, Quantity: 1},
		},
	}
}

func (f *fixture) placeOrder() models.Order {
	f.t.Helper()
	w := f.do(http.MethodPost, "/api/orders", "", f.orderRequest())
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Order](f.t, w)
}

func TestCreateOrder(t *testing.T) {
	f := setup(t)

	order := f.placeOrder()
	assert.Len(t, order.OrderNumber, 8)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 19.0, order.Subtotal)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Burger", order.Items[0].Name)
	assert.Equal(t, 8.5, order.Items[0].Price)

	var history []models.OrderStatusHistory
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
	assert.Equal(t, "customer", history[0].ChangedBy)

	published := f.events.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.OrderCreated, published[0].Type)
	assert.Equal(t, order.OrderNumber, published[0].OrderNumber)

	w := f.do(http.MethodGet, "/api/orders/"+order.OrderNumber, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Order](t, w)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
	assert.Len(t, got.Items, 2)
	require.NotNil(t, got.Restaurant)
	assert.Equal(t, "joes", got.Restaurant.Slug)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/orders", "", map[string]interface{}{
		"restaurant_id":  f.joes.ID,
		"customer_phone": "123",
		"pickup_time":    "2026-10-19T12:30:00Z",
		"items":          []map[string]interface{}{{"menu_item_id": f.burger.ID, "quantity": 99}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode[struct {
		Detail []handlers.FieldError `json:"detail"`
	}](t, w)
	require.Len(t, body.Detail, 2)
	assert.Equal(t, []interface{}{"body", "customer_name"}, body.Detail[0].Loc)
	assert.Equal(t, "field required", body.Detail[0].Msg)
	assert.Equal(t, []interface{}{"body", "items", float64(0), "quantity"}, body.Detail[1].Loc)

	assert.Equal(t, "customer_name: field required; items.0.quantity: must be less than or equal to 50", detail(w))

	w = f.do(http.MethodPost, "/api/orders", "", map[string]interface{}{"restaurant_id": "joes"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detail"`)

	assert.Empty(t, f.events.Events())
}

func TestCreateOrder_Rules(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name   string
		mutate func(*models.CreateOrderRequest)
		setup  func()
		status int
		msg    string
	}{
		{
			name:   "unknown restaurant",
			mutate: func(r *models.CreateOrderRequest) { r.RestaurantID = 999 },
			status: http.StatusNotFound,
			msg:    "Restaurant not found",
		},
		{
			name:   "item from another restaurant",
			mutate: func(r *models.CreateOrderRequest) { r.Items[1].MenuItemID = f.margher.ID },
			status: http.StatusUnprocessableEntity,
			msg:    "items.1.menu_item_id: menu item",
		},
		{
			name:   "unavailable item",
			mutate: func(r *models.CreateOrderRequest) { r.Items[0].MenuItemID = f.soldOut.ID },
			status: http.StatusUnprocessableEntity,
			msg:    "items.0.menu_item_id: Milkshake is not available",
		},
		{
			name:   "pickup in the past",
			mutate: func(r *models.CreateOrderRequest) { r.PickupTime = now.Add(-time.Minute) },
			status: http.StatusUnprocessableEntity,
			msg:    "pickup_time: pickup time must be in the future",
		},
		{
			name:   "outside opening hours",
			mutate: func(r *models.CreateOrderRequest) { r.PickupTime = time.Date(2026, 10, 19, 16, 0, 0, 0, time.UTC) },
			status: http.StatusUnprocessableEntity,
			msg:    "pickup_time: restaurant is closed",
		},
		{
			name:   "restaurant paused",
			mutate: func(*models.CreateOrderRequest) {},
			setup:  func() { f.db.Model(&f.joes).Update("is_open", false) },
			status: http.StatusBadRequest,
			msg:    "not accepting orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			req := f.orderRequest()
			tt.mutate(&req)

			w := f.do(http.MethodPost, "/api/orders", "", req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, detail(w), tt.msg)
		})
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrder_RestaurantLookupFailure(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Migrator().DropTable(&models.Restaurant{}))

	w := f.do(http.MethodPost, "/api/orders", "", f.orderRequest())

	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	assert.Equal(t, "Failed to load restaurant", detail(w))
	assert.Empty(t, f.events.Events())
}

func TestOrderLifecycle(t *testing.T) {
	f := setup(t)
	order := f.placeOrder()
	base := "/api/orders/" + order.OrderNumber
	status := "/api/admin/orders/" + order.OrderNumber + "/status"

	// collecting before ready is refused
	w := f.do(http.MethodPost, base+"/collect", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, detail(w), "cannot be marked as collected while pending")

	w = f.do(http.MethodPut, status, f.adminToken, gin.H{"status": "ready"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodPut, status, f.pizzaAdminToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPut, status, "", gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, s := range []string{"confirmed", "ready"} {
		w = f.do(http.MethodPut, status, f.adminToken, gin.H{"status": s, "note": "kitchen"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, models.OrderStatus(s), decode[models.Order](t, w).Status)
	}

	// no review before collection
	w = f.do(http.MethodPost, base+"/review", "", gin.H{"rating": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodPost, base+"/collect", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCollected, decode[models.Order](t, w).Status)

	w = f.do(http.MethodGet, base+"/review", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"review":null}`, w.Body.String())

	w = f.do(http.MethodPost, base+"/review", "", gin.H{"rating": 6})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "rating: must be less than or equal to 5", detail(w))

	w = f.do(http.MethodPost, base+"/review", "", gin.H{"rating": 4, "comment": " Tasty "})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Tasty", decode[models.Review](t, w).Comment)

	w = f.do(http.MethodPost, base+"/review", "", gin.H{"rating": 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodGet, base+"/review", "", nil)
	got := decode[struct {
		Review *models.Review `json:"review"`
	}](t, w)
	require.NotNil(t, got.Review)
	assert.Equal(t, 4, got.Review.Rating)

	w = f.do(http.MethodGet, base+"/history", f.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[models.Order](t, w).StatusHistory
	require.Len(t, history, 4)
	assert.Equal(t, models.StatusCollected, history[3].ToStatus)
	assert.Equal(t, "customer", history[3].ChangedBy)
	assert.Regexp(t, `^admin:\d+$`, history[1].ChangedBy)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, base+"/history", f.pizzaAdminToken, nil).Code)

	var types []string
	for _, e := range f.events.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		events.OrderCreated,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
	}, types)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodGet, "/api/orders/NOPE1234", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Order not found"}`, w.Body.String())
}

func TestRestaurantOrders(t *testing.T) {
	f := setup(t)
	first := f.placeOrder()
	f.placeOrder()

	w := f.do(http.MethodPut, "/api/admin/orders/"+first.OrderNumber+"/status", f.adminToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/admin/orders", f.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Summary map[string]int `json:"order_summary"`
		Count   int            `json:"count"`
	}](t, w)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, map[string]int{"pending": 1, "cancelled": 1}, body.Summary)

	w = f.do(http.MethodGet, "/api/admin/orders?status=cancelled", f.adminToken, nil)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = f.do(http.MethodGet, "/api/admin/orders?date=2026-10-25", f.adminToken, nil)
	assert.Equal(t, 0, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/admin/orders?status=lost", f.adminToken, nil).Code)

	w = f.do(http.MethodGet, "/api/admin/orders", f.pizzaAdminToken, nil)
	assert.Equal(t, 0, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/admin/orders", f.superToken, nil).Code)
	w = f.do(http.MethodGet, "/api/superadmin/orders", f.superToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)
}

func TestForceStatus(t *testing.T) {
	f := setup(t)
	order := f.placeOrder()
	path := "/api/superadmin/orders/" + order.OrderNumber + "/status"

	w := f.do(http.MethodPut, path, f.superToken, gin.H{"status": "ready"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, detail(w), "reason: field required")

	w = f.do(http.MethodPut, path, f.superToken, gin.H{"status": "ready", "reason": "phone order"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusReady, decode[models.Order](t, w).Status)

	var last models.OrderStatusHistory
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Order("id desc").First(&last).Error)
	assert.Equal(t, "[OVERRIDE] phone order", last.Note)
	assert.Regexp(t, `^superadmin:\d+$`, last.ChangedBy)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPut, path, f.adminToken, gin.H{"status": "ready", "reason": "x"}).Code)
}

func TestCatalogue(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/restaurants", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Count       int                 `json:"count"`
		Restaurants []models.Restaurant `json:"restaurants"`
	}](t, w)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Joe's Burgers", list.Restaurants[0].Name)

	w = f.do(http.MethodGet, "/api/restaurants?search=pizz", "", nil)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = f.do(http.MethodGet, "/api/restaurants/joes/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	menu := decode[struct {
		Restaurant models.Restaurant `json:"restaurant"`
		Count      int               `json:"count"`
		Menu       []models.MenuItem `json:"menu"`
	}](t, w)
	assert.Equal(t, "joes", menu.Restaurant.Slug)
	assert.Equal(t, 3, menu.Count)

	w = f.do(http.MethodGet, "/api/restaurants/joes/menu?available=true", "", nil)
	assert.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/restaurants/nowhere", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/restaurants/nowhere/menu", "", nil).Code)
}

func TestMenuManagement(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/admin/menu", f.adminToken, gin.H{"name": "Fries", "price": 3.2, "is_available": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[struct {
		Item models.MenuItem `json:"item"`
	}](t, w).Item
	assert.Equal(t, f.joes.ID, item.RestaurantID)
	assert.False(t, item.IsAvailable)

	w = f.do(http.MethodPost, "/api/admin/menu", f.adminToken, gin.H{"name": "Free", "price": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	path := "/api/admin/menu/" + strconv.FormatUint(uint64(item.ID), 10)
	w = f.do(http.MethodPut, path, f.adminToken, gin.H{"is_available": true, "price": 3.5})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[struct {
		Item models.MenuItem `json:"item"`
	}](t, w).Item
	assert.True(t, updated.IsAvailable)
	assert.Equal(t, 3.5, updated.Price)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPut, path, f.pizzaAdminToken, gin.H{"price": 1}).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, path, f.pizzaAdminToken, nil).Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, path, f.adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, path, f.adminToken, nil).Code)

	w = f.do(http.MethodPut, "/api/admin/restaurant", f.adminToken, gin.H{"opening_hours": "mon-fri 9-17; sat 10-14", "is_open": false})
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[struct {
		Restaurant models.Restaurant `json:"restaurant"`
	}](t, w).Restaurant
	assert.Equal(t, "Mon-Fri 09:00-17:00; Sat 10:00-14:00", r.OpeningHours)
	assert.False(t, r.IsOpen)

	w = f.do(http.MethodPut, "/api/admin/restaurant", f.adminToken, gin.H{"opening_hours": "someday 9-17"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, detail(w), "opening_hours: invalid opening hours")
}

func TestSuperAdmin(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/superadmin/restaurants", f.superToken, gin.H{
		"name":          "Sushi Bar & Grill",
		"address":       "3 High St",
		"opening_hours": "daily 12-22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Restaurant models.Restaurant `json:"restaurant"`
	}](t, w).Restaurant
	assert.Equal(t, "sushi-bar-grill", created.Slug)
	assert.Equal(t, "Mon-Sun 12:00-22:00", created.OpeningHours)
	assert.True(t, created.IsOpen)

	w = f.do(http.MethodPost, "/api/superadmin/restaurants", f.superToken, gin.H{"name": "Joes", "slug": "joes", "address": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/api/superadmin/users", f.superToken, gin.H{
		"name": "Sam", "email": "Sam@Example.com", "password": "longenough", "role": "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "restaurant_id: field required for role admin", detail(w))

	w = f.do(http.MethodPost, "/api/superadmin/users", f.superToken, gin.H{
		"name": "Sam", "email": "Sam@Example.com", "password": "longenough", "role": "admin", "restaurant_id": created.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/superadmin/users", f.superToken, gin.H{
		"name": "Sam", "email": "sam@example.com", "password": "longenough", "role": "admin", "restaurant_id": created.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// the new admin can log in and sees their restaurant
	w = f.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "sam@example.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	w = f.do(http.MethodGet, "/api/admin/restaurant", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sushi-bar-grill")

	w = f.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "sam@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/superadmin/users?role=admin", f.superToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestEnsureSuperAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := handlers.EnsureSuperAdmin(ctx, f.db, "boss@example.com", "changeme123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = handlers.EnsureSuperAdmin(ctx, f.db, "boss@example.com", "changeme123")
	require.NoError(t, err)
	assert.False(t, created)

	w := f.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "boss@example.com", "password": "changeme123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"superadmin"`)
}

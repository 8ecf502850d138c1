package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikart/storefront/internal/cart"
	"github.com/ikart/storefront/internal/catalog"
	"github.com/ikart/storefront/internal/event"
	"github.com/ikart/storefront/internal/session"
	redisstore "github.com/ikart/storefront/internal/store/redis"
	"github.com/ikart/storefront/internal/wishlist"
	"github.com/ikart/storefront/pkg/health"
	pkgkafka "github.com/ikart/storefront/pkg/kafka"
)

// setupServer builds the full router on a miniredis-backed store and the
// embedded catalog, mirroring the production wiring minus Kafka and tracing
// backends.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)

	cat, err := catalog.Load()
	require.NoError(t, err)

	st := redisstore.NewStore(client, 0)

	router := NewRouter(RouterConfig{
		Catalog:         cat,
		CartService:     cart.NewService(st, cat, producer, logger),
		WishlistService: wishlist.NewService(st, cat, producer, logger),
		SessionService:  session.NewService(st, producer, logger),
		HealthHandler:   health.NewHandler(),
		Logger:          logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, ownerID string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ownerID != "" {
		req.Header.Set("X-User-ID", ownerID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

func TestAPI_ListProducts(t *testing.T) {
	srv := setupServer(t)

	t.Run("default listing returns the full first page", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodGet, "/api/v1/products", "", nil)
		require.Equal(t, http.StatusOK, status)

		var page struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
			TotalCount int `json:"total_count"`
			TotalPages int `json:"total_pages"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 9, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Len(t, page.Data, 9)
	})

	t.Run("filter sort and paginate compose", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodGet,
			"/api/v1/products?category=audio,accessories&sort=price-asc&per_page=2&page=1", "", nil)
		require.Equal(t, http.StatusOK, status)

		var page struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
			TotalCount int  `json:"total_count"`
			HasNext    bool `json:"has_next"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 4, page.TotalCount)
		require.Len(t, page.Data, 2)
		// Cheapest two of audio+accessories: HomePod mini, Apple Pencil.
		assert.Equal(t, "audio-002", page.Data[0].ID)
		assert.Equal(t, "accessory-001", page.Data[1].ID)
		assert.True(t, page.HasNext)
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodGet,
			"/api/v1/products?min_price=59900&max_price=59900", "", nil)
		require.Equal(t, http.StatusOK, status)

		var page struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Len(t, page.Data, 2)
		assert.Equal(t, "watch-001", page.Data[0].ID)
		assert.Equal(t, "tablet-001", page.Data[1].ID)
	})

	t.Run("bad price bound rejected", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodGet, "/api/v1/products?min_price=cheap", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("page past the end is empty not an error", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodGet, "/api/v1/products?page=5", "", nil)
		require.Equal(t, http.StatusOK, status)

		var page struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Empty(t, page.Data)
	})
}

func TestAPI_GetProduct(t *testing.T) {
	srv := setupServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/products/tech-001", "", nil)
	require.Equal(t, http.StatusOK, status)

	var product struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "Apple MacBook Air M2", product.Name)
	assert.Equal(t, 10, product.Stock)

	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/products/ghost-1", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAPI_ListCategories(t *testing.T) {
	srv := setupServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, status)

	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Contains(t, categories, "laptops")
	assert.Contains(t, categories, "audio")
	assert.Len(t, categories, 7)
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

type cartPayload struct {
	Cart struct {
		Lines []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"lines"`
	} `json:"cart"`
	Notice string `json:"notice"`
}

func TestAPI_CartRequiresOwner(t *testing.T) {
	srv := setupServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAPI_CartFlow(t *testing.T) {
	srv := setupServer(t)
	const owner = "owner-1"

	// Empty cart to start.
	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/cart", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var payload cartPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Empty(t, payload.Cart.Lines)

	// Add a product.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", owner,
		map[string]string{"product_id": "tech-002"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "ADDED", payload.Notice)
	require.Len(t, payload.Cart.Lines, 1)
	assert.Equal(t, 1, payload.Cart.Lines[0].Quantity)

	// Set the quantity above stock (iMac stock is 5): clamps.
	status, env = doJSON(t, srv, http.MethodPut, "/api/v1/cart/items/tech-002", owner,
		map[string]int{"quantity": 50})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "STOCK_LIMIT", payload.Notice)
	assert.Equal(t, 5, payload.Cart.Lines[0].Quantity)

	// Summary prices the clamped cart: 5 x 180000 = 900000.
	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/cart/summary", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		Totals struct {
			Subtotal  string `json:"subtotal"`
			Shipping  string `json:"shipping"`
			Tax       string `json:"tax"`
			Total     string `json:"total"`
			ItemCount int    `json:"item_count"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "900000", summary.Totals.Subtotal)
	assert.Equal(t, "100", summary.Totals.Shipping)
	assert.Equal(t, "162000", summary.Totals.Tax)
	assert.Equal(t, "1062100", summary.Totals.Total)
	assert.Equal(t, 5, summary.Totals.ItemCount)

	// Badges reflect the cart quantity.
	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/badges", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var badges struct {
		CartCount     int `json:"cart_count"`
		WishlistCount int `json:"wishlist_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	assert.Equal(t, 5, badges.CartCount)
	assert.Equal(t, 0, badges.WishlistCount)

	// Remove the line, then clear.
	status, env = doJSON(t, srv, http.MethodDelete, "/api/v1/cart/items/tech-002", owner, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Empty(t, payload.Cart.Lines)

	status, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/cart", owner, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_CartAddErrors(t *testing.T) {
	srv := setupServer(t)

	t.Run("unknown product", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", "owner-1",
			map[string]string{"product_id": "ghost-1"})
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("missing product id fails validation", func(t *testing.T) {
		status, env := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", "owner-1",
			map[string]string{})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Fields, "product_id")
	})

	t.Run("owners are isolated", func(t *testing.T) {
		_, _ = doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", "owner-a",
			map[string]string{"product_id": "tech-001"})

		status, env := doJSON(t, srv, http.MethodGet, "/api/v1/cart", "owner-b", nil)
		require.Equal(t, http.StatusOK, status)
		var payload cartPayload
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		assert.Empty(t, payload.Cart.Lines)
	})
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

func TestAPI_WishlistFlow(t *testing.T) {
	srv := setupServer(t)
	const owner = "owner-1"

	type wishlistPayload struct {
		Items []struct {
			ID      string `json:"id"`
			InStock bool   `json:"in_stock"`
		} `json:"items"`
		Notice string `json:"notice"`
	}

	// Toggle on.
	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/wishlist/items/watch-001/toggle", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var payload wishlistPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "ADDED_TO_WISHLIST", payload.Notice)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "watch-001", payload.Items[0].ID)
	assert.True(t, payload.Items[0].InStock)

	// Move to cart: wishlist empties, cart gains the line.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/wishlist/items/watch-001/move-to-cart", owner, nil)
	require.Equal(t, http.StatusOK, status)
	var moved cartPayload
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, "ADDED", moved.Notice)
	require.Len(t, moved.Cart.Lines, 1)
	assert.Equal(t, "watch-001", moved.Cart.Lines[0].ID)

	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/wishlist", owner, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Empty(t, payload.Items)

	// Toggle off after toggling on again.
	_, _ = doJSON(t, srv, http.MethodPost, "/api/v1/wishlist/items/audio-001/toggle", owner, nil)
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/wishlist/items/audio-001/toggle", owner, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "REMOVED_FROM_WISHLIST", payload.Notice)
	assert.Empty(t, payload.Items)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAPI_AuthFlow(t *testing.T) {
	srv := setupServer(t)

	signup := map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "hunter2",
	}

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, status)
	var user struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice", user.Username)

	// Duplicate signup is a conflict.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)

	// Log in by username.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"identifier": "alice", "password": "hunter2"})
	require.Equal(t, http.StatusOK, status)
	var sess struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	require.NotEmpty(t, sess.ID)

	// Me resolves the session.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", sess.ID)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout, then me is unauthorized.
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", sess.ID)
	resp2, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", sess.ID)
	resp3, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp3.StatusCode)

	// Bad credentials.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"identifier": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
}

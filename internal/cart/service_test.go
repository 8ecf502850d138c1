package cart

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/internal/engine"
	"github.com/ikart/storefront/internal/event"
	apperrors "github.com/ikart/storefront/pkg/errors"
	pkgkafka "github.com/ikart/storefront/pkg/kafka"
)

// --- Mock Store ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Cart(ctx context.Context, ownerID string) (domain.Cart, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *mockStore) SaveCart(ctx context.Context, ownerID string, cart domain.Cart) error {
	args := m.Called(ctx, ownerID, cart)
	return args.Error(0)
}

func (m *mockStore) DeleteCart(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *mockStore) Wishlist(ctx context.Context, ownerID string) (domain.Wishlist, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.Wishlist), args.Error(1)
}

func (m *mockStore) SaveWishlist(ctx context.Context, ownerID string, wishlist domain.Wishlist) error {
	args := m.Called(ctx, ownerID, wishlist)
	return args.Error(0)
}

func (m *mockStore) SaveCartAndWishlist(ctx context.Context, ownerID string, cart domain.Cart, wishlist domain.Wishlist) error {
	args := m.Called(ctx, ownerID, cart, wishlist)
	return args.Error(0)
}

func (m *mockStore) Users(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockStore) SaveUsers(ctx context.Context, users []domain.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *mockStore) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockStore) SaveSession(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Test Helpers ---

type fakeFinder map[string]domain.Product

func (f fakeFinder) Find(id string) (domain.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(st *mockStore) *Service {
	logger := newTestLogger()
	// A Kafka producer with no broker behind it: publish failures are
	// logged, never surfaced.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)

	finder := fakeFinder{
		"tech-001": {
			ID:    "tech-001",
			Name:  "Apple MacBook Air M2",
			Price: decimal.NewFromInt(120000),
			Stock: 10,
		},
		"gone-001": {
			ID:    "gone-001",
			Name:  "Discontinued",
			Price: decimal.NewFromInt(500),
			Stock: 0,
		},
	}
	return NewService(st, finder, producer, logger)
}

// --- Tests ---

func TestService_Get(t *testing.T) {
	t.Run("returns stored cart", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		stored := domain.Cart{Lines: []domain.CartLine{{ProductID: "tech-001", Quantity: 2}}}
		st.On("Cart", mock.Anything, "owner-1").Return(stored, nil)

		got, err := svc.Get(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		st.AssertExpectations(t)
	})

	t.Run("empty owner id rejected", func(t *testing.T) {
		svc := newTestService(new(mockStore))

		_, err := svc.Get(context.Background(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestService_Add(t *testing.T) {
	t.Run("adds and persists", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)
		st.On("SaveCart", mock.Anything, "owner-1", mock.MatchedBy(func(c domain.Cart) bool {
			return len(c.Lines) == 1 && c.Lines[0].ProductID == "tech-001" && c.Lines[0].Quantity == 1
		})).Return(nil)

		res, err := svc.Add(context.Background(), "owner-1", "tech-001")
		require.NoError(t, err)
		assert.Equal(t, engine.NoticeAdded, res.Notice)
		require.Len(t, res.Cart.Lines, 1)
		st.AssertExpectations(t)
	})

	t.Run("unknown product does not persist", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)

		_, err := svc.Add(context.Background(), "owner-1", "ghost-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		st.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of stock does not persist", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)

		_, err := svc.Add(context.Background(), "owner-1", "gone-001")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
		st.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)
		st.On("SaveCart", mock.Anything, "owner-1", mock.Anything).Return(errors.New("redis down"))

		_, err := svc.Add(context.Background(), "owner-1", "tech-001")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save cart")
	})
}

func TestService_SetQuantity(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	stored := domain.Cart{Lines: []domain.CartLine{{ProductID: "tech-001", Quantity: 1, Stock: 10}}}
	st.On("Cart", mock.Anything, "owner-1").Return(stored, nil)
	st.On("SaveCart", mock.Anything, "owner-1", mock.MatchedBy(func(c domain.Cart) bool {
		return len(c.Lines) == 1 && c.Lines[0].Quantity == 10
	})).Return(nil)

	// 15 exceeds the stock of 10, so the quantity clamps.
	res, err := svc.SetQuantity(context.Background(), "owner-1", "tech-001", 15)
	require.NoError(t, err)
	assert.Equal(t, engine.NoticeStockLimit, res.Notice)
	assert.Equal(t, 10, res.Cart.Lines[0].Quantity)
	st.AssertExpectations(t)
}

func TestService_Remove(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	stored := domain.Cart{Lines: []domain.CartLine{{ProductID: "tech-001", Quantity: 2}}}
	st.On("Cart", mock.Anything, "owner-1").Return(stored, nil)
	st.On("SaveCart", mock.Anything, "owner-1", mock.MatchedBy(func(c domain.Cart) bool {
		return len(c.Lines) == 0
	})).Return(nil)

	res, err := svc.Remove(context.Background(), "owner-1", "tech-001")
	require.NoError(t, err)
	assert.Equal(t, engine.NoticeRemoved, res.Notice)
	assert.True(t, res.Cart.IsEmpty())
	st.AssertExpectations(t)
}

func TestService_Clear(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	st.On("DeleteCart", mock.Anything, "owner-1").Return(nil)

	require.NoError(t, svc.Clear(context.Background(), "owner-1"))
	st.AssertExpectations(t)
}

func TestService_Summary(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	stored := domain.Cart{Lines: []domain.CartLine{
		{ProductID: "tech-001", Quantity: 2},
		{ProductID: "retired-1", Quantity: 1},
	}}
	st.On("Cart", mock.Anything, "owner-1").Return(stored, nil)

	got, err := svc.Summary(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, got.Totals.Subtotal.Equal(decimal.NewFromInt(240000)), "subtotal %s", got.Totals.Subtotal)
	assert.True(t, got.Totals.Shipping.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []string{"retired-1"}, got.Totals.Stale)
	// The stale line stays in the returned cart for the owner to resolve.
	assert.Len(t, got.Cart.Lines, 2)
}

func TestService_MoveFromWishlist(t *testing.T) {
	t.Run("moves atomically via combined save", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)
		st.On("Wishlist", mock.Anything, "owner-1").Return(domain.Wishlist{
			Entries: []domain.WishlistEntry{{ProductID: "tech-001"}},
		}, nil)
		st.On("SaveCartAndWishlist", mock.Anything, "owner-1",
			mock.MatchedBy(func(c domain.Cart) bool { return len(c.Lines) == 1 }),
			mock.MatchedBy(func(w domain.Wishlist) bool { return w.Len() == 0 }),
		).Return(nil)

		res, err := svc.MoveFromWishlist(context.Background(), "owner-1", "tech-001")
		require.NoError(t, err)
		assert.Equal(t, engine.NoticeAdded, res.Notice)
		st.AssertExpectations(t)
	})

	t.Run("failed add writes nothing", func(t *testing.T) {
		st := new(mockStore)
		svc := newTestService(st)

		st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{}, nil)
		st.On("Wishlist", mock.Anything, "owner-1").Return(domain.Wishlist{
			Entries: []domain.WishlistEntry{{ProductID: "gone-001"}},
		}, nil)

		_, err := svc.MoveFromWishlist(context.Background(), "owner-1", "gone-001")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
		st.AssertNotCalled(t, "SaveCartAndWishlist", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Badges(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	st.On("Cart", mock.Anything, "owner-1").Return(domain.Cart{Lines: []domain.CartLine{
		{ProductID: "tech-001", Quantity: 3},
	}}, nil)
	st.On("Wishlist", mock.Anything, "owner-1").Return(domain.Wishlist{Entries: []domain.WishlistEntry{
		{ProductID: "gone-001"},
		{ProductID: "tech-001"},
	}}, nil)

	got, err := svc.Badges(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CartCount)
	assert.Equal(t, 2, got.WishlistCount)
}

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type CartRepositoryTestSuite struct {
	suite.Suite
	client *goredis.Client
	repo   *cartRepository
	ctx    context.Context
}

// Runs against the Redis named by REDIS_ADDR, e.g. REDIS_ADDR=localhost:6379.
func TestCartRepository(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set")
	}
	suite.Run(t, new(CartRepositoryTestSuite))
}

func (s *CartRepositoryTestSuite) SetupSuite() {
	s.client = goredis.NewClient(&goredis.Options{Addr: os.Getenv("REDIS_ADDR")})
	s.repo = &cartRepository{client: s.client, ttl: time.Minute}
	s.ctx = context.Background()
}

func (s *CartRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
}

func (s *CartRepositoryTestSuite) TestFindMissingCart() {
	buyerID := uuid.New()

	cart, err := s.repo.FindByBuyer(s.ctx, buyerID)

	s.Require().NoError(err)
	s.Equal(buyerID, cart.BuyerID)
	s.Empty(cart.Items)
}

func (s *CartRepositoryTestSuite) TestSaveFindDelete() {
	buyerID := uuid.New()
	cart := entity.NewCart(buyerID)
	cart.Items = append(cart.Items, entity.CartItem{StoreID: 1, ProductID: 2, Option: "XL", Quantity: 3})

	s.Require().NoError(s.repo.Save(s.ctx, cart))

	found, err := s.repo.FindByBuyer(s.ctx, buyerID)
	s.Require().NoError(err)
	s.Equal(cart.Items, found.Items)

	ttl, err := s.client.TTL(s.ctx, cartKey(buyerID)).Result()
	s.Require().NoError(err)
	s.Positive(ttl)

	s.Require().NoError(s.repo.Delete(s.ctx, buyerID))
	s.Require().NoError(s.repo.Delete(s.ctx, buyerID))

	found, err = s.repo.FindByBuyer(s.ctx, buyerID)
	s.Require().NoError(err)
	s.Empty(found.Items)
}

package testutil

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/deskhive/deskhive/internal/domain/payment"
	"github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	"github.com/deskhive/deskhive/internal/domain/wallet"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo       plan.Repository
	SubRepo        subscription.Repository
	PaymentRepo    payment.Repository
	AccessCardRepo accesscard.Repository
	WalletRepo     wallet.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	var err error
	s.config = config.GetDefaultConfig()
	s.logger, err = logger.NewLogger()
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.db = NewMockPostgresClient(s.logger)

	// Initialize validator
	validator.NewValidator()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		PlanRepo:       NewInMemoryPlanStore(),
		SubRepo:        NewInMemorySubscriptionStore(),
		PaymentRepo:    NewInMemoryPaymentStore(),
		AccessCardRepo: NewInMemoryAccessCardStore(),
		WalletRepo:     NewInMemoryWalletStore(),
	}
	s.now = time.Now().UTC()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

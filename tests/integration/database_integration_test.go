package integration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"github.com/restaurante-kishimoto/kishimoto-web/tests/testutil"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// DatabaseIntegrationTestSuite runs the storage rules against a SQLite file
// opened the same way the server opens it
type DatabaseIntegrationTestSuite struct {
	suite.Suite
	db *gorm.DB
}

// SetupSuite runs once before all tests
func (suite *DatabaseIntegrationTestSuite) SetupSuite() {
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *DatabaseIntegrationTestSuite) SetupTest() {
	cfg := testutil.NewTestConfig(suite.T())
	cfg.DatabaseURL = filepath.Join(suite.T().TempDir(), "kishimoto.db")

	db, err := config.ConnectDatabase(cfg)
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { sqlDB.Close() })
	suite.Require().NoError(config.Migrate(db))

	suite.db = db
}

// TestMigrateIsRepeatable tests that migrating twice keeps the data
func (suite *DatabaseIntegrationTestSuite) TestMigrateIsRepeatable() {
	testutil.CreateCustomer(suite.T(), suite.db, "111", "a@a.com", "x")

	suite.Require().NoError(config.Migrate(suite.db))

	var count int64
	suite.db.Model(&models.Customer{}).Count(&count)
	suite.Equal(int64(1), count)
}

// TestForeignKeysAreEnforced tests that the DSN turns SQLite foreign keys on
func (suite *DatabaseIntegrationTestSuite) TestForeignKeysAreEnforced() {
	err := suite.db.Create(&models.Order{CustomerCPF: "404", Status: "novo", Total: 10}).Error
	suite.Error(err)
	suite.True(utils.IsConstraintViolation(err), "got %v", err)
}

// TestUniqueEmail tests that two customers cannot share an email
func (suite *DatabaseIntegrationTestSuite) TestUniqueEmail() {
	testutil.CreateCustomer(suite.T(), suite.db, "111", "a@a.com", "x")

	err := suite.db.Create(&models.Customer{
		CPF: "222", Name: "B", Phone: "1", Address: "R", Email: "a@a.com", Password: "y",
	}).Error
	suite.Error(err)
	suite.True(utils.IsUniqueViolation(err), "got %v", err)
}

// TestCheckConstraints tests that negative money never reaches the tables
func (suite *DatabaseIntegrationTestSuite) TestCheckConstraints() {
	testutil.CreateCustomer(suite.T(), suite.db, "111", "a@a.com", "x")

	err := suite.db.Create(&models.Product{Name: "P", Description: "D", Price: -1}).Error
	suite.True(utils.IsConstraintViolation(err), "got %v", err)

	err = suite.db.Create(&models.Order{CustomerCPF: "111", Status: "novo", Total: -1}).Error
	suite.True(utils.IsConstraintViolation(err), "got %v", err)
}

// TestSessionLifecycle tests sessions across purge, revocation and customer removal
func (suite *DatabaseIntegrationTestSuite) TestSessionLifecycle() {
	ctx := suite.T().Context()
	testutil.CreateCustomer(suite.T(), suite.db, "111", "a@a.com", "x")
	testutil.CreateCustomer(suite.T(), suite.db, "222", "b@b.com", "y")
	sessions := services.NewSessionService(suite.db, time.Hour)

	live, err := sessions.Create(ctx, "111")
	suite.Require().NoError(err)
	other, err := sessions.Create(ctx, "222")
	suite.Require().NoError(err)

	stale, err := services.NewSessionService(suite.db, -time.Minute).Create(ctx, "111")
	suite.Require().NoError(err)

	removed, err := sessions.PurgeExpired(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), removed)

	_, err = sessions.Resolve(ctx, stale.Token)
	suite.ErrorIs(err, services.ErrSessionNotFound)

	customer, err := sessions.Resolve(ctx, live.Token)
	suite.Require().NoError(err)
	suite.Equal("111", customer.CPF)

	// Removing a customer takes their sessions along
	suite.Require().NoError(suite.db.Delete(&models.Customer{}, "cpf = ?", "222").Error)
	_, err = sessions.Resolve(ctx, other.Token)
	suite.ErrorIs(err, services.ErrSessionNotFound)

	var count int64
	suite.db.Model(&models.Session{}).Where("customer_cpf = ?", "222").Count(&count)
	suite.Zero(count)
}

func TestDatabaseIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseIntegrationTestSuite))
}

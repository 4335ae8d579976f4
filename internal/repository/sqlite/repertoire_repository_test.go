package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/repository/sqlite"
	"github.com/sousa16/chesslab/internal/testutil"
)

type RepertoireRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.RepertoireRepository
}

func (s *RepertoireRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewRepertoireRepository(s.db)
}

func (s *RepertoireRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *RepertoireRepositorySuite) TestCreateIsIdempotent() {
	ctx := context.Background()
	userID := testutil.MustCreateUser(s.T(), s.db, "alice")

	first, err := s.repo.Create(ctx, userID, models.White)
	s.Require().NoError(err)
	second, err := s.repo.Create(ctx, userID, models.White)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(models.White, first.Color)
	s.Zero(first.Version)

	black, err := s.repo.Create(ctx, userID, models.Black)
	s.Require().NoError(err)
	s.NotEqual(first.ID, black.ID)

	list, err := s.repo.ListForUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(models.White, list[0].Color)
}

func (s *RepertoireRepositorySuite) TestGetMissing() {
	ctx := context.Background()
	userID := testutil.MustCreateUser(s.T(), s.db, "bob")

	rep, err := s.repo.Get(ctx, userID, models.Black)
	s.Require().NoError(err)
	s.Nil(rep)

	rep, err = s.repo.GetByID(ctx, 77)
	s.Require().NoError(err)
	s.Nil(rep)
}

func (s *RepertoireRepositorySuite) TestCreateRequiresUser() {
	_, err := s.repo.Create(context.Background(), 12345, models.White)
	s.Error(err)
}

func TestRepertoireRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepertoireRepositorySuite))
}

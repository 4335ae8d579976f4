package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository/sqlite"
	"github.com/sousa16/chesslab/internal/rules"
	"github.com/sousa16/chesslab/internal/services"
	"github.com/sousa16/chesslab/internal/srs"
	"github.com/sousa16/chesslab/internal/testutil"
)

type RepertoireServiceSuite struct {
	suite.Suite
	ctx     context.Context
	db      *sql.DB
	clock   *testutil.Clock
	svc     services.RepertoireService
	reviews services.ReviewService
	stats   services.StatsService
	alice   int64
	bob     int64
}

func (s *RepertoireServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.clock = &testutil.Clock{T: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}

	engine := rules.New()
	users := sqlite.NewUserRepository(s.db)
	reps := sqlite.NewRepertoireRepository(s.db)
	entries := sqlite.NewEntryRepository(s.db)

	s.svc = services.NewRepertoireService(users, reps, entries, engine, srs.DefaultConfig(), s.clock.Now)
	s.reviews = services.NewReviewService(entries, engine, srs.DefaultConfig(), s.clock.Now)
	s.stats = services.NewStatsService(entries, engine, s.clock.Now)

	s.alice = testutil.MustCreateUser(s.T(), s.db, "alice")
	s.bob = testutil.MustCreateUser(s.T(), s.db, "bob")
	_, err := s.svc.CreateRepertoire(s.ctx, s.alice, models.White)
	s.Require().NoError(err)
}

func (s *RepertoireServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *RepertoireServiceSuite) insert(userID int64, color models.Color, line string) *services.InsertResult {
	s.T().Helper()
	res, err := s.svc.InsertLine(s.ctx, userID, color, rules.SplitMoves(line), "")
	s.Require().NoError(err)
	return res
}

func (s *RepertoireServiceSuite) tree(userID int64, color models.Color) *models.Tree {
	s.T().Helper()
	tree, err := s.svc.GetTree(s.ctx, userID, color)
	s.Require().NoError(err)
	return tree
}

// node finds the tree node whose sequence is seq.
func (s *RepertoireServiceSuite) node(tree *models.Tree, seq string) *models.TreeNode {
	s.T().Helper()
	var found *models.TreeNode
	tree.Walk(func(n *models.TreeNode, _ int) {
		if n.Sequence == seq && found == nil {
			found = n
		}
	})
	s.Require().NotNil(found, "no node %q", seq)
	return found
}

func (s *RepertoireServiceSuite) TestInsertLine_SicilianScenario() {
	res := s.insert(s.alice, models.White, "e4 c5 Nf3")
	s.Equal(3, res.Created)
	s.Equal("1. e4 c5 2. Nf3", res.Line)

	tree := s.tree(s.alice, models.White)
	s.Require().Len(tree.Roots, 1)
	root := tree.Roots[0]
	s.Equal("e4", root.Move)
	s.Equal(1, root.MoveNumber)
	s.Require().Len(root.Children, 1)
	s.Equal("Nf3", root.Children[0].Move)
	s.Equal("c5", root.Children[0].OpponentMove)
	s.Equal(2, root.Children[0].MoveNumber)
}

func (s *RepertoireServiceSuite) TestInsertLine_TranspositionsShareAcrossUsers() {
	_, err := s.svc.CreateRepertoire(s.ctx, s.bob, models.White)
	s.Require().NoError(err)
	s.insert(s.alice, models.White, "d4 Nf6 c4 e6 Nc3")
	s.insert(s.bob, models.White, "c4 e6 d4 Nf6 Nc3")

	rows, err := s.db.Query(`SELECT position_id FROM repertoire_entries WHERE expected_move = 'b1c3'`)
	s.Require().NoError(err)
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		s.Require().NoError(rows.Scan(&id))
		ids = append(ids, id)
	}
	s.Require().NoError(rows.Err())
	s.Require().Len(ids, 2, "one Nc3 entry per user")
	s.Equal(ids[0], ids[1], "both move orders reach the same position")

	// Five plies each; the start and the Nc3 position are shared.
	var positions int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM positions`).Scan(&positions))
	s.Equal(8, positions)
}

func (s *RepertoireServiceSuite) TestInsertLine_ResaveKeepsCardState() {
	s.insert(s.alice, models.White, "e4 c5 Nf3")
	nf3 := s.node(s.tree(s.alice, models.White), "1. e4 c5 2. Nf3")

	_, err := s.reviews.Review(s.ctx, s.alice, nf3.EntryID, "effort", 1)
	s.Require().NoError(err)

	res := s.insert(s.alice, models.White, "1. e4 c5 2. Nf3")
	s.Equal(0, res.Created)

	again := s.node(s.tree(s.alice, models.White), "1. e4 c5 2. Nf3")
	s.Equal(1, again.Card.Step(), "the review survives the re-save")
	s.False(again.Due)
}

func (s *RepertoireServiceSuite) TestInsertLine_Errors() {
	_, err := s.svc.InsertLine(s.ctx, s.alice, models.Black, []string{"e4", "e5"}, "")
	s.True(errors.HasCode(err, errors.ErrCodeRepertoireNotFound))

	_, err = s.svc.InsertLine(s.ctx, s.alice, models.White, []string{"e4", "e5", "Ke3"}, "")
	s.True(errors.HasCode(err, errors.ErrCodeInvalidMoveSequence))
	s.Contains(err.Error(), "move 3")

	_, err = s.svc.InsertLine(s.ctx, s.alice, models.White, []string{"e4"}, "not a fen")
	s.True(errors.HasCode(err, errors.ErrCodeValidation))

	s.insert(s.alice, models.White, "e4 c5 Nf3")
	_, err = s.svc.InsertLine(s.ctx, s.alice, models.White, []string{"e4", "c5", "Nc3"}, "")
	s.Require().True(errors.HasCode(err, errors.ErrCodeEntryConflict))
	s.Contains(err.Error(), "Nf3")
	s.Contains(err.Error(), "Nc3")

	tree := s.tree(s.alice, models.White)
	count := 0
	tree.Walk(func(*models.TreeNode, int) { count++ })
	s.Equal(2, count, "the conflicting line left nothing behind")
}

func (s *RepertoireServiceSuite) TestInsertLine_FromStartFEN() {
	_, err := s.svc.CreateRepertoire(s.ctx, s.alice, models.Black)
	s.Require().NoError(err)

	start := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	res, err := s.svc.InsertLine(s.ctx, s.alice, models.Black, []string{"e5", "Nf3", "Nc6"}, start)
	s.Require().NoError(err)
	s.Equal(3, res.Created)
	s.Equal("1... e5 2. Nf3 Nc6", res.Line)
}

func (s *RepertoireServiceSuite) TestListRepertoires() {
	_, err := s.svc.CreateRepertoire(s.ctx, s.alice, models.Black)
	s.Require().NoError(err)
	again, err := s.svc.CreateRepertoire(s.ctx, s.alice, models.Black)
	s.Require().NoError(err)

	reps, err := s.svc.ListRepertoires(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Len(reps, 2)

	var ids []int64
	for _, r := range reps {
		ids = append(ids, r.ID)
	}
	s.Contains(ids, again.ID)

	_, err = s.svc.CreateRepertoire(s.ctx, 999, models.White)
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *RepertoireServiceSuite) TestDeleteEntry_CascadesOverTheTree() {
	s.insert(s.alice, models.White, "e4 c5 Nf3 d6 d4")
	s.insert(s.alice, models.White, "e4 e5 Nf3 Nc6 Bb5")

	tree := s.tree(s.alice, models.White)
	nf3 := s.node(tree, "1. e4 c5 2. Nf3")

	_, err := s.svc.DeleteEntry(s.ctx, s.bob, nf3.EntryID)
	s.True(errors.HasCode(err, errors.ErrCodeNotOwner))
	_, err = s.svc.DeleteEntry(s.ctx, s.alice, 999)
	s.True(errors.HasCode(err, errors.ErrCodeEntryNotFound))

	res, err := s.svc.DeleteEntry(s.ctx, s.alice, nf3.EntryID)
	s.Require().NoError(err)
	// Nf3, the d6 reply after it and d4.
	s.Equal(3, res.Deleted)
	s.Equal(3, res.PositionsRemoved)

	var seqs []string
	s.tree(s.alice, models.White).Walk(func(n *models.TreeNode, _ int) {
		seqs = append(seqs, n.Sequence)
	})
	s.Equal([]string{"1. e4", "1. e4 e5 2. Nf3", "1. e4 e5 2. Nf3 Nc6 3. Bb5"}, seqs)
}

func (s *RepertoireServiceSuite) TestDeleteEntry_BlackRootTakesLeadingReply() {
	_, err := s.svc.CreateRepertoire(s.ctx, s.alice, models.Black)
	s.Require().NoError(err)
	s.insert(s.alice, models.Black, "e4 e5 Nf3 Nc6")

	var e5 int64
	s.Require().NoError(s.db.QueryRow(
		`SELECT id FROM repertoire_entries WHERE is_user_move = 1 ORDER BY id LIMIT 1`).Scan(&e5))

	res, err := s.svc.DeleteEntry(s.ctx, s.alice, e5)
	s.Require().NoError(err)
	s.Equal(4, res.Deleted, "1. e4 goes with the e5 it led to")
	s.Equal(4, res.PositionsRemoved)

	var entries, positions int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM repertoire_entries`).Scan(&entries))
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM positions`).Scan(&positions))
	s.Zero(entries)
	s.Zero(positions)
	s.Empty(s.tree(s.alice, models.Black).Roots)
}

func (s *RepertoireServiceSuite) TestPracticeQueue() {
	s.insert(s.alice, models.White, "e4 c5 Nf3")
	s.insert(s.alice, models.White, "e4 e5 Nf3 Nc6 Bb5")
	tree := s.tree(s.alice, models.White)

	queue, err := s.svc.PracticeQueue(s.ctx, s.alice, models.White, 0, 0)
	s.Require().NoError(err)
	s.Len(queue, 3, "the first move is never quizzed")
	for _, c := range queue {
		s.NotEqual("e4", c.ExpectedSAN)
		s.Equal(int64(1), c.Version)
	}

	nf3 := s.node(tree, "1. e4 e5 2. Nf3")
	scoped, err := s.svc.PracticeQueue(s.ctx, s.alice, models.White, nf3.EntryID, 0)
	s.Require().NoError(err)
	s.Require().Len(scoped, 2)
	s.Equal("1. e4 e5", scoped[0].Context, "ordered by due date then id")
	s.Equal("Nf3", scoped[0].ExpectedSAN)
	s.Equal("g1f3", scoped[0].ExpectedUCI)
	s.Equal("Bb5", scoped[1].ExpectedSAN)

	limited, err := s.svc.PracticeQueue(s.ctx, s.alice, models.White, 0, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)

	_, err = s.reviews.Review(s.ctx, s.alice, scoped[1].EntryID, "effort", scoped[1].Version)
	s.Require().NoError(err)
	queue, err = s.svc.PracticeQueue(s.ctx, s.alice, models.White, 0, 0)
	s.Require().NoError(err)
	s.Len(queue, 2, "reviewed card is no longer due")

	s.clock.Advance(time.Hour)
	queue, err = s.svc.PracticeQueue(s.ctx, s.alice, models.White, 0, 0)
	s.Require().NoError(err)
	s.Len(queue, 3)
}

func (s *RepertoireServiceSuite) TestPracticeQueue_Errors() {
	s.insert(s.alice, models.White, "e4 c5 Nf3")

	_, err := s.svc.PracticeQueue(s.ctx, s.bob, models.White, 0, 0)
	s.True(errors.HasCode(err, errors.ErrCodeRepertoireNotFound))

	_, err = s.svc.PracticeQueue(s.ctx, s.alice, models.White, 999, 0)
	s.True(errors.HasCode(err, errors.ErrCodeEntryNotFound))

	var c5 int64
	s.Require().NoError(s.db.QueryRow(`SELECT id FROM repertoire_entries WHERE is_user_move = 0`).Scan(&c5))
	_, err = s.svc.PracticeQueue(s.ctx, s.alice, models.White, c5, 0)
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
}

func (s *RepertoireServiceSuite) TestStats() {
	s.insert(s.alice, models.White, "e4 c5 Nf3 d6 d4")

	stats, err := s.stats.GetStats(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalPositions)
	s.Equal(2, stats.DueCount)
	s.Equal(models.ColorStat{Total: 2}, stats.ColorStats[models.White])
	s.Equal(models.ColorStat{}, stats.ColorStats[models.Black])

	empty, err := s.stats.GetStats(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Zero(empty.TotalPositions)
}

func TestRepertoireServiceSuite(t *testing.T) {
	suite.Run(t, new(RepertoireServiceSuite))
}

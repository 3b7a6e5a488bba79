package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nachoupps/chessy/internal/dependencies/mocks"
	"github.com/nachoupps/chessy/internal/model"
	gamesvc "github.com/nachoupps/chessy/internal/services/game"
	playersvc "github.com/nachoupps/chessy/internal/services/player"
	"github.com/nachoupps/chessy/internal/storage/memory"
	"github.com/nachoupps/chessy/internal/testutil"
)

type GameServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	players *playersvc.Service
	service *gamesvc.Service
	clock   *mocks.MockClock
	ctx     context.Context

	alice *model.Player
	bob   *model.Player
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceSuite))
}

func (s *GameServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	s.players = playersvc.New(s.storage, logger)
	s.service = gamesvc.New(s.storage, s.players, s.clock, logger)
	s.ctx = context.Background()

	var err error
	s.alice, err = s.players.Register(s.ctx, "Alice", "1234")
	s.Require().NoError(err)
	s.bob, err = s.players.Register(s.ctx, "Bob", "5678")
	s.Require().NoError(err)
}

func (s *GameServiceSuite) createGame(mode model.Mode) *model.Game {
	game, err := s.service.Create(s.ctx, "friday night", "Alice", "Bob", mode)
	s.Require().NoError(err)
	return game
}

func (s *GameServiceSuite) TestCreate() {
	game := s.createGame("")

	s.Require().NotEmpty(game.ID)
	s.Require().Equal(model.StartingFEN, game.FEN)
	s.Require().Equal(model.ModeRanked, game.Mode)
	s.Require().Equal(s.clock.Now(), game.LastUpdated)
	s.Require().False(game.Concluded())
	s.Require().False(game.Archived)
	s.Require().False(game.UndoUsed)
}

func (s *GameServiceSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, "", "Alice", "Bob", "")
	s.Require().ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.Create(s.ctx, "g", "Alice", "", "")
	s.Require().ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.Create(s.ctx, "g", "Alice", "alice", "")
	s.Require().ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.Create(s.ctx, "g", "Alice", "Bob", "blitz")
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}

func (s *GameServiceSuite) TestApplyUpdateMergesFields() {
	game := s.createGame("")

	s.clock.Advance(time.Minute)
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	name := "renamed"
	updated, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{FEN: &fen, Name: &name})
	s.Require().NoError(err)

	s.Require().Equal(fen, updated.FEN)
	s.Require().Equal("renamed", updated.Name)
	s.Require().Equal("Alice", updated.WhitePlayer)
	s.Require().True(updated.LastUpdated.After(game.LastUpdated))
}

func (s *GameServiceSuite) TestApplyUpdateRejectsEmptyFEN() {
	game := s.createGame("")

	fen := "   "
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{FEN: &fen})
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}

func (s *GameServiceSuite) TestConclusionIsFinal() {
	game := s.createGame("")

	winner := model.WinnerWhite
	concluded, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)
	s.Require().True(concluded.Concluded())

	// A second result is rejected
	other := model.WinnerBlack
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &other})
	s.Require().ErrorIs(err, model.ErrGameConcluded)

	// The position is frozen too
	fen := model.StartingFEN
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{FEN: &fen})
	s.Require().ErrorIs(err, model.ErrGameConcluded)
}

func (s *GameServiceSuite) TestConcludingMoveCarriesFinalPosition() {
	game := s.createGame("")

	// A checkmating move delivers the final FEN and the result together
	fen := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	winner := model.WinnerBlack
	updated, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{FEN: &fen, Winner: &winner})
	s.Require().NoError(err)
	s.Require().Equal(fen, updated.FEN)
	s.Require().Equal(model.WinnerBlack, updated.Winner)
}

func (s *GameServiceSuite) TestArchiveRequiresConclusion() {
	game := s.createGame("")

	archived := true
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Archived: &archived})
	s.Require().ErrorIs(err, model.ErrGameNotConcluded)

	winner := model.WinnerDraw
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	updated, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Archived: &archived})
	s.Require().NoError(err)
	s.Require().True(updated.Archived)
}

func (s *GameServiceSuite) TestArchiveCannotBeCleared() {
	game := s.createGame("")

	winner := model.WinnerDraw
	archived := true
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Archived: &archived})
	s.Require().NoError(err)

	unarchived := false
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Archived: &unarchived})
	s.Require().ErrorIs(err, model.ErrInvalidInput)

	stored, err := s.service.Get(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().True(stored.Archived)
}

func (s *GameServiceSuite) TestUndoIsSingleUse() {
	game := s.createGame("")

	used := true
	updated, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{UndoUsed: &used})
	s.Require().NoError(err)
	s.Require().True(updated.UndoUsed)

	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{UndoUsed: &used})
	s.Require().ErrorIs(err, model.ErrUndoAlreadyUsed)
}

func (s *GameServiceSuite) TestConclusionSettlesRatings() {
	game := s.createGame(model.ModeRanked)

	winner := model.WinnerWhite
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	alice, err := s.players.Get(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Equal(model.InitialRating+model.WinRatingDelta, alice.Rating)
	s.Require().Equal(1, alice.Wins)

	bob, err := s.players.Get(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Equal(model.InitialRating+model.LossRatingDelta, bob.Rating)
	s.Require().Equal(1, bob.Losses)
}

func (s *GameServiceSuite) TestDrawSettlesBothSides() {
	game := s.createGame(model.ModeRanked)

	winner := model.WinnerDraw
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	for _, id := range []model.PlayerID{s.alice.ID, s.bob.ID} {
		p, err := s.players.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Equal(model.InitialRating+model.DrawRatingDelta, p.Rating)
		s.Require().Equal(1, p.Draws)
	}
}

func (s *GameServiceSuite) TestRatingsSettleExactlyOnce() {
	game := s.createGame(model.ModeRanked)

	winner := model.WinnerWhite
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	// Re-concluding fails and must not touch ratings again
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().ErrorIs(err, model.ErrGameConcluded)

	alice, err := s.players.Get(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Equal(1, alice.Wins)
	s.Require().Equal(model.InitialRating+model.WinRatingDelta, alice.Rating)
}

func (s *GameServiceSuite) TestTrainingGamesDoNotSettleRatings() {
	game := s.createGame(model.ModeTraining)

	winner := model.WinnerWhite
	_, err := s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	alice, err := s.players.Get(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Equal(model.InitialRating, alice.Rating)
	s.Require().Zero(alice.Wins)
}

func (s *GameServiceSuite) TestConclusionSkipsMissingParticipant() {
	game, err := s.service.Create(s.ctx, "casual", "Alice", "Drifter", "")
	s.Require().NoError(err)

	winner := model.WinnerBlack
	_, err = s.service.ApplyUpdate(s.ctx, game.ID, model.GameUpdate{Winner: &winner})
	s.Require().NoError(err)

	// The registered side is still settled
	alice, err := s.players.Get(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Equal(1, alice.Losses)
	s.Require().Equal(model.InitialRating+model.LossRatingDelta, alice.Rating)
}

func (s *GameServiceSuite) TestApplyUpdateMissingGame() {
	winner := model.WinnerWhite
	_, err := s.service.ApplyUpdate(s.ctx, "nope", model.GameUpdate{Winner: &winner})
	s.Require().ErrorIs(err, model.ErrGameNotFound)
}

func (s *GameServiceSuite) TestDeleteAndClearAll() {
	game := s.createGame("")

	s.Require().NoError(s.service.Delete(s.ctx, game.ID))
	_, err := s.service.Get(s.ctx, game.ID)
	s.Require().ErrorIs(err, model.ErrGameNotFound)

	s.createGame("")
	s.Require().ErrorIs(s.service.ClearAll(s.ctx, "9999"), model.ErrForbidden)
	s.Require().NoError(s.service.ClearAll(s.ctx, model.AdminPin))

	games, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(games)
}

func (s *GameServiceSuite) TestListMigratesLegacyGames() {
	s.storage.SeedLegacyGames([]byte(`[{"id":"g1","name":"old","white_player":"Alice","black_player":"Bob","fen":"` + model.StartingFEN + `"}]`))

	games, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Require().Equal(model.GameID("g1"), games[0].ID)
}

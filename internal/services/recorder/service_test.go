package recorder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/banker/internal/dependencies/mocks"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage/memory"
	"github.com/mcoot/banker/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	publisher *mocks.RecordingPublisher
	clock     *mocks.MockClock
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.publisher = mocks.NewRecordingPublisher()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.publisher, s.clock, mocks.NewMockIDs("tx"), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRecord() {
	tx, err := s.service.Record(s.ctx, Entry{
		PlayerID:    "p1",
		PlayerName:  "Alice",
		Delta:       model.Delta{Cash: 50000, Account: -50000},
		Description: "Withdrawal",
	})
	s.Require().NoError(err)

	s.Equal(model.TransactionID("tx-0001"), tx.ID)
	s.Equal("Alice", tx.PlayerName)
	s.Equal(int64(50000), tx.CashAmount)
	s.Equal(int64(-50000), tx.AccountAmount)
	s.Equal(s.clock.Now(), tx.Timestamp)

	all, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
	s.Equal([]model.EventType{model.EventTransactionRecorded}, s.publisher.Types())
}

func (s *ServiceSuite) TestRecordZeroDelta() {
	tx, err := s.service.Record(s.ctx, Entry{PlayerID: "p1", PlayerName: "Alice", Description: "Furniture bought"})
	s.Require().NoError(err)
	s.Zero(tx.CashAmount)
	s.Zero(tx.AccountAmount)

	all, _ := s.service.ListAll(s.ctx)
	s.Len(all, 1)
}

func (s *ServiceSuite) TestListAllNewestFirst() {
	for _, desc := range []string{"first", "second", "third"} {
		_, err := s.service.Record(s.ctx, Entry{PlayerID: "p1", PlayerName: "Alice", Description: desc})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	all, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("third", all[0].Description)
	s.Equal("first", all[2].Description)
	s.True(all[0].Timestamp.After(all[2].Timestamp))

	limited, err := s.service.List(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(limited, 2)
}

func (s *ServiceSuite) TestCommit() {
	player := &model.Player{ID: "p1", Name: "Alice", Cash: 238000, Account: 3000000}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	player.Account += 500000

	tx, err := s.service.Commit(s.ctx, player, Entry{
		Kind:        model.OpPassThroughStart,
		Delta:       model.Delta{Account: 500000},
		Description: "Start pass-through",
	})
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), tx.PlayerID)
	s.Equal("Alice", tx.PlayerName)
	s.Equal(model.OpPassThroughStart, tx.Kind)

	stored, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(int64(3500000), stored.Account)
	s.Equal(s.clock.Now(), stored.UpdatedAt)

	s.Equal([]model.EventType{model.EventPlayerUpdated, model.EventTransactionRecorded}, s.publisher.Types())
}

func (s *ServiceSuite) TestCommitUnknownPlayer() {
	player := &model.Player{ID: "ghost", Name: "Ghost", Cash: 1000}

	_, err := s.service.Commit(s.ctx, player, Entry{Kind: model.OpCustom, Delta: model.Delta{Cash: 1000}})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	txs, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(txs)
	s.Empty(s.publisher.Types())
}

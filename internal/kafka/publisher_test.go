package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_database "github.com/opengestu/validele-sub000/internal/db/mocks"
	mock_kafka "github.com/opengestu/validele-sub000/internal/kafka/mocks"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/repository"
	mock_storage "github.com/opengestu/validele-sub000/internal/storage/mocks"
)

type publisherDeps struct {
	db       *mock_database.MockDB
	tx       *mock_database.MockTx
	repo     *mock_storage.MockOutboxTaskRepository
	producer *mock_kafka.MockProducer
}

func newTestPublisher(t *testing.T) (*Publisher, publisherDeps) {
	ctrl := gomock.NewController(t)
	deps := publisherDeps{
		db:       mock_database.NewMockDB(ctrl),
		tx:       mock_database.NewMockTx(ctrl),
		repo:     mock_storage.NewMockOutboxTaskRepository(ctrl),
		producer: mock_kafka.NewMockProducer(ctrl),
	}
	p := NewPublisher(deps.db, deps.repo, deps.producer, PublisherConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		MaxAttempts:  3,
	}, zap.NewNop())
	return p, deps
}

func TestPublisher_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch commits", func(t *testing.T) {
		p, d := newTestPublisher(t)

		d.db.EXPECT().BeginTx(gomock.Any()).Return(d.tx, nil)
		d.repo.EXPECT().GetProcessableTasksTx(gomock.Any(), d.tx, 10, 3).Return(nil, nil)
		d.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		d.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("sent and failed tasks are recorded", func(t *testing.T) {
		p, d := newTestPublisher(t)

		ok := &repository.OutboxTask{ID: uuid.New(), Topic: repository.TopicNotifications, Key: "buyer-1", Payload: json.RawMessage(`{}`)}
		bad := &repository.OutboxTask{ID: uuid.New(), Topic: repository.TopicNotifications, Attempts: 1, Payload: json.RawMessage(`{}`)}

		d.db.EXPECT().BeginTx(gomock.Any()).Return(d.tx, nil)
		d.repo.EXPECT().GetProcessableTasksTx(gomock.Any(), d.tx, 10, 3).Return([]*repository.OutboxTask{ok, bad}, nil)
		d.repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), d.tx, ok.ID, repository.TaskStatusProcessing, 0, nil, nil).Return(nil)
		d.repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), d.tx, bad.ID, repository.TaskStatusProcessing, 1, nil, nil).Return(nil)
		d.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		d.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		d.producer.EXPECT().SendMessage(gomock.Any(), repository.TopicNotifications, []byte("buyer-1"), ok.Payload).Return(nil)
		d.producer.EXPECT().SendMessage(gomock.Any(), repository.TopicNotifications, []byte(bad.ID.String()), bad.Payload).
			Return(errors.New("broker unavailable"))

		d.repo.EXPECT().UpdateTaskStatus(gomock.Any(), d.db, ok.ID, repository.TaskStatusDone, 1, nil, gomock.Not(gomock.Nil())).Return(nil)
		d.repo.EXPECT().UpdateTaskStatus(gomock.Any(), d.db, bad.ID, repository.TaskStatusFailed, 2, gomock.Not(gomock.Nil()), nil).Return(nil)

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("begin failure", func(t *testing.T) {
		p, d := newTestPublisher(t)

		d.db.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("pool exhausted"))

		assert.Error(t, p.processBatch(ctx))
	})
}

func TestPublisher_RunStopsOnShutdown(t *testing.T) {
	p, d := newTestPublisher(t)

	d.db.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("db down")).AnyTimes()
	d.producer.EXPECT().Close().Return(nil)

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	p.Shutdown()
	p.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop")
	}
}

func TestOutboxNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	dbMock := mock_database.NewMockDB(ctrl)
	repo := mock_storage.NewMockOutboxTaskRepository(ctrl)

	repo.EXPECT().Create(gomock.Any(), dbMock, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ interface{}, task *repository.OutboxTask) error {
			assert.Equal(t, repository.TopicNotifications, task.Topic)
			assert.Equal(t, "vendor-1", task.Key)

			var msg notification.Message
			require.NoError(t, json.Unmarshal(task.Payload, &msg))
			assert.Equal(t, notification.EventDelivered, msg.Event)
			return nil
		})

	n := NewOutboxNotifier(dbMock, repo, repository.TopicNotifications)
	err := n.Notify(context.Background(), notification.Message{Event: notification.EventDelivered, Recipient: "vendor-1"})
	assert.NoError(t, err)
}

func TestProducerNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_kafka.NewMockProducer(ctrl)

	producer.EXPECT().SendMessage(gomock.Any(), "notifications", []byte("buyer-1"), gomock.Any()).Return(nil)

	n := NewProducerNotifier(producer, "notifications")
	assert.NoError(t, n.Notify(context.Background(), notification.Message{Recipient: "buyer-1"}))
}

package producers

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTopicAdmin struct {
	mock.Mock
}

func (m *MockTopicAdmin) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	args := m.Called(topics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kafka.Partition), args.Error(1)
}

func (m *MockTopicAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	args := m.Called(topics)
	return args.Error(0)
}

func TestEnsureTopic(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"ledger_commands"}).
			Return([]kafka.Partition{{Topic: "ledger_commands", ID: 0}}, nil).Once()

		require.NoError(t, ensureTopic(admin, "ledger_commands", 3, 1, 0, newTestLogger()))
		admin.AssertNotCalled(t, "CreateTopics", mock.Anything)
		admin.AssertExpectations(t)
	})

	t.Run("CreatesMissingTopicWithDefaults", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"results"}).Return(nil, errors.New("unknown topic")).Times(topicReadAttempts)
		admin.On("CreateTopics", []kafka.TopicConfig{{
			Topic:             "results",
			NumPartitions:     1,
			ReplicationFactor: 1,
		}}).Return(nil).Once()

		require.NoError(t, ensureTopic(admin, "results", 0, 0, 0, newTestLogger()))
		admin.AssertExpectations(t)
	})

	t.Run("RetriesUntilPartitionsAreReadable", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"dlq"}).Return(nil, errors.New("leader not available")).Once()
		admin.On("ReadPartitions", []string{"dlq"}).Return([]kafka.Partition{{Topic: "dlq"}}, nil).Once()

		require.NoError(t, ensureTopic(admin, "dlq", 1, 1, 0, newTestLogger()))
		admin.AssertExpectations(t)
	})

	t.Run("CreateFailure", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		createErr := errors.New("not authorized")
		admin.On("ReadPartitions", []string{"dlq"}).Return([]kafka.Partition{}, nil)
		admin.On("CreateTopics", mock.Anything).Return(createErr).Once()

		err := ensureTopic(admin, "dlq", 2, 1, 0, newTestLogger())
		assert.ErrorIs(t, err, createErr)
	})
}

package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopicSpecs_UsesConfiguredPartitions(t *testing.T) {
	req := require.New(t)

	// When topics are described with three partitions
	specs := topicSpecs(3, ChannelChatUpdated, ChannelChatMessageCreated)

	// Then every channel gets its own topic with that count
	req.Len(specs, 2)
	req.Equal(ChannelChatUpdated, specs[0].Topic)
	req.Equal(ChannelChatMessageCreated, specs[1].Topic)
	for _, s := range specs {
		req.Equal(3, s.NumPartitions)
		req.Equal(1, s.ReplicationFactor)
	}
}

func TestTopicSpecs_FallsBackToOnePartition(t *testing.T) {
	req := require.New(t)

	for _, n := range []int{0, -2} {
		specs := topicSpecs(n, ChannelChatUpdated)
		req.Equal(1, specs[0].NumPartitions)
	}
	req.Equal(1, DefaultConfig().Kafka.Partitions)
}

package kafka_test

import (
	"testing"

	"sarana/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	BookingRequestID string `json:"booking_request_id"`
	Kind             string `json:"kind"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{
		Key:     "req-1",
		Value:   payload{BookingRequestID: "req-1", Kind: "approved"},
		Headers: map[string]string{"kind": "approved"},
	}

	km, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("req-1"), km.Key)
	require.Len(t, km.Headers, 1)
	assert.Equal(t, "kind", km.Headers[0].Key)

	decoded, err := kafka.DecodeKafkaMessage[payload](km)
	require.NoError(t, err)
	assert.Equal(t, "approved", decoded.Kind)
}

func TestToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

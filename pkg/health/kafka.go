package health

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker dials the brokers and confirms the webhook topics exist, so a
// consumer started against a misconfigured topic shows up as not ready.
type KafkaChecker struct {
	brokers []string
	topics  []string
}

func NewKafkaChecker(brokers []string, topics ...string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers, topics: topics}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

func (c *KafkaChecker) Check(ctx context.Context) Result {
	var lastErr error
	for _, broker := range c.brokers {
		res, err := c.checkBroker(ctx, broker)
		if err != nil {
			lastErr = err
			continue
		}
		return res
	}

	msg := "no brokers configured"
	if lastErr != nil {
		msg = "all brokers unreachable: " + lastErr.Error()
	}
	return Result{Status: StatusDown, Message: msg}
}

// checkBroker returns an error only when the broker cannot be dialed.
func (c *KafkaChecker) checkBroker(ctx context.Context, broker string) (Result, error) {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close()

	for _, topic := range c.topics {
		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return Result{Status: StatusDown, Message: fmt.Sprintf("topic %s unavailable", topic)}, nil
		}
	}
	return Result{Status: StatusUp}, nil
}

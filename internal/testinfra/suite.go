//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TestSuite is the shared infrastructure for one integration test binary.
type TestSuite struct {
	Postgres *PostgresContainer
	Kafka    *KafkaContainer
	Gateway  *FakeGateway
}

type SuiteOptions struct {
	WithKafka bool
}

// NewTestSuite starts postgres (and kafka when asked) concurrently. The fake
// gateway runs in-process.
func NewTestSuite(ctx context.Context, opts SuiteOptions) (*TestSuite, error) {
	suite := &TestSuite{Gateway: NewFakeGateway()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pg, err := NewPostgres(gctx)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		suite.Postgres = pg
		return nil
	})
	if opts.WithKafka {
		g.Go(func() error {
			k, err := NewKafka(gctx)
			if err != nil {
				return fmt.Errorf("kafka: %w", err)
			}
			suite.Kafka = k
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		suite.Cleanup(ctx)
		return nil, fmt.Errorf("start test infrastructure: %w", err)
	}
	return suite, nil
}

func (s *TestSuite) Cleanup(ctx context.Context) {
	if s.Gateway != nil {
		s.Gateway.Close()
	}
	if s.Kafka != nil {
		s.Kafka.Cleanup(ctx)
	}
	if s.Postgres != nil {
		s.Postgres.Cleanup(ctx)
	}
}

package kafka_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
	"github.com/pressroom-tools/redlist/pkg/eventstream/kafka"
	"github.com/pressroom-tools/redlist/pkg/logger"
)

var _ = Describe("Publisher", func() {
	Describe("NewPublisher", func() {
		It("requires at least one broker", func() {
			_, err := kafka.NewPublisher(kafka.Config{}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("accepts brokers with the default topic", func() {
			publisher, err := kafka.NewPublisher(kafka.Config{
				Brokers: []string{"localhost:9092"},
			}, logger.Nop())
			Expect(err).ToNot(HaveOccurred())
			Expect(publisher.Close()).To(Succeed())
		})
	})

	Describe("PublishWatchlistUpdate", func() {
		It("rejects a nil event without touching the broker", func() {
			publisher, err := kafka.NewPublisher(kafka.Config{
				Brokers: []string{"localhost:9092"},
			}, logger.Nop())
			Expect(err).ToNot(HaveOccurred())
			defer publisher.Close()

			err = publisher.PublishWatchlistUpdate(context.Background(), nil)
			Expect(errors.Is(err, eventstream.ErrNilEvent)).To(BeTrue())
		})
	})
})

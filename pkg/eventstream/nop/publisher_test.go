package nop_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
	"github.com/pressroom-tools/redlist/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("accepts a valid event", func() {
		publisher := nop.NewPublisher()

		err := publisher.PublishWatchlistUpdate(context.Background(), &eventstream.WatchlistUpdatedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeWatchlistUpdated,
			EventID:       "e-1",
			EmittedAt:     time.Now(),
			Action:        eventstream.ActionReload,
			RecordCount:   10,
			TotalRecords:  10,
		})
		Expect(err).ToNot(HaveOccurred())
	})

	It("rejects a nil event", func() {
		publisher := nop.NewPublisher()

		err := publisher.PublishWatchlistUpdate(context.Background(), nil)
		Expect(errors.Is(err, eventstream.ErrNilEvent)).To(BeTrue())
	})

	It("closes cleanly", func() {
		publisher := nop.NewPublisher()
		Expect(publisher.Close()).To(Succeed())
	})
})

package ingest_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pressroom-tools/redlist/pkg/ingest"
	"github.com/pressroom-tools/redlist/pkg/logger"
	testutils "github.com/pressroom-tools/redlist/pkg/utils/test"
)

var _ = Describe("EmbedAll", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("embeds every item under the category, preserving input order", func() {
		items := make([]ingest.Item, 20)
		embedder := testutils.NewMockEmbedder()
		for i := range items {
			name := fmt.Sprintf("Запись %d", i)
			items[i] = ingest.Item{Name: name, Removed: i%5 == 0}
			embedder.Embeddings[name] = []float32{float32(i), 1}
		}

		records, err := ingest.EmbedAll(ctx, embedder, items, "sanctioned", 4, logger.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(len(items)))

		for i, rec := range records {
			Expect(rec.Name).To(Equal(items[i].Name))
			Expect(rec.Category).To(Equal("sanctioned"))
			Expect(rec.Removed).To(Equal(items[i].Removed))
			Expect(rec.Embedding).To(Equal([]float32{float32(i), 1}))
		}
		Expect(embedder.Calls.Load()).To(Equal(int32(len(items))))
	})

	It("defaults the worker count when given a non-positive one", func() {
		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings["Иванов Иван"] = []float32{1}

		records, err := ingest.EmbedAll(ctx, embedder,
			[]ingest.Item{{Name: "Иванов Иван"}}, "sanctioned", 0, logger.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(1))
	})

	It("fails the whole run when any single name cannot be embedded", func() {
		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings["Иванов Иван"] = []float32{1}

		_, err := ingest.EmbedAll(ctx, embedder, []ingest.Item{
			{Name: "Иванов Иван"},
			{Name: "Неизвестный"},
		}, "sanctioned", 2, logger.Nop())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Неизвестный"))
	})

	It("handles an empty item list", func() {
		records, err := ingest.EmbedAll(ctx, testutils.NewMockEmbedder(), nil, "sanctioned", 2, logger.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(BeEmpty())
	})
})

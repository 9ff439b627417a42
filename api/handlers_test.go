package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
	"github.com/pressroom-tools/redlist/pkg/extract"
	"github.com/pressroom-tools/redlist/pkg/logger"
	"github.com/pressroom-tools/redlist/pkg/screening"
	testutils "github.com/pressroom-tools/redlist/pkg/utils/test"
	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

var _ = Describe("Handlers", func() {
	var (
		server    *Server
		embedder  *testutils.MockEmbedder
		extractor *testutils.MockExtractor
		fetcher   *testutils.MockFetcher
		store     *testutils.MockStore
		events    *testutils.MockPublisher
	)

	seedRecord := watchlist.Record{
		Name:      "Иванов Иван",
		Category:  "sanctioned",
		Embedding: []float32{1, 0, 0, 0},
	}

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings["ИвановИван"] = []float32{1, 0, 0, 0}

		extractor = testutils.NewMockExtractor(extract.Entity{
			Name:     "Иванов Иван",
			NormName: "иванов иван",
			Type:     extract.TypePerson,
		})

		fetcher = testutils.NewMockFetcher()
		fetcher.Texts["doc-1"] = "статья про Иванова"

		store = testutils.NewMockStore(seedRecord)
		events = testutils.NewMockPublisher()

		screener, err := screening.New(screening.Config{
			Dimensions: 4,
			Embedder:   embedder,
			Extractor:  extractor,
			Fetcher:    fetcher,
			Logger:     logger.Nop(),
		}, []watchlist.Record{seedRecord})
		Expect(err).ToNot(HaveOccurred())

		server = NewServer(Config{ListenAddr: ":0"}, screener, store, events, logger.Nop())
	})

	postJSON := func(path string, payload any) *http.Request {
		GinkgoHelper()

		body, err := json.Marshal(payload)
		Expect(err).ToNot(HaveOccurred())

		req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		Expect(err).ToNot(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	decodeResult := func(resp *http.Response) screening.Result {
		GinkgoHelper()

		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())

		var result screening.Result
		Expect(json.Unmarshal(body, &result)).To(Succeed())
		return result
	}

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, err := http.NewRequest(http.MethodGet, "/ping", nil)
			Expect(err).ToNot(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("POST /check", func() {
		It("screens the text and returns warnings", func() {
			resp, err := server.app.Test(postJSON("/check", CheckRequest{Text: "статья про Иванова"}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			result := decodeResult(resp)
			Expect(result.Warnings).To(HaveLen(1))
			Expect(result.Warnings[0].Name).To(Equal("Иванов Иван"))
			Expect(result.Warnings[0].Docs).To(HaveLen(1))
			Expect(result.Warnings[0].Docs[0].Category).To(Equal("sanctioned"))
		})

		It("rejects an empty text", func() {
			resp, err := server.app.Test(postJSON("/check", CheckRequest{}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects a malformed body", func() {
			req, err := http.NewRequest(http.MethodPost, "/check", bytes.NewReader([]byte("{not json")))
			Expect(err).ToNot(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("honors the full_data query parameter", func() {
			embedder.Embeddings["ЗайцевПётр"] = []float32{0.5, 0.866, 0, 0}
			extractor.Entities = []extract.Entity{{
				Name:     "Зайцев Пётр",
				NormName: "зайцев пётр",
				Type:     extract.TypePerson,
			}}

			resp, err := server.app.Test(postJSON("/check?full_data=true", CheckRequest{Text: "статья"}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			result := decodeResult(resp)
			Expect(result.Warnings).To(BeEmpty())
			Expect(result.Accepted).To(HaveLen(1))
			Expect(result.Accepted[0].Docs).To(HaveLen(1))
		})

		It("honors full_data set in the request body", func() {
			embedder.Embeddings["ЗайцевПётр"] = []float32{0.5, 0.866, 0, 0}
			extractor.Entities = []extract.Entity{{
				Name:     "Зайцев Пётр",
				NormName: "зайцев пётр",
				Type:     extract.TypePerson,
			}}

			fullData := true
			resp, err := server.app.Test(postJSON("/check", CheckRequest{
				Text:     "статья",
				FullData: &fullData,
			}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			result := decodeResult(resp)
			Expect(result.Accepted).To(HaveLen(1))
			Expect(result.Accepted[0].Docs).To(HaveLen(1))
		})

		It("returns a structured error after the retry budget is spent", func() {
			extractor.FailAlways = true

			resp, err := server.app.Test(postJSON("/check", CheckRequest{Text: "статья"}), -1)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))

			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())

			var errResp ErrorResponse
			Expect(json.Unmarshal(body, &errResp)).To(Succeed())
			Expect(errResp.Error).ToNot(BeEmpty())
		})
	})

	Describe("GET /check/:id", func() {
		It("fetches the document and screens it", func() {
			req, err := http.NewRequest(http.MethodGet, "/check/doc-1", nil)
			Expect(err).ToNot(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			result := decodeResult(resp)
			Expect(result.Warnings).To(HaveLen(1))
		})

		It("fails for an unknown document", func() {
			req, err := http.NewRequest(http.MethodGet, "/check/doc-404", nil)
			Expect(err).ToNot(HaveOccurred())

			resp, err := server.app.Test(req, -1)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})

	Describe("GET /update", func() {
		It("reloads the watchlist from the store and publishes an event", func() {
			Expect(store.Append(nil, []watchlist.Record{
				{Name: "Петров Пётр", Category: "sanctioned", Embedding: []float32{0, 1, 0, 0}},
			})).To(Succeed())

			req, err := http.NewRequest(http.MethodGet, "/update", nil)
			Expect(err).ToNot(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())

			var payload map[string]int
			Expect(json.Unmarshal(body, &payload)).To(Succeed())
			Expect(payload["records"]).To(Equal(2))

			published := events.Events()
			Expect(published).To(HaveLen(1))
			Expect(published[0].Action).To(Equal(eventstream.ActionReload))
			Expect(published[0].RecordCount).To(Equal(2))
			Expect(published[0].TotalRecords).To(Equal(2))
			Expect(published[0].EventID).ToNot(BeEmpty())
		})
	})

	Describe("POST /records", func() {
		It("appends records to the store and the live index", func() {
			resp, err := server.app.Test(postJSON("/records", AddRecordsRequest{
				Records: []RecordPayload{{
					Name:      "Петров Пётр",
					Category:  "sanctioned",
					Embedding: []float32{0, 1, 0, 0},
				}},
			}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			stored, err := store.LoadAll(nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored).To(HaveLen(2))
			Expect(stored[1].Name).To(Equal("Петров Пётр"))

			published := events.Events()
			Expect(published).To(HaveLen(1))
			Expect(published[0].Action).To(Equal(eventstream.ActionAppend))
			Expect(published[0].RecordCount).To(Equal(1))
			Expect(published[0].TotalRecords).To(Equal(2))
		})

		It("rejects an empty record list", func() {
			resp, err := server.app.Test(postJSON("/records", AddRecordsRequest{}))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})
})

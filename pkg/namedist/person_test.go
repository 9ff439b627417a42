package namedist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pressroom-tools/redlist/pkg/namedist"
)

var _ = Describe("PersonComparer", func() {
	var comparer *namedist.PersonComparer

	BeforeEach(func() {
		comparer = namedist.NewPersonComparer()
	})

	It("returns zero for identical single-token surnames", func() {
		Expect(comparer.Compare("иванов", "иванов")).To(Equal(0))
	})

	It("ignores case, periods and extra whitespace", func() {
		Expect(comparer.Compare("И.  Иванов", "и иванов")).To(Equal(0))
	})

	It("matches a single initial against the full given name", func() {
		// Both reduce to surname "иванов" with initials "и".
		Expect(comparer.Compare("и. иванов", "иван иванов")).To(Equal(0))
	})

	It("charges only the initials for a matching surname", func() {
		// "и.и." collapses to one token, so the text initials are "и"
		// against the registry's "ии".
		Expect(comparer.Compare("и.и. иванов", "иван иванович иванов")).To(Equal(5))
	})

	It("uses a quoted alias when it is closer than the registry name", func() {
		Expect(comparer.Compare("пушкин", `сидоров олег "пушкин"`)).To(Equal(0))
	})

	It("strips feminine declension endings from surnames", func() {
		// "ивановой" loses its final character before comparison.
		Expect(comparer.Compare("ивановой", "иваново")).To(Equal(0))
	})

	It("keeps masculine surnames intact", func() {
		Expect(comparer.Compare("иванов", "иваново")).NotTo(Equal(0))
	})

	It("reports a non-zero distance for unrelated names", func() {
		Expect(comparer.Compare("петров", "сидоров")).To(BeNumerically(">", 0))
	})
})

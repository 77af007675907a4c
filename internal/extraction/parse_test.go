package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseScanJSON", func() {
	var (
		text   string
		result *RawResult
		err    error
	)

	JustBeforeEach(func() {
		result, err = parseScanJSON(text)
	})

	When("parsing a bare JSON object", func() {
		BeforeEach(func() {
			text = `{"is_receipt": true, "ocr_contents": {"items": [{"name": "Coffee", "price": 4.5}], "total_order_bill_details": {"total_bill": 4.5, "taxes": []}}}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("parses the receipt flag", func() {
			Expect(result.IsReceipt).NotTo(BeNil())
			Expect(*result.IsReceipt).To(BeTrue())
		})

		It("parses the nested contents", func() {
			Expect(result.Contents).NotTo(BeNil())
			Expect(result.Contents.Items).To(HaveLen(1))
		})
	})

	When("the JSON is wrapped in markdown code fences", func() {
		BeforeEach(func() {
			text = "```json\n{\"is_receipt\": true, \"file_name\": \"test\"}\n```"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("parses the object inside the fences", func() {
			Expect(result.FileName).To(Equal("test"))
		})
	})

	When("the model surrounds the JSON with prose", func() {
		BeforeEach(func() {
			text = "Here is the extraction you asked for:\n{\"is_receipt\": false, \"reason\": \"it is a menu\"}\nLet me know if you need anything else."
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("parses the rejection", func() {
			Expect(result.IsReceipt).NotTo(BeNil())
			Expect(*result.IsReceipt).To(BeFalse())
			Expect(result.Reason).To(Equal("it is a menu"))
		})
	})

	When("there is no JSON object in the response", func() {
		BeforeEach(func() {
			text = "I could not read the image."
		})

		It("returns an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("prices come back as strings", func() {
		BeforeEach(func() {
			text = `{"items": [{"name": "TV", "price": "₹1,234.50"}]}`
		})

		It("preserves the raw string for the normalizer", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Items[0].Price).To(Equal("₹1,234.50"))
		})
	})
})

package bill

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/receipt-splitter/internal/extraction"
	"github.com/zombor/receipt-splitter/internal/split"
)

func multipartUpload(url, filename string, data []byte) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return http.Post(url, writer.FormDataContentType(), &body)
}

var _ = Describe("Server", func() {
	var (
		scanner     *mockScanner
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, nil, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		scanner = newMockScanner()
		service = NewService(scanner, newMockSpool())
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleHealth", func() {
		It("should return status OK", func() {
			resp, err := http.Get(ghttpServer.URL() + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("should report ok status in the body", func() {
			resp, err := http.Get(ghttpServer.URL() + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			var health map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&health)).NotTo(HaveOccurred())
			Expect(health["status"]).To(Equal("ok"))
		})
	})

	Describe("handleProcessReceipt", func() {
		When("the upload is a valid receipt", func() {
			It("should return status OK", func() {
				resp, err := multipartUpload(ghttpServer.URL()+"/process-receipt", "dinner.jpg", []byte("fake image"))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})

			It("should return the normalized extraction", func() {
				resp, err := multipartUpload(ghttpServer.URL()+"/process-receipt", "dinner.jpg", []byte("fake image"))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var result extraction.Result
				Expect(json.NewDecoder(resp.Body).Decode(&result)).NotTo(HaveOccurred())
				Expect(result.FileName).To(Equal("dinner"))
				Expect(result.Contents.Items).To(HaveLen(2))
				Expect(result.Contents.BillDetails.TotalBill).To(Equal(365.8))
			})
		})

		When("the model rejects the image", func() {
			BeforeEach(func() {
				scanner.result = &extraction.RawResult{
					IsReceipt: boolPtr(false),
					Reason:    "this is a poster",
				}
			})

			It("should return status Bad Request with the model's reason", func() {
				resp, err := multipartUpload(ghttpServer.URL()+"/process-receipt", "poster.jpg", []byte("fake image"))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				var payload map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&payload)).NotTo(HaveOccurred())
				Expect(payload["detail"]).To(Equal("this is a poster"))
			})
		})

		When("no file is provided", func() {
			It("should return status Bad Request", func() {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				Expect(writer.Close()).NotTo(HaveOccurred())
				resp, err := http.Post(ghttpServer.URL()+"/process-receipt", writer.FormDataContentType(), &body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("handleCalculateSplit", func() {
		postSplit := func(payload string) *http.Response {
			resp, err := http.Post(ghttpServer.URL()+"/calculate-split", "application/json", strings.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		When("the request is valid", func() {
			payload := `{
				"items": [
					{"item_name": "Biryani", "price": 100, "contributors": {"Alice": 50, "Bob": 50}},
					{"item_name": "Lassi", "price": 30, "contributors": {"Alice": 30}}
				],
				"persons": ["Alice", "Bob"],
				"receipt_total": 140.0
			}`

			It("should return status OK", func() {
				resp := postSplit(payload)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})

			It("should return the settlement", func() {
				resp := postSplit(payload)
				defer resp.Body.Close()
				var result split.Result
				Expect(json.NewDecoder(resp.Body).Decode(&result)).NotTo(HaveOccurred())
				Expect(result.ExtraAmount).To(Equal(10.0))
				Expect(result.ExtraPerPerson).To(Equal(5.0))
				Expect(result.Breakdown).To(Equal([]split.PersonAmount{
					{Person: "Alice", Amount: 85.0},
					{Person: "Bob", Amount: 55.0},
				}))
			})
		})

		When("no persons are provided", func() {
			It("should return status Bad Request with a distinct message", func() {
				resp := postSplit(`{"items": [], "persons": [], "receipt_total": 10.0}`)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring("No persons provided for split"))
			})
		})

		When("the request body is not JSON", func() {
			It("should return status Bad Request", func() {
				resp := postSplit(`not json`)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			setupServer()
		})

		It("rejects API requests without credentials", func() {
			resp, err := http.Post(ghttpServer.URL()+"/calculate-split", "application/json", strings.NewReader(`{}`))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("accepts API requests with valid credentials", func() {
			req, err := http.NewRequest("POST", ghttpServer.URL()+"/calculate-split", strings.NewReader(`{"items": [], "persons": ["Alice"], "receipt_total": 10.0}`))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:pass")))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("leaves the health endpoint open", func() {
			resp, err := http.Get(ghttpServer.URL() + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("metrics", func() {
		It("exposes the prometheus endpoint", func() {
			resp, err := http.Get(ghttpServer.URL() + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("CORS", func() {
		It("answers preflight requests", func() {
			req, err := http.NewRequest("OPTIONS", ghttpServer.URL()+"/process-receipt", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", "POST")
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})
})

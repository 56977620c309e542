package sendGrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sendGrid "github.com/shopsphere/marketplace-api/pkg/sendGrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	// Arrange
	apiKey := "test-api-key"
	fromEmail := "sender@example.com"
	fromName := "Test Sender"

	// Act
	service := sendGrid.NewEmailService(apiKey, fromEmail, fromName)

	// Assert
	assert.NotNil(t, service)
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "orders@shopsphere.dev"
	fromName := "ShopSphere"
	ctx := t.Context()

	var mockServer *httptest.Server

	var lastRequestPayload sendgridV3Payload

	var handlerFunc http.HandlerFunc

	// startMockServer sets up and starts the httptest server with the current handlerFunc.
	startMockServer := func() {
		mockServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)

				return
			}

			defer r.Body.Close()

			err = json.Unmarshal(bodyBytes, &lastRequestPayload)
			if err != nil {
				http.Error(w, "Failed to unmarshal request body", http.StatusBadRequest)

				return
			}

			handlerFunc(w, r)
		}))
	}

	tests := []struct {
		name          string
		req           *sendGrid.EmailRequest
		handler       http.HandlerFunc
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Text And HTML Content",
			req: &sendGrid.EmailRequest{
				To:          "customer@example.com",
				Subject:     "Order Confirmation",
				Content:     "Your order has been placed",
				HTMLContent: "<h1>Your order has been placed</h1>",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				// Assert
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusAccepted)
			},
			expectedError: "",
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "customer@example.com", pers.To[0]["email"])
				assert.Equal(t, "Order Confirmation", pers.Subject)

				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])

				require.Len(t, p.Content, 2, "Expected two content blocks (text and html)")
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "Your order has been placed", p.Content[0].Value)
				assert.Equal(t, "text/html", p.Content[1].Type)
				assert.Equal(t, "<h1>Your order has been placed</h1>", p.Content[1].Value)
			},
		},
		{
			name: "Success - Text Only",
			req: &sendGrid.EmailRequest{
				To:      "customer@example.com",
				Subject: "Order Update",
				Content: "Your order has shipped",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			expectedError: "",
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Content, 1, "HTML block is omitted when empty")
				assert.Equal(t, "text/plain", p.Content[0].Type)
			},
		},
		{
			name: "Failure - SendGrid API Error (4xx)",
			req: &sendGrid.EmailRequest{
				To:      "bad@example.com",
				Subject: "Order Confirmation",
				Content: "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid email"}]}`))
			},
			expectedError: "failed to send email, status code: 400",
		},
		{
			name: "Failure - SendGrid API Error (5xx)",
			req: &sendGrid.EmailRequest{
				To:      "customer@example.com",
				Subject: "Order Confirmation",
				Content: "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lastRequestPayload = sendgridV3Payload{}
			handlerFunc = tc.handler

			startMockServer()

			service := sendGrid.NewEmailService(apiKey, fromEmail, fromName)
			service.GetSendGridClient().Request.BaseURL = mockServer.URL

			// Act
			err := service.Send(ctx, tc.req)

			// Assert
			if tc.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, lastRequestPayload)
			}

			mockServer.Close()
		})
	}

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		startMockServer()

		service := sendGrid.NewEmailService(apiKey, fromEmail, fromName)
		service.GetSendGridClient().Request.BaseURL = mockServer.URL
		mockServer.Close()

		req := &sendGrid.EmailRequest{
			To:      "customer@example.com",
			Subject: "Network Error Test",
			Content: "Content",
		}

		// Act
		err := service.Send(ctx, req)

		// Assert
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "connect: connection refused") || strings.Contains(err.Error(), "dial tcp"))
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/Dhoini/accounts-service/pkg/req"
	"github.com/Dhoini/accounts-service/pkg/res"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAccountsService struct {
	createAccountFn func(ctx context.Context, dto domain.CustomerDto) error
	fetchAccountFn  func(ctx context.Context, mobileNumber string) (domain.CustomerDto, error)
	updateAccountFn func(ctx context.Context, dto domain.CustomerDto) (bool, error)
	deleteAccountFn func(ctx context.Context, mobileNumber string) (bool, error)
}

func (m *mockAccountsService) CreateAccount(ctx context.Context, dto domain.CustomerDto) error {
	return m.createAccountFn(ctx, dto)
}

func (m *mockAccountsService) FetchAccount(ctx context.Context, mobileNumber string) (domain.CustomerDto, error) {
	return m.fetchAccountFn(ctx, mobileNumber)
}

func (m *mockAccountsService) UpdateAccount(ctx context.Context, dto domain.CustomerDto) (bool, error) {
	return m.updateAccountFn(ctx, dto)
}

func (m *mockAccountsService) DeleteAccount(ctx context.Context, mobileNumber string) (bool, error) {
	return m.deleteAccountFn(ctx, mobileNumber)
}

var fixedErrorTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(svc *mockAccountsService) *gin.Engine {
	h := NewAccountsHandler(svc, req.NewValidator(), logger.NewNop())
	h.now = func() time.Time { return fixedErrorTime }

	r := gin.New()
	r.POST("/api/create", h.CreateAccount)
	r.GET("/api/fetch", h.FetchAccount)
	r.PUT("/api/update", h.UpdateAccount)
	r.DELETE("/api/delete", h.DeleteAccount)
	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, request)
	return w
}

const validBody = `{"name":"Jane Doe","email":"jane@example.com","mobileNumber":"5551234567"}`

func TestCreateAccountHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantBody   string
		wantCalled bool
	}{
		{
			name:       "created",
			body:       validBody,
			wantStatus: http.StatusCreated,
			wantBody:   `{"statusCode":"201","statusMsg":"Account created successfully"}`,
			wantCalled: true,
		},
		{
			name:       "validation",
			body:       `{"name":"Jo","email":"bad","mobileNumber":"123"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"email":"Email must be a valid email address","mobileNumber":"Mobile number must be 10 digits","name":"Name must be between 3 and 50 characters"}`,
		},
		{
			name:       "malformed",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"body":"Malformed JSON request"}`,
		},
		{
			name:       "duplicate",
			body:       validBody,
			createErr:  domain.NewCustomerAlreadyExistsError("5551234567"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"apiPath":"uri=/api/create","errorCode":"BAD_REQUEST","errorMessage":"Customer already registered with given mobileNumber 5551234567","errorTime":"2024-03-01T12:00:00Z"}`,
			wantCalled: true,
		},
		{
			name:       "internal",
			body:       validBody,
			createErr:  errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"apiPath":"uri=/api/create","errorCode":"INTERNAL_SERVER_ERROR","errorMessage":"connection refused","errorTime":"2024-03-01T12:00:00Z"}`,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockAccountsService{
				createAccountFn: func(ctx context.Context, dto domain.CustomerDto) error {
					called = true
					return tt.createErr
				},
			}

			w := perform(newTestRouter(svc), http.MethodPost, "/api/create", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
			if called != tt.wantCalled {
				t.Errorf("service called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestFetchAccountHandler(t *testing.T) {
	svc := &mockAccountsService{
		fetchAccountFn: func(ctx context.Context, mobileNumber string) (domain.CustomerDto, error) {
			if mobileNumber != "5551234567" {
				return domain.CustomerDto{}, domain.NewNotFoundError("Customer", "mobileNumber", mobileNumber)
			}
			return domain.CustomerDto{
				Name:         "Jane Doe",
				Email:        "jane@example.com",
				MobileNumber: mobileNumber,
				AccountsDto: &domain.AccountsDto{
					AccountNumber: 1234567890,
					AccountType:   "Savings",
					BranchAddress: "123 Main Street, New York",
				},
			}, nil
		},
	}
	r := newTestRouter(svc)

	t.Run("found", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/api/fetch?mobileNumber=5551234567", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got domain.CustomerDto
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if got.AccountsDto == nil || got.AccountsDto.AccountNumber != 1234567890 {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/api/fetch?mobileNumber=9999999999", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		var got res.ErrorResponseDto
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if got.APIPath != "uri=/api/fetch" || got.ErrorCode != "NOT_FOUND" {
			t.Errorf("unexpected body: %+v", got)
		}
		if got.ErrorMessage != "Customer not found with the given input data mobileNumber : '9999999999'" {
			t.Errorf("errorMessage = %q", got.ErrorMessage)
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/api/fetch", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		want := `{"mobileNumber":"Required request parameter 'mobileNumber' is not present"}`
		if got := strings.TrimSpace(w.Body.String()); got != want {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("invalid parameter", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/api/fetch?mobileNumber=12ab", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		want := `{"mobileNumber":"Mobile number must be 10 digits"}`
		if got := strings.TrimSpace(w.Body.String()); got != want {
			t.Errorf("body = %s", got)
		}
	})
}

func TestUpdateAccountHandler(t *testing.T) {
	tests := []struct {
		name       string
		updated    bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "updated",
			updated:    true,
			wantStatus: http.StatusOK,
			wantBody:   `{"statusCode":"200","statusMsg":"Request processed successfully"}`,
		},
		{
			name:       "not applied",
			updated:    false,
			wantStatus: http.StatusExpectationFailed,
			wantBody:   `{"statusCode":"417","statusMsg":"Update operation failed. Please try again or contact Dev team"}`,
		},
		{
			name:       "account not found",
			err:        domain.NewNotFoundError("Account", "AccountNumber", "1234567890"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"apiPath":"uri=/api/update","errorCode":"NOT_FOUND","errorMessage":"Account not found with the given input data AccountNumber : '1234567890'","errorTime":"2024-03-01T12:00:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAccountsService{
				updateAccountFn: func(ctx context.Context, dto domain.CustomerDto) (bool, error) {
					return tt.updated, tt.err
				},
			}

			w := perform(newTestRouter(svc), http.MethodPut, "/api/update", validBody)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	tests := []struct {
		name       string
		deleted    bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deleted",
			deleted:    true,
			wantStatus: http.StatusOK,
			wantBody:   `{"statusCode":"200","statusMsg":"Request processed successfully"}`,
		},
		{
			name:       "not deleted",
			wantStatus: http.StatusExpectationFailed,
			wantBody:   `{"statusCode":"417","statusMsg":"Delete operation failed. Please try again or contact Dev team"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMobile string
			svc := &mockAccountsService{
				deleteAccountFn: func(ctx context.Context, mobileNumber string) (bool, error) {
					gotMobile = mobileNumber
					return tt.deleted, tt.err
				},
			}

			w := perform(newTestRouter(svc), http.MethodDelete, "/api/delete?mobileNumber=5551234567", "")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
			if gotMobile != "5551234567" {
				t.Errorf("mobileNumber = %q", gotMobile)
			}
		})
	}
}

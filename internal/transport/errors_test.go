package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barback/internal/repository"

	"go.uber.org/zap"
)

func TestRespondServiceErrorMapsReferencedEntities(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "product with history",
			err:     fmt.Errorf("failed to delete product: %w", repository.ErrProductReferenced),
			status:  http.StatusConflict,
			message: "product has recorded sales or stock movements",
		},
		{
			name:    "employee with sales",
			err:     fmt.Errorf("failed to delete employee: %w", repository.ErrEmployeeReferenced),
			status:  http.StatusConflict,
			message: "employee has recorded sales, deactivate instead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, zap.NewNop(), tt.err)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}

			var response struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse error body: %v", err)
			}
			if response.Error.Message != tt.message {
				t.Errorf("unexpected message %q", response.Error.Message)
			}
		})
	}
}

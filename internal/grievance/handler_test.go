package grievance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	"github.com/civicworks/grievance-management/internal/auth"
	"github.com/civicworks/grievance-management/internal/grievance"
)

// mockGrievanceService stubs the service layer behind the handler
type mockGrievanceService struct {
	submitResult *grievance.Grievance
	submitErr    error
	getResult    *grievance.Grievance
	getErr       error
	listResult   []*grievance.Grievance
	listErr      error
	updateResult *grievance.Grievance
	updateErr    error
	lastLimit    int
	lastOffset   int
}

func (m *mockGrievanceService) Submit(ctx context.Context, submittedBy string, dto grievance.SubmitGrievanceDTO) (*grievance.Grievance, error) {
	return m.submitResult, m.submitErr
}

func (m *mockGrievanceService) GetByTrackingID(trackingID string, caller *auth.User) (*grievance.Grievance, error) {
	return m.getResult, m.getErr
}

func (m *mockGrievanceService) List(caller *auth.User, limit, offset int) ([]*grievance.Grievance, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	return m.listResult, m.listErr
}

func (m *mockGrievanceService) UpdateStatus(ctx context.Context, trackingID, newStatus string, caller *auth.User) (*grievance.Grievance, error) {
	return m.updateResult, m.updateErr
}

func requestWithUser(r *http.Request, u *auth.User) *http.Request {
	return r.WithContext(auth.ContextWithUser(r.Context(), u))
}

func withTrackingID(r *http.Request, trackingID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("trackingID", trackingID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("GrievanceHandler", func() {
	var (
		handler *grievance.Handler
		svc     *mockGrievanceService
		citizen *auth.User
		admin   *auth.User
	)

	BeforeEach(func() {
		svc = &mockGrievanceService{}
		handler = grievance.NewHandler(svc)
		citizen = &auth.User{ID: 1, Email: "asha@mail.com", Role: auth.RoleCitizen}
		admin = &auth.User{ID: 2, Email: "admin@gov.in", Role: auth.RoleAdmin}
	})

	Describe("Submit", func() {
		It("should return 201 with the stored grievance", func() {
			svc.submitResult = &grievance.Grievance{
				TrackingID: "GRV-00042",
				Status:     grievance.StatusPending,
			}

			body, _ := json.Marshal(grievance.SubmitGrievanceDTO{
				Category:    "Roads",
				Description: "Large pothole",
			})
			req := requestWithUser(httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body)), citizen)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var result grievance.Grievance
			Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
			Expect(result.TrackingID).To(Equal("GRV-00042"))
			Expect(result.Status).To(Equal(grievance.StatusPending))
		})

		It("should return 401 without an authenticated user", func() {
			req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader([]byte(`{}`)))
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 on a malformed body", func() {
			req := requestWithUser(httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader([]byte("{not json"))), citizen)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 502 with a generic message when classification fails", func() {
			svc.submitErr = grievance.ErrClassificationFailed

			body, _ := json.Marshal(grievance.SubmitGrievanceDTO{
				Category:    "Roads",
				Description: "Large pothole",
			})
			req := requestWithUser(httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body)), citizen)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			Expect(w.Code).To(Equal(http.StatusBadGateway))
			Expect(w.Body.String()).NotTo(ContainSubstring("classification failed"))
			Expect(w.Body.String()).To(ContainSubstring("try again later"))
		})
	})

	Describe("Get", func() {
		It("should return 404 for unknown tracking IDs", func() {
			svc.getErr = grievance.ErrGrievanceNotFound

			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodGet, "/grievances/GRV-99999", nil), citizen), "GRV-99999")
			w := httptest.NewRecorder()

			handler.Get(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 403 when access is denied", func() {
			svc.getErr = grievance.ErrUnauthorizedAccess

			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodGet, "/grievances/GRV-00042", nil), citizen), "GRV-00042")
			w := httptest.NewRecorder()

			handler.Get(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return the grievance for the submitter", func() {
			svc.getResult = &grievance.Grievance{TrackingID: "GRV-00042", SubmittedBy: citizen.Email}

			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodGet, "/grievances/GRV-00042", nil), citizen), "GRV-00042")
			w := httptest.NewRecorder()

			handler.Get(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("List", func() {
		It("should apply default pagination", func() {
			svc.listResult = []*grievance.Grievance{}

			req := requestWithUser(httptest.NewRequest(http.MethodGet, "/grievances", nil), citizen)
			w := httptest.NewRecorder()

			handler.List(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(svc.lastLimit).To(Equal(20))
			Expect(svc.lastOffset).To(Equal(0))
		})

		It("should clamp out-of-range limits to the default", func() {
			svc.listResult = []*grievance.Grievance{}

			req := requestWithUser(httptest.NewRequest(http.MethodGet, "/grievances?limit=5000&offset=-3", nil), citizen)
			w := httptest.NewRecorder()

			handler.List(w, req)

			Expect(svc.lastLimit).To(Equal(20))
			Expect(svc.lastOffset).To(Equal(0))
		})
	})

	Describe("UpdateStatus", func() {
		It("should return 200 with the updated grievance", func() {
			svc.updateResult = &grievance.Grievance{TrackingID: "GRV-00042", Status: grievance.StatusResolved}

			body, _ := json.Marshal(grievance.UpdateStatusDTO{Status: grievance.StatusResolved})
			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodPatch, "/grievances/GRV-00042/status", bytes.NewReader(body)), admin), "GRV-00042")
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should return 400 for an unknown status value", func() {
			body, _ := json.Marshal(grievance.UpdateStatusDTO{Status: "Done"})
			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodPatch, "/grievances/GRV-00042/status", bytes.NewReader(body)), admin), "GRV-00042")
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 403 for non-admin callers", func() {
			svc.updateErr = grievance.ErrUnauthorizedAccess

			body, _ := json.Marshal(grievance.UpdateStatusDTO{Status: grievance.StatusResolved})
			req := withTrackingID(requestWithUser(httptest.NewRequest(http.MethodPatch, "/grievances/GRV-00042/status", bytes.NewReader(body)), citizen), "GRV-00042")
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeEventStore struct {
	events    []model.CorporateActionEvent
	event     *model.CorporateActionEvent
	total     int
	gotFilter model.EventFilter
	gotStatus string
	err       error
}

func (f *fakeEventStore) Search(filter model.EventFilter) ([]model.CorporateActionEvent, error) {
	f.gotFilter = filter
	return f.events, f.err
}

func (f *fakeEventStore) GetByID(eventID string) (*model.CorporateActionEvent, error) {
	return f.event, f.err
}

func (f *fakeEventStore) UpdateStatus(eventID string, status string) error {
	f.gotStatus = status
	return f.err
}

func (f *fakeEventStore) CountEvents() (int, error) {
	return f.total, f.err
}

func newTestRouter(store EventStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewEventHandler(store)
	r.GET("/events", h.GetEvents)
	r.GET("/events/:id", h.GetEvent)
	r.PUT("/events/:id/status", h.PutEventStatus)
	r.GET("/health", h.GetHealth)
	return r
}

func testEvent() model.CorporateActionEvent {
	return model.CorporateActionEvent{
		EventID:          "CA-1",
		EventType:        model.EventDividend,
		Symbol:           "AAPL",
		IssuerName:       "Apple Inc.",
		Status:           model.StatusConfirmed,
		AnnouncementDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Description:      "Quarterly dividend",
	}
}

func TestGetEvents_ReturnsEvents(t *testing.T) {
	store := &fakeEventStore{events: []model.CorporateActionEvent{testEvent()}}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events?event_type=DIVIDEND&symbols=AAPL,MSFT", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res EventListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "CA-1", res.Events[0].EventID)
	assert.Equal(t, "2024-02-01", res.Events[0].AnnouncementDate)

	assert.Equal(t, "DIVIDEND", store.gotFilter.EventType)
	assert.Equal(t, []string{"AAPL", "MSFT"}, store.gotFilter.Symbols)
	assert.Equal(t, 10, store.gotFilter.Limit)
}

func TestGetEvents_InvalidDate(t *testing.T) {
	store := &fakeEventStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events?date_from=02-2024", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvents_DBError(t *testing.T) {
	store := &fakeEventStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetEvent_Found(t *testing.T) {
	event := testEvent()
	store := &fakeEventStore{event: &event}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/CA-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res EventResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Apple Inc.", res.IssuerName)
	assert.Equal(t, "CONFIRMED", res.Status)
}

func TestGetEvent_NotFound(t *testing.T) {
	store := &fakeEventStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/CA-999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutEventStatus_Valid(t *testing.T) {
	store := &fakeEventStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/CA-1/status", jsonBody(`{"status":"COMPLETED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COMPLETED", store.gotStatus)
}

func TestPutEventStatus_MissingEventIs404(t *testing.T) {
	store := &fakeEventStore{err: fmt.Errorf("event CA-404: %w", model.ErrNotFound)}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/CA-404/status", jsonBody(`{"status":"COMPLETED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutEventStatus_UnknownStatus(t *testing.T) {
	store := &fakeEventStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/CA-1/status", jsonBody(`{"status":"SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "", store.gotStatus)
}

func TestGetHealth_Healthy(t *testing.T) {
	store := &fakeEventStore{total: 3}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	store := &fakeEventStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

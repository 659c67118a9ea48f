package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeCommentStore struct {
	comments []model.UserComment
	err      error
}

func (f *fakeCommentStore) Add(comment *model.UserComment) error {
	if f.err != nil {
		return f.err
	}
	comment.CommentID = "cmt-1"
	return nil
}

func (f *fakeCommentStore) ListByEvent(eventID string) ([]model.UserComment, error) {
	return f.comments, f.err
}

func (f *fakeCommentStore) Resolve(commentID string, notes string) error {
	return f.err
}

type fakeInquiryStore struct {
	inquiries []model.ProcessInquiry
	err       error
}

func (f *fakeInquiryStore) Create(inquiry *model.ProcessInquiry) error {
	if f.err != nil {
		return f.err
	}
	inquiry.InquiryID = "inq-1"
	inquiry.Status = model.InquiryOpen
	return nil
}

func (f *fakeInquiryStore) ListByEvent(eventID string) ([]model.ProcessInquiry, error) {
	return f.inquiries, f.err
}

func (f *fakeInquiryStore) ListByUser(userID string) ([]model.ProcessInquiry, error) {
	return f.inquiries, f.err
}

func (f *fakeInquiryStore) UpdateStatus(inquiryID string, status string, notes string) error {
	return f.err
}

type fakeSubscriptionStore struct {
	sub *model.UserSubscription
	err error
}

func (f *fakeSubscriptionStore) Upsert(sub *model.UserSubscription) error { return f.err }

func (f *fakeSubscriptionStore) Get(userID string) (*model.UserSubscription, error) {
	return f.sub, f.err
}

func (f *fakeSubscriptionStore) Delete(userID string) error { return f.err }

func newCollabRouter(comments CommentStore, inquiries InquiryStore, subs SubscriptionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCollabHandler(comments, inquiries, subs)
	r.POST("/events/:id/comments", h.PostComment)
	r.GET("/events/:id/comments", h.GetComments)
	r.POST("/comments/:id/resolve", h.PostResolveComment)
	r.POST("/inquiries", h.PostInquiry)
	r.GET("/inquiries", h.GetInquiries)
	r.PUT("/inquiries/:id/status", h.PutInquiryStatus)
	r.PUT("/subscriptions/:user_id", h.PutSubscription)
	r.GET("/subscriptions/:user_id", h.GetSubscription)
	return r
}

func TestPostComment_Created(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"user_id":"u1","user_name":"Ops","category":"QUESTION","content":"Is the record date final?"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/CA-1/comments", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res CommentResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "cmt-1", res.CommentID)
	assert.Equal(t, "CA-1", res.EventID)
}

func TestPostComment_UnknownCategory(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"user_id":"u1","category":"RANT","content":"hello"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/CA-1/comments", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostComment_MissingEventIs404(t *testing.T) {
	store := &fakeCommentStore{err: fmt.Errorf("event CA-404: %w", model.ErrNotFound)}
	r := newCollabRouter(store, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"user_id":"u1","category":"COMMENT","content":"hello"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/CA-404/comments", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostComment_DBError(t *testing.T) {
	store := &fakeCommentStore{err: errors.New("DB down")}
	r := newCollabRouter(store, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"user_id":"u1","category":"COMMENT","content":"hello"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/CA-1/comments", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostResolveComment_EmptyBody(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/comments/cmt-1/resolve", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostResolveComment_MalformedBody(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/comments/cmt-1/resolve", jsonBody(`{"resolution_notes":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostResolveComment_MissingCommentIs404(t *testing.T) {
	store := &fakeCommentStore{err: fmt.Errorf("comment cmt-404: %w", model.ErrNotFound)}
	r := newCollabRouter(store, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/comments/cmt-404/resolve", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetComments_ReturnsList(t *testing.T) {
	store := &fakeCommentStore{comments: []model.UserComment{
		{CommentID: "cmt-1", EventID: "CA-1", Category: model.CommentQuestion, Content: "first"},
		{CommentID: "cmt-2", EventID: "CA-1", Category: model.CommentUpdate, Content: "second"},
	}}
	r := newCollabRouter(store, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/CA-1/comments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Comments []CommentResponse `json:"comments"`
		Count    int               `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "first", res.Comments[0].Content)
}

func TestPostInquiry_Created(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"event_id":"CA-1","user_id":"u1","subject":"Payment date mismatch"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/inquiries", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res InquiryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "inq-1", res.InquiryID)
	assert.Equal(t, "OPEN", res.Status)
}

func TestGetInquiries_RequiresSelector(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/inquiries", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutInquiryStatus_MissingInquiryIs404(t *testing.T) {
	store := &fakeInquiryStore{err: fmt.Errorf("inquiry inq-404: %w", model.ErrNotFound)}
	r := newCollabRouter(&fakeCommentStore{}, store, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/inquiries/inq-404/status", jsonBody(`{"status":"RESOLVED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutInquiryStatus_UnknownStatus(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/inquiries/inq-1/status", jsonBody(`{"status":"DONE"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutSubscription_ValidatesEventTypes(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	body := `{"symbols":["AAPL"],"event_types":["LUNCH"]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/subscriptions/u1", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubscription_NotFound(t *testing.T) {
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, &fakeSubscriptionStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/subscriptions/u1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSubscription_Found(t *testing.T) {
	store := &fakeSubscriptionStore{sub: &model.UserSubscription{
		UserID:  "u1",
		Symbols: []string{"AAPL", "MSFT"},
	}}
	r := newCollabRouter(&fakeCommentStore{}, &fakeInquiryStore{}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/subscriptions/u1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SubscriptionResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, []string{"AAPL", "MSFT"}, res.Symbols)
}

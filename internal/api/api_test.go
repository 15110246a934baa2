package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/studydeck/internal/api"
	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository/sqlite"
	"github.com/vytor/studydeck/internal/services"
	"github.com/vytor/studydeck/internal/testutil"
	"github.com/vytor/studydeck/internal/testutil/mocks"
	"github.com/vytor/studydeck/internal/worker"
)

var fixedNow = time.Date(2024, 3, 10, 15, 45, 0, 0, time.UTC)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type APISuite struct {
	suite.Suite
	pool    *worker.Pool
	server  *api.Server
	handler http.Handler
	profile int64
}

func (s *APISuite) SetupTest() {
	db := testutil.NewTestDB(s.T())
	s.T().Cleanup(func() { testutil.MustClose(s.T(), db) })

	profileRepo := sqlite.NewProfileRepository(db)
	cardRepo := sqlite.NewCardRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)

	clock := services.WithClock(func() time.Time { return fixedNow })
	cardSvc := services.NewCardService(cardRepo, clock)
	studySvc := services.NewStudyService(cardRepo, reviewRepo, profileRepo, clock)

	s.pool = worker.NewPool(1, 4)
	s.pool.Start(context.Background())
	s.T().Cleanup(s.pool.Stop)

	s.server = api.NewServer(db, services.NewProfileService(profileRepo, studySvc), cardSvc, studySvc,
		jobs.NewWorkerQueue(s.pool, cardSvc, 100))
	s.handler = s.server.Routes()
	s.profile = testutil.CreateProfile(s.T(), db, "alice")
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Profile-ID", strconv.FormatInt(s.profile, 10))

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APISuite) createCard(question, deck string) models.Card {
	rec := s.do(http.MethodPost, "/cards", map[string]string{
		"question": question,
		"answer":   "answer to " + question,
		"deck":     deck,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var card models.Card
	s.decode(rec, &card)
	return card
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	var ready struct {
		Status         string `json:"status"`
		PendingImports int    `json:"pending_imports"`
	}
	s.decode(rec, &ready)
	s.Equal("ready", ready.Status)
	s.Zero(ready.PendingImports)
}

func (s *APISuite) TestRequiresProfile() {
	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("X-Profile-ID", "9999")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var body errorResponse
	s.decode(rec, &body)
	s.Equal("UNAUTHORIZED", body.Error.Code)
}

func (s *APISuite) TestCreateProfileSetsCookie() {
	req := httptest.NewRequest(http.MethodPost, "/profiles", bytes.NewBufferString(`{"username":"bob"}`))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var profile models.Profile
	s.decode(rec, &profile)
	s.Equal("bob", profile.Username)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("profile_id", cookies[0].Name)
	s.Equal(strconv.FormatInt(profile.ID, 10), cookies[0].Value)

	// the cookie alone selects the profile
	req = httptest.NewRequest(http.MethodGet, "/decks", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestCreateProfileValidation() {
	rec := s.do(http.MethodPost, "/profiles", map[string]string{"username": ""})
	s.Equal(http.StatusBadRequest, rec.Code)

	var body errorResponse
	s.decode(rec, &body)
	s.Equal("VALIDATION_ERROR", body.Error.Code)
	s.Contains(body.Error.Message, "username")
}

func (s *APISuite) TestCardCRUD() {
	card := s.createCard("What is ATP?", "Biology")
	s.Equal(1, card.Interval)
	s.Equal(2.5, card.EaseFactor)

	rec := s.do(http.MethodGet, "/cards/"+card.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/cards/"+card.ID, map[string]string{
		"question": "What does ATP stand for?",
		"answer":   "Adenosine triphosphate",
		"deck":     "Biology",
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	var updated models.Card
	s.decode(rec, &updated)
	s.Equal("What does ATP stand for?", updated.Question)

	rec = s.do(http.MethodGet, "/cards?deck=Biology", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var cards []models.Card
	s.decode(rec, &cards)
	s.Len(cards, 1)

	rec = s.do(http.MethodDelete, "/cards/"+card.ID, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/cards/"+card.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestListCardsRejectsBadPaging() {
	rec := s.do(http.MethodGet, "/cards?limit=-1", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/cards?offset=abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestRejectsUnknownFields() {
	rec := s.do(http.MethodPost, "/cards", map[string]string{
		"question": "q",
		"answer":   "a",
		"deck":     "d",
		"colour":   "red",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestBulkCreateAndDecks() {
	rec := s.do(http.MethodPost, "/decks/History/cards", map[string]any{
		"cards": []map[string]string{
			{"question": "Year of the Battle of Hastings?", "answer": "1066"},
			{"question": "First Roman emperor?", "answer": "Augustus"},
		},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.createCard("What is ATP?", "Biology")

	rec = s.do(http.MethodGet, "/decks", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var decks []models.DeckSummary
	s.decode(rec, &decks)
	s.Equal([]models.DeckSummary{
		{Deck: "Biology", Total: 1, Due: 1},
		{Deck: "History", Total: 2, Due: 2},
	}, decks)

	rec = s.do(http.MethodGet, "/decks/names", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var names []string
	s.decode(rec, &names)
	s.Equal([]string{"Biology", "History"}, names)
}

func (s *APISuite) TestBulkCreateRequiresCards() {
	rec := s.do(http.MethodPost, "/decks/History/cards", map[string]any{"cards": []any{}})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestStudyFlow() {
	first := s.createCard("What is ATP?", "Biology")
	s.createCard("What is DNA?", "Biology")
	s.createCard("Year of the Battle of Hastings?", "History")

	rec := s.do(http.MethodGet, "/session?deck=Biology", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var state services.SessionState
	s.decode(rec, &state)
	s.Equal(2, state.Total)
	s.Len(state.Cards, 2)
	s.Equal(0, state.Progress.Answered)

	rec = s.do(http.MethodPost, "/session/review", map[string]any{
		"card_id":      first.ID,
		"quality":      5,
		"time_seconds": 3.5,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res services.ReviewResult
	s.decode(rec, &res)
	s.Equal(6, res.Card.Interval)
	s.InDelta(2.6, res.Card.EaseFactor, 1e-9)
	s.Equal(2, res.Card.Version)
	s.Len(res.Session.Cards, 1)
	s.Equal(1, res.Session.Progress.Total)
	s.Zero(res.Session.Progress.Answered)
	s.Zero(res.Session.Progress.Percent)

	rec = s.do(http.MethodGet, "/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var stats models.StudyStat
	s.decode(rec, &stats)
	s.Equal(3, stats.TotalCards)
	s.Equal(2, stats.TotalDecks)
	s.Equal(2, stats.CardsDue)
	s.Equal(1, stats.TotalReviews)
	s.InDelta(100.0, stats.Accuracy, 1e-9)
}

func (s *APISuite) TestReviewRejectsInvalidRating() {
	card := s.createCard("What is ATP?", "Biology")

	rec := s.do(http.MethodPost, "/session/review", map[string]any{"card_id": card.ID, "quality": 7})
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	var body errorResponse
	s.decode(rec, &body)
	s.Equal("INVALID_RATING", body.Error.Code)

	rec = s.do(http.MethodPost, "/session/review", map[string]any{"card_id": card.ID})
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.decode(rec, &body)
	s.Equal("VALIDATION_ERROR", body.Error.Code)
}

func (s *APISuite) TestReviewUnknownCard() {
	rec := s.do(http.MethodPost, "/session/review", map[string]any{"card_id": "missing", "quality": 4})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) upload(deck, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = fw.Write([]byte(content))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/decks/"+deck+"/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Profile-ID", strconv.FormatInt(s.profile, 10))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) TestImportCSV() {
	rec := s.upload("Spanish", "words.csv", "question,answer\nhola,hello\nadiós,goodbye\n,missing\n")
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	var job models.ImportJob
	s.decode(rec, &job)
	s.NotEmpty(job.ID)
	s.Equal(models.ImportQueued, job.State)

	s.Require().Eventually(func() bool {
		rec := s.do(http.MethodGet, "/imports/"+job.ID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		return json.Unmarshal(rec.Body.Bytes(), &job) == nil && job.State == models.ImportDone
	}, 2*time.Second, 10*time.Millisecond)

	s.Equal(2, job.Created)
	s.Len(job.RowErrors, 1)

	rec = s.do(http.MethodGet, "/cards?deck=Spanish", nil)
	var cards []models.Card
	s.decode(rec, &cards)
	s.Len(cards, 2)
}

func (s *APISuite) TestImportRejectsUnknownFormat() {
	rec := s.upload("Spanish", "words.txt", "hola,hello\n")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestImportStatusUnknown() {
	rec := s.do(http.MethodGet, "/imports/nope", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestImportQueueFull() {
	queue := new(mocks.MockImportQueue)
	queue.On("EnqueueImport", mock.Anything, mock.Anything).Return(models.ImportJob{}, worker.ErrQueueFull)
	s.server.ImportQueue = queue
	s.handler = s.server.Routes()

	rec := s.upload("Spanish", "words.csv", "hola,hello\n")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var body errorResponse
	s.decode(rec, &body)
	s.Equal("UNAVAILABLE", body.Error.Code)
	queue.AssertExpectations(s.T())
}

func (s *APISuite) TestDeleteProfileClearsCookie() {
	rec := s.do(http.MethodDelete, "/profiles/"+strconv.FormatInt(s.profile, 10), nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(-1, cookies[0].MaxAge)

	rec = s.do(http.MethodGet, "/cards", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

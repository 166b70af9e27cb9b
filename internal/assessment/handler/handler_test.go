package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"signalviz/internal/assessment/models"
	"signalviz/internal/assessment/service"
	"signalviz/internal/assessment/store"
	"signalviz/internal/jwttoken"
	"signalviz/internal/platform/logger"
	"signalviz/internal/platform/metrics"
)

type HandlerSuite struct {
	suite.Suite
	store  *store.MemoryStore
	router chi.Router
	token  string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	log := logger.New("error")
	m := metrics.NewWith(prometheus.NewRegistry())
	s.store = store.NewMemory()
	svc := service.New(s.store, log, m)

	jwtSvc := jwttoken.NewJWTService("test-signing-key", "signalviz", "signalviz")
	token, err := jwtSvc.GenerateAccessToken("researcher-1", time.Hour)
	s.Require().NoError(err)
	s.token = token

	s.router = chi.NewRouter()
	New(svc, log, m, jwttoken.NewJWTServiceAdapter(jwtSvc)).Register(s.router)
}

func (s *HandlerSuite) seed(records ...models.AssessmentRecord) {
	s.Require().NoError(s.store.ReplaceAll(context.Background(), records))
}

func (s *HandlerSuite) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *HandlerSuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v))
}

func (s *HandlerSuite) TestRequiresBearerToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/assessments", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestRejectsGarbageToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/assessments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestListEmptyIsArray() {
	rr := s.do(http.MethodGet, "/api/assessments", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *HandlerSuite) TestListWithQueryParams() {
	s.seed(
		models.AssessmentRecord{ID: "a", Data: models.RecordData{RawScore: 10, Archetype: "Analyst", Email: "ada@example.com"}},
		models.AssessmentRecord{ID: "b", Data: models.RecordData{RawScore: 30, Archetype: "Builder", Email: "bob@example.com"}},
		models.AssessmentRecord{ID: "c", Data: models.RecordData{RawScore: 20, Archetype: "Analyst", Email: "carol@example.com"}},
	)

	rr := s.do(http.MethodGet, "/api/assessments?archetype=Analyst&sort=score&dir=asc", nil)
	s.Equal(http.StatusOK, rr.Code)

	var got []models.AssessmentRecord
	s.decode(rr, &got)
	s.Require().Len(got, 2)
	s.Equal("a", got[0].ID)
	s.Equal("c", got[1].ID)
}

func (s *HandlerSuite) TestListSearch() {
	s.seed(
		models.AssessmentRecord{ID: "a", Data: models.RecordData{Email: "ada@example.com"}},
		models.AssessmentRecord{ID: "b", Data: models.RecordData{Email: "bob@example.com"}},
	)

	rr := s.do(http.MethodGet, "/api/assessments?search=ADA", nil)
	var got []models.AssessmentRecord
	s.decode(rr, &got)
	s.Require().Len(got, 1)
	s.Equal("a", got[0].ID)
}

func (s *HandlerSuite) TestUploadReplace() {
	s.seed(models.AssessmentRecord{ID: "old"})

	rr := s.do(http.MethodPost, "/api/assessments/upload", []byte(`[{"id":"a"},{"id":"b"}]`))
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Success bool   `json:"success"`
		Count   int    `json:"count"`
		Mode    string `json:"mode"`
	}
	s.decode(rr, &resp)
	s.True(resp.Success)
	s.Equal(2, resp.Count)
	s.Equal("replace", resp.Mode)

	stored, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Len(stored, 2)
}

func (s *HandlerSuite) TestUploadAppendMode() {
	s.seed(models.AssessmentRecord{ID: "a"})

	rr := s.do(http.MethodPost, "/api/assessments/upload?mode=append", []byte(`[{"id":"a"},{"id":"b"}]`))
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Count int    `json:"count"`
		Mode  string `json:"mode"`
	}
	s.decode(rr, &resp)
	s.Equal(1, resp.Count)
	s.Equal("append", resp.Mode)
}

func (s *HandlerSuite) TestUploadInvalidMode() {
	rr := s.do(http.MethodPost, "/api/assessments/upload?mode=merge", []byte(`[]`))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestUploadMalformedBody() {
	rr := s.do(http.MethodPost, "/api/assessments/upload", []byte(`42`))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestUploadWrapperShape() {
	rr := s.do(http.MethodPost, "/api/assessments/upload", []byte(`{"assessments":[{"id":"a"}]}`))
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Count int `json:"count"`
	}
	s.decode(rr, &resp)
	s.Equal(1, resp.Count)
}

func (s *HandlerSuite) TestStats() {
	s.seed(
		models.AssessmentRecord{ID: "a", Data: models.RecordData{RawScore: 30}},
		models.AssessmentRecord{ID: "b", Data: models.RecordData{RawScore: 50}},
	)

	rr := s.do(http.MethodGet, "/api/assessments/stats", nil)
	s.Equal(http.StatusOK, rr.Code)

	var stats struct {
		Total    int     `json:"total"`
		AvgScore float64 `json:"avgScore"`
	}
	s.decode(rr, &stats)
	s.Equal(2, stats.Total)
	s.Equal(40.0, stats.AvgScore)
}

func (s *HandlerSuite) TestAnalysis() {
	s.seed(models.AssessmentRecord{
		ID: "a",
		Data: models.RecordData{
			Answers: []models.Answer{{QID: "logic_1", Score: 1}},
			Telemetry: &models.Telemetry{
				PerQ: map[string]models.PerQuestion{"logic_1": {TotalTimeOnQuestionMs: 1500}},
			},
		},
	})

	rr := s.do(http.MethodGet, "/api/assessments/a/analysis", nil)
	s.Equal(http.StatusOK, rr.Code)

	var analysis struct {
		ID     string `json:"id"`
		Traits []struct {
			Name string `json:"name"`
		} `json:"traits"`
	}
	s.decode(rr, &analysis)
	s.Equal("a", analysis.ID)
	s.Require().Len(analysis.Traits, 1)
	s.Equal("logic", analysis.Traits[0].Name)
}

func (s *HandlerSuite) TestAnalysisNotFound() {
	rr := s.do(http.MethodGet, "/api/assessments/missing/analysis", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestUpdateAnnotations() {
	s.seed(models.AssessmentRecord{ID: "a", Annotations: models.Annotations{"notes": "keep me"}})

	rr := s.do(http.MethodPatch, "/api/assessments/a/annotations", []byte(`{"flagged":true}`))
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Success     bool           `json:"success"`
		Annotations map[string]any `json:"annotations"`
	}
	s.decode(rr, &resp)
	s.True(resp.Success)
	s.Equal(true, resp.Annotations["flagged"])
	s.Equal("keep me", resp.Annotations["notes"])
	// The authenticated researcher is stamped onto the record.
	s.Equal("researcher-1", resp.Annotations["lastUpdatedBy"])
}

func (s *HandlerSuite) TestUpdateAnnotationsUnknownID() {
	rr := s.do(http.MethodPatch, "/api/assessments/missing/annotations", []byte(`{"flagged":true}`))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestUpdateAnnotationsBadBody() {
	s.seed(models.AssessmentRecord{ID: "a"})
	rr := s.do(http.MethodPatch, "/api/assessments/a/annotations", []byte(`[1,2]`))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestDelete() {
	s.seed(models.AssessmentRecord{ID: "a"}, models.AssessmentRecord{ID: "b"})

	rr := s.do(http.MethodDelete, "/api/assessments/a", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"success":true,"message":"Assessment deleted"}`, rr.Body.String())

	rr = s.do(http.MethodDelete, "/api/assessments/a", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestClear() {
	s.seed(models.AssessmentRecord{ID: "a"})

	rr := s.do(http.MethodDelete, "/api/assessments", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"success":true,"message":"All data cleared"}`, rr.Body.String())

	stored, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(stored)
}

func (s *HandlerSuite) TestRequestIDEchoed() {
	rr := s.do(http.MethodGet, "/api/assessments", nil)
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *HandlerSuite) TestLargeUpload() {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < 500; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":"rec-%d","data":{"rawScore":%d}}`, i, i%60)
	}
	buf.WriteByte(']')

	rr := s.do(http.MethodPost, "/api/assessments/upload", buf.Bytes())
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Count int `json:"count"`
	}
	s.decode(rr, &resp)
	s.Equal(500, resp.Count)
}

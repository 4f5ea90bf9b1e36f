package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/herolabs/hokhub/internal/contrib"
	"github.com/herolabs/hokhub/internal/hok"
	"github.com/herolabs/hokhub/internal/service"
	"github.com/herolabs/hokhub/internal/store"
)

func fixtureServices(t *testing.T) (*service.HeroService, *contrib.Pipeline) {
	t.Helper()

	docs, err := store.NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	snap := hok.NewSnapshot()
	snap.Main["ANGELA"] = &hok.Hero{Name: "Angela", HeroID: 142, Role: "Mage", Skins: []hok.Skin{{Name: "Classic"}}}
	snap.Main["SHI"] = &hok.Hero{Name: "Shi", HeroID: 501, Role: "Mage"}
	for _, h := range snap.Main {
		h.EnsureDefaults()
	}
	doc, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, docs.SaveSnapshotDoc(context.Background(), doc))

	return service.NewHeroService(docs, nil), contrib.NewPipeline(docs, nil)
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "hokhub", body["service"])

	// Without redis configured the probe is skipped entirely.
	require.NotContains(t, body, "cache")
}

func TestGetDataset(t *testing.T) {
	heroes, _ := fixtureServices(t)
	h := NewHandler(heroes, nil, nil)

	rec := httptest.NewRecorder()
	h.GetDataset(rec, httptest.NewRequest(http.MethodGet, "/api/v1/heroes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap hok.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Main, 2)
}

func TestGetHero(t *testing.T) {
	heroes, _ := fixtureServices(t)
	h := NewHandler(heroes, nil, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/heroes/angela", nil), map[string]string{"name": "angela"})
	rec := httptest.NewRecorder()
	h.GetHero(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var hero hok.Hero
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hero))
	require.Equal(t, 142, hero.HeroID)
}

func TestGetHeroNotFound(t *testing.T) {
	heroes, _ := fixtureServices(t)
	h := NewHandler(heroes, nil, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/heroes/nobody", nil), map[string]string{"name": "nobody"})
	rec := httptest.NewRecorder()
	h.GetHero(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "error")
}

func TestSearchHeroes(t *testing.T) {
	heroes, _ := fixtureServices(t)
	h := NewHandler(heroes, nil, nil)

	rec := httptest.NewRecorder()
	h.SearchHeroes(rec, httptest.NewRequest(http.MethodGet, "/api/v1/heroes/search?q=ang", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count   int        `json:"count"`
		Results []hok.Hero `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, "Angela", body.Results[0].Name)
}

func TestContributionLifecycleOverHTTP(t *testing.T) {
	_, pipeline := fixtureServices(t)
	ch := NewContributionHandler(pipeline, nil)

	// Submit.
	payload := `{"type":"skin","data":{"heroId":142,"skin":{"skinName":"Swan Princess","skinSeries":"MAGIC"}}}`
	rec := httptest.NewRecorder()
	ch.HandleSubmit(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contributions", bytes.NewBufferString(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitBody struct {
		Contribution contrib.Contribution `json:"contribution"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitBody))
	id := submitBody.Contribution.ID
	require.NotEmpty(t, id)

	// Pending queue shows it.
	rec = httptest.NewRecorder()
	ch.HandlePending(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contributions/pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), id)

	// Approve.
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/contributions/%s/approve", id), nil), map[string]string{"id": id})
	rec = httptest.NewRecorder()
	ch.HandleApprove(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Approving again conflicts.
	req = mux.SetURLVars(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/contributions/%s/approve", id), nil), map[string]string{"id": id})
	rec = httptest.NewRecorder()
	ch.HandleApprove(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)

	// History records the approval.
	rec = httptest.NewRecorder()
	ch.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contributions/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), id)
}

func TestSubmitValidationFailure(t *testing.T) {
	_, pipeline := fixtureServices(t)
	ch := NewContributionHandler(pipeline, nil)

	payload := `{"type":"skin","data":{"heroId":0}}`
	rec := httptest.NewRecorder()
	ch.HandleSubmit(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contributions", bytes.NewBufferString(payload)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveUnknownIDReturns404(t *testing.T) {
	_, pipeline := fixtureServices(t)
	ch := NewContributionHandler(pipeline, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/v1/contributions/skin-0/approve", nil), map[string]string{"id": "skin-0"})
	rec := httptest.NewRecorder()
	ch.HandleApprove(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkEndpointsValidateIDs(t *testing.T) {
	_, pipeline := fixtureServices(t)
	ch := NewContributionHandler(pipeline, nil)

	rec := httptest.NewRecorder()
	ch.HandleApproveBulk(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contributions/approve-bulk", bytes.NewBufferString(`{"ids":[]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	ch.HandleRejectBulk(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contributions/reject-bulk", bytes.NewBufferString(`{"ids":["skin-0"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []contrib.BulkResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	require.NotEmpty(t, body.Results[0].Error)
}

package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/umlweb/pkg/adapters/memory"
	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/observability"
	"github.com/aretw0/umlweb/pkg/persistence"
	"github.com/aretw0/umlweb/pkg/store"
	"github.com/aretw0/umlweb/pkg/xmlcodec"
)

type brokenRepo struct{}

func (brokenRepo) Load(context.Context) (*domain.Snapshot, error) { return nil, nil }
func (brokenRepo) Save(context.Context, domain.Snapshot) error    { return errors.New("disk full") }
func (brokenRepo) Clear(context.Context) error                    { return errors.New("disk full") }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var exportTime = time.Date(2025, 1, 31, 14, 5, 9, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.New(t.Context(), persistence.NewRepository(memory.NewStore()), store.WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return exportTime })}, opts...)
	return NewHandler(st, opts...), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createdID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp createdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"umlweb-http"`)
}

func TestEditingFlow(t *testing.T) {
	h, st := newTestServer(t)

	actor := createdID(t, do(t, h, "POST", "/actors", `{"name":"Customer"}`))
	uc := createdID(t, do(t, h, "POST", "/use-cases", `{"name":"Checkout","description":"Buy"}`))

	w := do(t, h, "POST", "/canvas/connect", fmt.Sprintf(`{"sourceId":%q,"targetId":%q}`, actor, uc))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connected":true}`, w.Body.String())

	w = do(t, h, "POST", "/canvas/connect", fmt.Sprintf(`{"sourceId":%q,"targetId":%q}`, uc, actor))
	assert.JSONEq(t, `{"connected":false}`, w.Body.String())

	p1 := createdID(t, do(t, h, "POST", "/use-cases/"+uc+"/phrases", `{"text":"Pick items"}`))
	p2 := createdID(t, do(t, h, "POST", "/use-cases/"+uc+"/phrases", `{"text":"Pay"}`))
	af := createdID(t, do(t, h, "POST", "/use-cases/"+uc+"/alternative-flows",
		fmt.Sprintf(`{"name":"Declined","kind":"exception","parentPhraseId":%q}`, p2)))
	createdID(t, do(t, h, "POST", "/use-cases/"+uc+"/alternative-flows/"+af+"/phrases", `{"text":"Retry"}`))

	w = do(t, h, "PATCH", "/use-cases/"+uc+"/alternative-flows/"+af, fmt.Sprintf(`{"returnPhraseId":%q}`, p1))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "PUT", "/canvas/positions/"+uc, `{"x":10,"y":20,"w":160}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	snap := st.Snapshot()
	require.Len(t, snap.UseCases, 1)
	got := snap.UseCases[0]
	assert.Equal(t, []string{"Pick items", "Pay"}, []string{got.Phrases[0].Text, got.Phrases[1].Text})
	require.Len(t, got.AlternativeFlows, 1)
	assert.Equal(t, domain.FlowKindException, got.AlternativeFlows[0].Kind)
	assert.Equal(t, p1, got.AlternativeFlows[0].ReturnPhraseID)
	assert.Len(t, snap.ActorUseCaseLinks, 1)
	assert.Equal(t, domain.NodePosition{X: 10, Y: 20, W: domain.Dim(160)}, snap.NodePositions[uc])

	w = do(t, h, "GET", "/use-cases/"+uc+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "### 2a. Declined (exception)")

	w = do(t, h, "DELETE", "/use-cases/"+uc+"/phrases/"+p2, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Snapshot().UseCases[0].AlternativeFlows)

	w = do(t, h, "DELETE", "/actors/"+actor, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Snapshot().ActorUseCaseLinks)
}

func TestUpdateActor(t *testing.T) {
	h, st := newTestServer(t)
	id := createdID(t, do(t, h, "POST", "/actors", `{"name":"Bank","description":"old"}`))

	w := do(t, h, "PATCH", "/actors/"+id, `{"icon":"system"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	a, ok := st.Snapshot().Actor(id)
	require.True(t, ok)
	assert.Equal(t, domain.ActorIconSystem, a.Icon)
	assert.Equal(t, "old", a.Description)

	w = do(t, h, "PATCH", "/actors/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidation(t *testing.T) {
	h, st := newTestServer(t)

	tests := []struct {
		name, method, path, body, want string
	}{
		{"missing name", "POST", "/actors", `{}`, "name is required"},
		{"bad icon", "POST", "/actors", `{"name":"A","icon":"robot"}`, "icon must be one of"},
		{"bad association type", "POST", "/associations", `{"sourceId":"a","targetId":"b","type":"uses"}`, "type must be one of"},
		{"unknown field", "POST", "/use-cases", `{"name":"A","colour":"red"}`, "invalid request body"},
		{"not json", "POST", "/links", `nope`, "invalid request body"},
		{"bad inspector kind", "PUT", "/selection/inspector", `{"kind":"link","id":"L1"}`, "kind must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
	assert.Equal(t, domain.NewSnapshot(), st.Snapshot())
}

func TestStorageFailure(t *testing.T) {
	st, err := store.New(t.Context(), brokenRepo{})
	require.NoError(t, err)
	h := NewHandler(st)

	w := do(t, h, "POST", "/actors", `{"name":"Customer"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, st.Snapshot().Actors)

	w = do(t, h, "DELETE", "/project", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportXML(t *testing.T) {
	h, _ := newTestServer(t)
	createdID(t, do(t, h, "POST", "/actors", `{"id":"A1","name":"Customer"}`))

	w := do(t, h, "GET", "/project/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xmlcodec.MIMEType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="uml-project-2025-01-31T14:05:09.xml"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `<ext:actor id="A1"`)

	w = do(t, h, "GET", "/project/export?compat=true", "")
	assert.NotContains(t, w.Body.String(), "ext:")
}

const importDoc = `<root xmlns:ext="urn:umlweb:v1">
  <use_case id="UC1">Checkout<main_flow><phrase id="P1">Pay</phrase></main_flow></use_case>
  <ext:actors><ext:actor id="A1" name="Customer" type="person"/></ext:actors>
</root>`

func TestImportXML_RawBody(t *testing.T) {
	h, st := newTestServer(t)

	req := httptest.NewRequest("POST", "/project/import", strings.NewReader(importDoc))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := st.Snapshot()
	require.Len(t, snap.UseCases, 1)
	assert.Equal(t, "Checkout", snap.UseCases[0].Name)
	require.Len(t, snap.Actors, 1)
	assert.Equal(t, "Customer", snap.Actors[0].Name)
}

func TestImportXML_Multipart(t *testing.T) {
	h, st := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "project.xml")
	require.NoError(t, err)
	_, err = part.Write([]byte(importDoc))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/project/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, st.Snapshot().UseCases, 1)
}

func TestImportXML_Rejected(t *testing.T) {
	h, st := newTestServer(t)
	createdID(t, do(t, h, "POST", "/actors", `{"name":"Keep me"}`))
	before := st.Snapshot()

	req := httptest.NewRequest("POST", "/project/import", strings.NewReader("<root><unclosed></root>"))
	req.Header.Set("Content-Type", "text/xml")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("POST", "/project/import", strings.NewReader(importDoc))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	assert.Equal(t, before, st.Snapshot())
}

func TestProjectReplaceAndReset(t *testing.T) {
	h, st := newTestServer(t)

	w := do(t, h, "PUT", "/project", `{"actors":[{"id":"A1","name":"Customer","icon":"person"}],"useCases":[]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, st.Snapshot().Actors, 1)

	w = do(t, h, "GET", "/project", "")
	assert.Contains(t, w.Body.String(), `"name":"Customer"`)

	w = do(t, h, "DELETE", "/project", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Snapshot().Actors)
}

func TestCanvasAndDiagrams(t *testing.T) {
	h, _ := newTestServer(t)
	id := createdID(t, do(t, h, "POST", "/canvas/drop", `{"kind":"actor","x":5,"y":6}`))

	w := do(t, h, "GET", "/canvas/nodes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)
	assert.Contains(t, w.Body.String(), "New actor")

	w = do(t, h, "PUT", "/selection/focus", fmt.Sprintf(`{"id":%q}`, id))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/project/diagram.mmd", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))
	assert.Contains(t, w.Body.String(), "focused")

	w = do(t, h, "GET", "/project/diagram.dot", "")
	assert.Contains(t, w.Body.String(), "digraph UseCases")

	w = do(t, h, "GET", "/project/report", "")
	assert.Contains(t, w.Body.String(), "New actor")
}

func TestSelectionEndpoints(t *testing.T) {
	h, st := newTestServer(t)

	w := do(t, h, "PUT", "/selection/inspector", `{"kind":"use_case","id":"UC1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, st.Selection().Inspector)
	assert.Equal(t, "UC1", st.Selection().Inspector.ID)

	w = do(t, h, "DELETE", "/selection/inspector", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, st.Selection().Inspector)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	st, err := store.New(t.Context(), persistence.NewRepository(memory.NewStore()), store.WithHooks(m.Hooks()))
	require.NoError(t, err)
	h := NewHandler(st, WithMetrics(reg))

	createdID(t, do(t, h, "POST", "/actors", `{"name":"Customer"}`))

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `umlweb_mutations_total{op="add_actor"} 1`)
}

func TestCORS(t *testing.T) {
	h, _ := newTestServer(t, WithCORSOrigins([]string{"https://app.example"}))

	req := httptest.NewRequest("OPTIONS", "/project", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	h, st := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?watch=project", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	st.FocusElement("ignored")
	_, err = st.AddActor(ctx, domain.Actor{ID: "A1", Name: "Customer"})
	require.NoError(t, err)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &event))
	assert.Equal(t, store.OpAddActor, event.Op)
	require.NotNil(t, event.Diff)
	assert.Equal(t, []string{"A1"}, event.Diff.Actors.Added)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe()

	sm.Broadcast("one")
	assert.Equal(t, "one", <-ch)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, func() { sm.Broadcast("two") })
}

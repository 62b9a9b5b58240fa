package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/lecternhq/lectern/internal/artifacts"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/filestore"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/providers"
	"github.com/lecternhq/lectern/internal/svcctx"
)

var collectionRe = regexp.MustCompile(`(create|update|delete)_(\w+)`)

// graphqlStore fakes the document store for endpoint tests. Queries
// return the configured docs under every collection name mentioned in
// the query; mutations return a fixed docID.
type graphqlStore struct {
	server *httptest.Server
	docs   []map[string]any
}

func newGraphqlStore(t *testing.T) *graphqlStore {
	t.Helper()
	g := &graphqlStore{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req docstore.GQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := docstore.GQLResponse{Data: map[string]any{}}
		if m := collectionRe.FindStringSubmatch(req.Query); m != nil {
			resp.Data[m[1]+"_"+m[2]] = []any{map[string]any{"_docID": "doc-1"}}
		} else {
			list := make([]any, 0, len(g.docs))
			for _, d := range g.docs {
				list = append(list, d)
			}
			for _, collection := range []string{"Resource", "LessonPlan", "QuestionSet", "Presentation", "NotesSet", "ContentStats"} {
				if strings.Contains(req.Query, collection+" ") || strings.Contains(req.Query, collection+"(") {
					resp.Data[collection] = list
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(g.server.Close)
	return g
}

// testServices wires real services against the fake store.
func testServices(t *testing.T, g *graphqlStore) *svcctx.Services {
	t.Helper()
	client := docstore.NewClient(g.server.URL)
	catalogStore := catalog.NewStore(client)
	artifactStore := artifacts.NewStore(client, nil, nil)

	registry := providers.NewRegistryFromConfig(providers.RegistryConfig{
		LLMProviders: map[string]providers.LLMProviderConfig{
			"m": {Type: "mock", Enabled: true},
		},
		Order: []string{"m"},
	})

	return &svcctx.Services{
		Store:     client,
		Catalog:   catalogStore,
		Resolver:  catalog.NewResolver(catalogStore),
		Collector: catalog.NewCollector(catalogStore),
		Files:     filestore.New(t.TempDir(), 1<<20),
		Registry:  registry,
		Artifacts: artifactStore,
		Pipeline: generate.NewPipeline(generate.PipelineConfig{
			Collector: catalog.NewCollector(catalogStore),
			Registry:  registry,
			Artifacts: artifactStore,
		}),
	}
}

// do runs a handler with services attached to the request context.
func do(t *testing.T, svcs *svcctx.Services, ep interface {
	Route() (string, string, http.HandlerFunc)
}, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	method, pattern, handler := ep.Route()

	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, handler)

	req = req.WithContext(svcctx.WithServices(context.Background(), svcs))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestContentTypeFromSlug(t *testing.T) {
	tests := []struct {
		slug string
		want generate.ContentType
		ok   bool
	}{
		{"lesson-plan", generate.TypeLessonPlan, true},
		{"lesson_plan", generate.TypeLessonPlan, true},
		{"question-set", generate.TypeQuestionSet, true},
		{"presentation", generate.TypePresentation, true},
		{"notes", generate.TypeNotes, true},
		{"poem", "", false},
	}
	for _, tt := range tests {
		got, ok := contentTypeFromSlug(tt.slug)
		if ok != tt.ok || got != tt.want {
			t.Errorf("contentTypeFromSlug(%q) = %v, %v", tt.slug, got, ok)
		}
	}
}

func TestUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/stats", nil)
	if got := userID(req); got != "local" {
		t.Errorf("default userID = %q", got)
	}

	req.Header.Set("X-User-ID", "teacher-1")
	if got := userID(req); got != "teacher-1" {
		t.Errorf("header userID = %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, &svcctx.Services{}, &HealthEndpoint{}, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	var resp HealthResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("Status = %s", resp.Status)
	}
}

func TestReadyEndpoint_NotInitialized(t *testing.T) {
	rec := do(t, &svcctx.Services{}, &ReadyEndpoint{}, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestFiltersEndpoint(t *testing.T) {
	g := newGraphqlStore(t)
	g.docs = []map[string]any{
		{"_docID": "r1", "class": "9", "subject": "Physics", "book": "Physics 9", "chapter": "Motion"},
		{"_docID": "r2", "class": "10", "subject": "Chemistry", "book": "Chem 10", "chapter": "Acids"},
	}
	svcs := testServices(t, g)

	rec := do(t, svcs, &FiltersEndpoint{}, httptest.NewRequest("GET", "/api/filters?class=9", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var opts catalog.FilterOptions
	if err := json.NewDecoder(rec.Body).Decode(&opts); err != nil {
		t.Fatal(err)
	}
	if len(opts.Classes) != 2 {
		t.Errorf("Classes = %v", opts.Classes)
	}
	if len(opts.Subjects) != 1 || opts.Subjects[0] != "Physics" {
		t.Errorf("Subjects = %v, want narrowed to class 9", opts.Subjects)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	mockClient, err := svcs.Registry.GetLLM("m")
	if err != nil {
		t.Fatal(err)
	}
	mockClient.(*providers.MockClient).ResponseText =
		`{"title": "Motion Basics", "sections": [{"id": 1, "title": "Objectives", "content": "..."}]}`

	body, _ := json.Marshal(GenerateRequest{
		Subject:  "Physics",
		Book:     "Physics 9",
		Chapters: []string{"Motion"},
	})
	req := httptest.NewRequest("POST", "/api/generate/lesson-plan", bytes.NewReader(body))
	rec := do(t, svcs, &GenerateEndpoint{Type: generate.TypeLessonPlan}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var artifact generate.Artifact
	if err := json.NewDecoder(rec.Body).Decode(&artifact); err != nil {
		t.Fatal(err)
	}
	if artifact.Title != "Motion Basics" {
		t.Errorf("Title = %s", artifact.Title)
	}
	if artifact.DocID != "doc-1" {
		t.Errorf("DocID = %s, artifact not persisted", artifact.DocID)
	}
}

func TestGenerateEndpoint_WithoutBook(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	mockClient, err := svcs.Registry.GetLLM("m")
	if err != nil {
		t.Fatal(err)
	}
	mockClient.(*providers.MockClient).ResponseText =
		`{"title": "Motion Notes", "notes": [{"id": 1, "title": "Velocity", "content": "..."}]}`

	body, _ := json.Marshal(GenerateRequest{
		Subject:  "Physics",
		Chapters: []string{"Motion"},
	})
	req := httptest.NewRequest("POST", "/api/generate/notes", bytes.NewReader(body))
	rec := do(t, svcs, &GenerateEndpoint{Type: generate.TypeNotes}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a request without a book: %s", rec.Code, rec.Body.String())
	}
	var artifact generate.Artifact
	if err := json.NewDecoder(rec.Body).Decode(&artifact); err != nil {
		t.Fatal(err)
	}
	if artifact.Title != "Motion Notes" {
		t.Errorf("Title = %s", artifact.Title)
	}
}

func TestGenerateEndpoint_ValidationError(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	body, _ := json.Marshal(GenerateRequest{Subject: "Physics"})
	req := httptest.NewRequest("POST", "/api/generate/notes", bytes.NewReader(body))
	rec := do(t, svcs, &GenerateEndpoint{Type: generate.TypeNotes}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func uploadRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "worksheet.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("some worksheet content"))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/resources/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadResourceEndpoint(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	req := uploadRequest(t, map[string]string{
		"title":   "Worksheet",
		"class":   "9",
		"subject": "Physics",
		"book":    "Physics 9",
		"chapter": "Motion",
	})
	rec := do(t, svcs, &UploadResourceEndpoint{}, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp UploadResourceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Resource.Title != "Worksheet" {
		t.Errorf("Title = %s", resp.Resource.Title)
	}
	if resp.Resource.FileURL == "" || !strings.HasPrefix(resp.Resource.FileURL, "/api/files/") {
		t.Errorf("FileURL = %s", resp.Resource.FileURL)
	}
}

func TestUploadResourceEndpoint_WithoutBook(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	req := uploadRequest(t, map[string]string{
		"title":   "Worksheet",
		"class":   "9",
		"subject": "Physics",
		"chapter": "Motion",
	})
	rec := do(t, svcs, &UploadResourceEndpoint{}, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 for an upload without a book: %s", rec.Code, rec.Body.String())
	}
	var resp UploadResourceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Resource.Book != "" {
		t.Errorf("Book = %q, want empty", resp.Resource.Book)
	}
}

func TestUploadResourceEndpoint_MissingMetadata(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	req := uploadRequest(t, map[string]string{"title": "Worksheet"})
	rec := do(t, svcs, &UploadResourceEndpoint{}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportArtifactEndpoint(t *testing.T) {
	g := newGraphqlStore(t)
	g.docs = []map[string]any{{
		"_docID":     "doc-1",
		"title":      "Motion Quiz",
		"subject":    "Physics",
		"units_json": `[{"id": 1, "title": "MCQ 1", "content": "What is force?"}]`,
	}}
	svcs := testServices(t, g)

	req := httptest.NewRequest("GET", "/api/artifacts/question-set/doc-1/export?format=markdown", nil)
	rec := do(t, svcs, &ExportArtifactEndpoint{}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "# Motion Quiz") {
		t.Errorf("export missing title: %s", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".md") {
		t.Errorf("Content-Disposition = %s", cd)
	}
}

func TestExportArtifactEndpoint_BadFormat(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	req := httptest.NewRequest("GET", "/api/artifacts/notes/doc-1/export?format=pdf", nil)
	rec := do(t, svcs, &ExportArtifactEndpoint{}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateUnitsEndpoint_RenumbersUnits(t *testing.T) {
	g := newGraphqlStore(t)
	g.docs = []map[string]any{{
		"_docID":     "doc-1",
		"title":      "Plan",
		"units_json": `[{"id": 1, "title": "A", "content": "x"}]`,
	}}
	svcs := testServices(t, g)

	body, _ := json.Marshal(UpdateUnitsRequest{
		Units: []generate.Unit{
			{ID: 7, Title: "First", Content: "a"},
			{ID: 7, Title: "Second", Content: "b"},
		},
	})
	req := httptest.NewRequest("PATCH", "/api/artifacts/lesson-plan/doc-1/units", bytes.NewReader(body))
	rec := do(t, svcs, &UpdateUnitsEndpoint{}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateUnitsEndpoint_EmptyUnits(t *testing.T) {
	g := newGraphqlStore(t)
	svcs := testServices(t, g)

	body, _ := json.Marshal(UpdateUnitsRequest{})
	req := httptest.NewRequest("PATCH", "/api/artifacts/lesson-plan/doc-1/units", bytes.NewReader(body))
	rec := do(t, svcs, &UpdateUnitsEndpoint{}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAllEndpointsHaveCommands(t *testing.T) {
	for _, ep := range All(Config{}) {
		method, path, handler := ep.Route()
		if method == "" || path == "" || handler == nil {
			t.Errorf("%T has incomplete route", ep)
		}
		if cmd := ep.Command(func() string { return "http://localhost:8080" }); cmd == nil {
			t.Errorf("%T has no CLI command", ep)
		}
	}
}

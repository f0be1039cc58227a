package pinecone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// fakePinecone serves both the control plane and the data plane.
type fakePinecone struct {
	t           *testing.T
	srv         *httptest.Server
	describes   int32
	upserts     int32
	failUpsert  int32 // 1-based upsert call that fails; 0 never
	lastUpsert  upsertRequest
	lastQuery   queryRequest
	queryResult string
}

func newFakePinecone(t *testing.T) *fakePinecone {
	f := &fakePinecone{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /indexes/{name}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.describes, 1)
		f.check(r)
		if r.PathValue("name") != "papers" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Resource papers-x not found"},"status":404}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":   "papers",
			"host":   f.srv.URL,
			"status": map[string]any{"ready": true, "state": "Ready"},
		})
	})
	mux.HandleFunc("POST /vectors/upsert", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.upserts, 1)
		f.check(r)
		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.lastUpsert = req
		if n == f.failUpsert {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":3,"message":"Vector dimension 3 does not match the dimension of the index 768"}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"upsertedCount":%d}`, len(req.Vectors))
	})
	mux.HandleFunc("POST /describe_index_stats", func(w http.ResponseWriter, r *http.Request) {
		f.check(r)
		_, _ = w.Write([]byte(`{"namespaces":{"ml":{"vectorCount":12}},"dimension":768,"totalVectorCount":12}`))
	})
	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		f.check(r)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastQuery))
		_, _ = w.Write([]byte(f.queryResult))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakePinecone) check(r *http.Request) {
	assert.Equal(f.t, "p-key", r.Header.Get("Api-Key"))
	assert.Equal(f.t, DefaultAPIVersion, r.Header.Get("X-Pinecone-API-Version"))
}

func (f *fakePinecone) store(t *testing.T, index string) *Store {
	s, err := NewStore(Config{APIKey: "p-key", IndexName: index, Namespace: "ml", ControlPlaneURL: f.srv.URL})
	require.NoError(t, err)
	return s
}

func records(n int) []domain.VectorRecord {
	out := make([]domain.VectorRecord, n)
	for i := range out {
		out[i] = domain.VectorRecord{
			ID:       fmt.Sprintf("r%d", i),
			Values:   []float32{1, 2, 3},
			Text:     fmt.Sprintf("chunk %d", i),
			Metadata: domain.PageMetadata("ldm.pdf", i%3+1),
		}
	}
	return out
}

func TestNewStore_RequiresAPIKey(t *testing.T) {
	_, err := NewStore(Config{IndexName: "papers"})
	assert.EqualError(t, err, "pinecone: API key is required")
}

func TestNewStore_NormalisesHost(t *testing.T) {
	s, err := NewStore(Config{APIKey: "k", Host: "papers-abc.svc.pinecone.io/"})

	require.NoError(t, err)
	assert.Equal(t, "https://papers-abc.svc.pinecone.io", s.Host())
}

func TestStore_Upsert_ResolvesHostOnceAndBatches(t *testing.T) {
	f := newFakePinecone(t)
	s := f.store(t, "papers")

	require.NoError(t, s.Upsert(context.Background(), records(250)))
	require.NoError(t, s.Upsert(context.Background(), records(1)))

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.describes))
	assert.Equal(t, int32(4), atomic.LoadInt32(&f.upserts))
	assert.Equal(t, "ml", f.lastUpsert.Namespace)

	v := f.lastUpsert.Vectors[0]
	assert.Equal(t, "r0", v.ID)
	assert.Equal(t, "chunk 0", v.Metadata[MetadataText])
	assert.Equal(t, "ldm.pdf", v.Metadata[MetadataSource])
	assert.EqualValues(t, 1, v.Metadata[MetadataPageNumber])
}

func TestStore_Upsert_EmptyMakesNoRequest(t *testing.T) {
	f := newFakePinecone(t)
	s := f.store(t, "papers")

	require.NoError(t, s.Upsert(context.Background(), nil))

	assert.Zero(t, atomic.LoadInt32(&f.describes))
}

func TestStore_Upsert_StopsAtFirstFailedBatch(t *testing.T) {
	f := newFakePinecone(t)
	f.failUpsert = 2
	s := f.store(t, "papers")

	err := s.Upsert(context.Background(), records(250))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert stopped after 100 of 250 records")
	assert.Contains(t, err.Error(), "Vector dimension 3 does not match")
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.upserts), "no batch after the failure")
}

func TestStore_Search(t *testing.T) {
	f := newFakePinecone(t)
	f.queryResult = `{"matches":[
		{"id":"a","score":0.91,"metadata":{"text":"LDMs work in latent space.","source":"ldm.pdf","pageNumber":2}},
		{"id":"b","score":0.55,"metadata":{"text":"legacy","loc.pageNumber":7}},
		{"id":"c","score":0.12}
	],"namespace":"ml"}`
	s := f.store(t, "papers")

	passages, err := s.Search(context.Background(), []float32{0.1, 0.2}, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, f.lastQuery.TopK)
	assert.Equal(t, "ml", f.lastQuery.Namespace)
	assert.True(t, f.lastQuery.IncludeMetadata)

	require.Len(t, passages, 3)
	assert.Equal(t, "LDMs work in latent space.", passages[0].PageContent)
	assert.Equal(t, "ldm.pdf", passages[0].Metadata.Source)
	assert.Equal(t, 2, passages[0].Metadata.Page())
	assert.InDelta(t, 0.91, passages[0].Score, 1e-9)
	assert.Equal(t, 7, passages[1].Metadata.Page())
	assert.Nil(t, passages[2].Metadata.PageNumber)
	assert.Empty(t, passages[2].Metadata.Source)
}

func TestStore_Search_NoMatches(t *testing.T) {
	f := newFakePinecone(t)
	f.queryResult = `{"matches":[],"namespace":"ml"}`
	s := f.store(t, "papers")

	passages, err := s.Search(context.Background(), []float32{1}, 1)

	require.NoError(t, err)
	assert.NotNil(t, passages)
	assert.Empty(t, passages)
}

func TestStore_Ping(t *testing.T) {
	f := newFakePinecone(t)

	assert.NoError(t, f.store(t, "papers").Ping(context.Background()))

	err := f.store(t, "missing").Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `pinecone: index "missing" not found in this project`)
	assert.Contains(t, err.Error(), "Resource papers-x not found")

	s, err := NewStore(Config{APIKey: "p-key"})
	require.NoError(t, err)
	assert.EqualError(t, s.Ping(context.Background()), "pinecone: index name is required")

	before := atomic.LoadInt32(&f.describes)
	direct, err := NewStore(Config{APIKey: "p-key", Host: f.srv.URL})
	require.NoError(t, err)
	assert.NoError(t, direct.Ping(context.Background()))
	assert.Equal(t, before, atomic.LoadInt32(&f.describes), "a configured host skips the control plane")
}

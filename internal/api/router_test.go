package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meur/battlebuddy/internal/catalog"
	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/storage"
	"github.com/meur/battlebuddy/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *storage.Store) {
	t.Helper()
	store := storagetest.OpenSeeded(t)
	srv := httptest.NewServer(New(catalog.New(store), store, []string{"http://localhost:*"}))
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, srv *httptest.Server, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

type listResponse struct {
	Items      []json.RawMessage `json:"items"`
	TotalCount int               `json:"total_count"`
}

func getList(t *testing.T, srv *httptest.Server, path string) listResponse {
	t.Helper()
	status, body := get(t, srv, path)
	require.Equal(t, http.StatusOK, status, string(body))
	var list listResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, list.TotalCount)
	return list
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(body))
}

func TestListEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path  string
		count int
	}{
		{"/api/items", 15},
		{"/api/items?q=ak", 2},
		{"/api/items?q=nothing-matches", 0},
		{"/api/firearms", 4},
		{"/api/firearms?type=assault_rifle", 2},
		{"/api/firearms?caliber=9x19", 1},
		{"/api/firearms?type=assault_rifle&caliber=762x39", 1},
		{"/api/armor", 4},
		{"/api/armor/body", 3},
		{"/api/armor/body?class=4", 1},
		{"/api/armor/body?material=ceramic", 2},
		{"/api/armor/body?class=5&material=aramid", 0},
		{"/api/ammo", 3},
		{"/api/ammo?caliber=545x39", 2},
		{"/api/medical", 2},
		{"/api/throwables", 1},
		{"/api/melee", 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			list := getList(t, srv, tt.path)
			assert.Equal(t, tt.count, list.TotalCount)
		})
	}
}

func TestListEndpoints_Body(t *testing.T) {
	srv, _ := newTestServer(t)

	list := getList(t, srv, "/api/firearms?caliber=9x19")
	var mp5 models.Firearm
	require.NoError(t, json.Unmarshal(list.Items[0], &mp5))
	assert.Equal(t, "mp5", mp5.ID)
	assert.Equal(t, models.FirearmSMG, mp5.Type)
}

func TestInvalidFilters(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{
		"/api/firearms?type=railgun",
		"/api/armor/body?class=7",
		"/api/armor/body?class=heavy",
		"/api/armor/body?material=wood",
	} {
		t.Run(path, func(t *testing.T) {
			status, body := get(t, srv, path)
			assert.Equal(t, http.StatusBadRequest, status)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestGroupEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv, "/api/firearms/by-type")
	require.Equal(t, http.StatusOK, status)
	var byType map[models.FirearmType][]models.Firearm
	require.NoError(t, json.Unmarshal(body, &byType))
	assert.Len(t, byType, len(models.AllFirearmTypes()))
	assert.Len(t, byType[models.FirearmAssaultRifle], 2)
	assert.Empty(t, byType[models.FirearmPistol])

	status, body = get(t, srv, "/api/armor/body/by-class")
	require.Equal(t, http.StatusOK, status)
	var byClass map[string][]models.Armor
	require.NoError(t, json.Unmarshal(body, &byClass))
	assert.Len(t, byClass, 6)
	assert.Len(t, byClass["3"], 0, "helmets are not body armor")
	assert.Len(t, byClass["4"], 1)

	status, body = get(t, srv, "/api/armor/by-class")
	require.Equal(t, http.StatusOK, status)
	byClass = nil
	require.NoError(t, json.Unmarshal(body, &byClass))
	assert.Len(t, byClass["3"], 1)

	status, body = get(t, srv, "/api/ammo/by-caliber")
	require.Equal(t, http.StatusOK, status)
	var byCaliber map[string][]models.Ammo
	require.NoError(t, json.Unmarshal(body, &byCaliber))
	assert.Len(t, byCaliber, 2)
	assert.Len(t, byCaliber["545x39"], 2)

	status, body = get(t, srv, "/api/medical/by-type")
	require.Equal(t, http.StatusOK, status)
	var byMedical map[models.MedicalItemType][]models.Medical
	require.NoError(t, json.Unmarshal(body, &byMedical))
	assert.Len(t, byMedical, len(models.AllMedicalItemTypes()))
	assert.Len(t, byMedical[models.MedicalSplint], 1)
}

func TestMetadataEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.IncrementCounter(context.Background(), storage.CounterTotalUsers, 12)
	require.NoError(t, err)

	status, body := get(t, srv, "/api/metadata")
	require.Equal(t, http.StatusOK, status)

	parsed, ok := models.ParseGlobalMetadataJSON(body)
	require.True(t, ok, string(body))
	assert.Equal(t, 12, parsed.TotalUserCount)
	assert.Zero(t, parsed.TotalAdsWatched)
	assert.Equal(t, storagetest.SampleAmmoMetadata(), parsed.AmmoMetadata)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	get(t, srv, "/api/ammo")
	get(t, srv, "/api/firearms?type=railgun")

	status, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, status)
	text := string(body)
	assert.True(t, strings.Contains(text, `battlebuddy_http_requests_total{method="GET",route="/api/ammo",status="200"} 1`), text)
	assert.True(t, strings.Contains(text, `route="/api/firearms",status="400"`), text)
}

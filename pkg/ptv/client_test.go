package ptv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestUnits_DecodesFeed(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"itemList": [
				{
					"id": "7fadb0f4-6c9a-4d22-b8a3-ea19b100a973",
					"serviceChannelType": "ServiceLocation",
					"serviceChannelNames": [{"language": "fi", "value": "Pääkirjasto"}],
					"emails": [{"value": "kirjasto@turku.fi"}]
				},
				{
					"id": "0d312d36-8dd9-4d87-bbcb-16d8b2ab0b4c",
					"serviceChannelType": "EChannel"
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	records, err := client.Units(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, "/ServiceChannel/list/area/Municipality/code/853", gotPath)
	require.Len(t, records, 2)
	assert.Equal(t, "ServiceLocation", records[0].ServiceChannelType)
	assert.Equal(t, "Pääkirjasto", records[0].ServiceChannelNames[0].Value)
	assert.Equal(t, "kirjasto@turku.fi", records[0].Emails[0].Value)
	assert.Equal(t, "EChannel", records[1].ServiceChannelType)
}

func TestServices_DecodesFeed(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"itemList": [
				{
					"id": "0d312d36-8dd9-4d87-bbcb-16d8b2ab0b4c",
					"serviceNames": [{"language": "fi", "value": "Kirjastopalvelut"}],
					"serviceClasses": [{"name": [{"language": "fi", "value": "Koulutus"}]}]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	records, err := client.Services(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, "/Service/list/area/Municipality/code/853", gotPath)
	require.Len(t, records, 1)
	assert.Equal(t, "Kirjastopalvelut", records[0].ServiceNames[0].Value)
	assert.Equal(t, "Koulutus", records[0].ServiceClasses[0].Name[0].Value)
}

func TestGetResource_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	_, err := client.Units(context.Background(), "853")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestUnits_MalformedRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"itemList": [{"id": 42}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	_, err := client.Units(context.Background(), "853")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed unit record at index 0")
}

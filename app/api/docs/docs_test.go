package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	parsed := struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	routes := map[string]string{
		"/listings":                          "post",
		"/listings/{id}/bids":                "post",
		"/listings/{id}/bids/leader":         "get",
		"/listings/{id}/bids/{bidId}/accept": "post",
		"/listings/{id}/offers":              "post",
		"/offers/{offerId}/accept":           "post",
		"/transactions/{id}":                 "get",
		"/transactions/{id}/cancel":          "post",
		"/webhooks/payment":                  "post",
		"/webhooks/logistics":                "post",
		"/health":                            "get",
	}
	for path, method := range routes {
		assert.Contains(t, parsed.Paths[path], method, path)
	}
}

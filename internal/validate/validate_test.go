package validate

import (
	"errors"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		body    string
		wantErr bool
	}{
		{
			name:   "url request",
			schema: URLRequest,
			body: `{"mainApplication":"frontend","mainServiceTypeName":"TOMCAT",
				"navigation":{"period":"5m","endDateTime":"e"},
				"filter":{"fromApplication":"frontend","fromServiceType":"TOMCAT","toApplication":"api","toServiceType":"TOMCAT"},
				"hint":{"api":[{"rpc":"http://api/a","rpcServiceTypeCode":9050}]}}`,
		},
		{
			name:    "url request without main application",
			schema:  URLRequest,
			body:    `{"filter":{"fromServiceType":"USER","toApplication":"api","toServiceType":"TOMCAT"}}`,
			wantErr: true,
		},
		{
			name:    "hint with two labels",
			schema:  ApplyFilter,
			body:    `{"filter":{"fromServiceType":"USER","toApplication":"api","toServiceType":"TOMCAT"},"hint":{"a":[],"b":[]}}`,
			wantErr: true,
		},
		{
			name:   "null hint",
			schema: ApplyFilter,
			body:   `{"filter":{"fromServiceType":"USER","toApplication":"api","toServiceType":"TOMCAT"},"hint":null}`,
		},
		{
			name:    "fractional service type code",
			schema:  ApplyFilter,
			body:    `{"filter":{"fromServiceType":"USER","toApplication":"api","toServiceType":"TOMCAT"},"hint":{"a":[{"rpc":"x","rpcServiceTypeCode":1.5}]}}`,
			wantErr: true,
		},
		{
			name:    "filter missing target",
			schema:  FilterRecord,
			body:    `{"fromApplication":"a","fromServiceType":"TOMCAT"}`,
			wantErr: true,
		},
		{
			name:   "view from address",
			schema: ViewRequest,
			body:   `{"name":"checkout","address":"#/filteredMap/a@T/5m/e/%5B%5D"}`,
		},
		{
			name:    "view without center",
			schema:  ViewRequest,
			body:    `{"name":"checkout","period":"5m"}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			schema:  ViewRequest,
			body:    `{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := JSON(tt.schema, []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJSONReportsValidationError(t *testing.T) {
	err := JSON(FilterRecord, []byte(`{"toApplication":""}`))
	var verr *jsonschema.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestJSONUnknownSchema(t *testing.T) {
	assert.ErrorIs(t, JSON("nope", []byte(`{}`)), ErrUnknownSchema)
}

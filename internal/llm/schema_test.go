package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts anything", nil, `not json`, false},
		{"valid", pointSchema, `{"x":1,"y":2}`, false},
		{"malformed JSON", pointSchema, `{"x":1`, true},
		{"missing required", pointSchema, `{"x":1}`, true},
		{"wrong type", pointSchema, `{"x":"1","y":2}`, true},
		{"extra property", pointSchema, `{"x":1,"y":2,"z":3}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Fatalf("err = %T, want ErrInvalidResponse", err)
				}
				if string(invalid.Content) != tt.raw {
					t.Errorf("content = %s, want %s", invalid.Content, tt.raw)
				}
			}
		})
	}
}

func TestValidateResponse_BadSchema(t *testing.T) {
	bad := &Schema{Name: "test-broken", Definition: map[string]any{"type": 12}}
	err := validateResponse(bad, json.RawMessage(`{}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	a, err := compileSchema(pointSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := compileSchema(pointSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if a != b {
		t.Error("expected cached schema on second compile")
	}
}

package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/rxkit/errors"
)

type queueSettings struct {
	QueueCapacity int `mapstructure:"queue_capacity" validate:"gte=1"`
}

type streamSettings struct {
	Name       string        `mapstructure:"name" validate:"required"`
	Format     string        `mapstructure:"format" validate:"oneof=json console"`
	Scheduler  queueSettings `mapstructure:"scheduler"`
	SampleRate float64       `validate:"gte=0,lte=1"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      streamSettings
		wantFields []string
	}{
		{
			name:  "valid",
			input: streamSettings{Name: "ticks", Format: "json", Scheduler: queueSettings{QueueCapacity: 8}, SampleRate: 0.5},
		},
		{
			name:       "missing name",
			input:      streamSettings{Format: "json", Scheduler: queueSettings{QueueCapacity: 8}},
			wantFields: []string{"name"},
		},
		{
			name:       "nested field uses mapstructure path",
			input:      streamSettings{Name: "ticks", Format: "json"},
			wantFields: []string{"scheduler.queue_capacity"},
		},
		{
			name:       "untagged field falls back to snake case",
			input:      streamSettings{Name: "ticks", Format: "console", Scheduler: queueSettings{QueueCapacity: 1}, SampleRate: 2},
			wantFields: []string{"sample_rate"},
		},
		{
			name:       "several failures",
			input:      streamSettings{Format: "xml"},
			wantFields: []string{"name", "format", "scheduler.queue_capacity"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input)
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !stderrors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			fields, ok := appErr.Details["fields"].([]FieldError)
			if !ok {
				t.Fatalf("expected field details, got %v", appErr.Details)
			}
			if len(fields) != len(tc.wantFields) {
				t.Fatalf("expected %d field errors, got %v", len(tc.wantFields), fields)
			}
			for i, f := range tc.wantFields {
				if fields[i].Field != f {
					t.Errorf("field %d = %q, want %q", i, fields[i].Field, f)
				}
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	err := Validate(streamSettings{Format: "xml", Scheduler: queueSettings{QueueCapacity: 1}})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"name: is required", "format: must be one of: json console"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name    string
		run     func(v *Validator)
		wantErr bool
	}{
		{"required ok", func(v *Validator) { v.Required("name", "ticks") }, false},
		{"required blank", func(v *Validator) { v.Required("name", "   ") }, true},
		{"min ok", func(v *Validator) { v.Min("count", 1, 1) }, false},
		{"min below", func(v *Validator) { v.Min("count", 0, 1) }, true},
		{"range ok", func(v *Validator) { v.Range("sample_rate", 1, 0, 1) }, false},
		{"range above", func(v *Validator) { v.Range("sample_rate", 1.5, 0, 1) }, true},
		{"oneof ok", func(v *Validator) { v.OneOf("env", "staging", []string{"development", "staging"}) }, false},
		{"oneof miss", func(v *Validator) { v.OneOf("env", "qa", []string{"development", "staging"}) }, true},
		{"custom false", func(v *Validator) { v.Custom(false, "buffer", "needs a trigger") }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			tc.run(v)
			if got := v.HasErrors(); got != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", got, tc.wantErr, v.Errors())
			}
		})
	}
}

func TestValidatorErr(t *testing.T) {
	v := New()
	if v.Err() != nil {
		t.Error("expected nil error for empty validator")
	}

	v.Required("name", "").Min("count", -1, 0)
	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "name: is required") || !strings.Contains(err.Error(), "count: must be at least 0") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if len(v.Errors()) != 2 {
		t.Errorf("expected 2 errors, got %d", len(v.Errors()))
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"QueueCapacity": "queue_capacity",
		"Name":          "name",
		"keepAlive":     "keep_alive",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

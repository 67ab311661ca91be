package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/grical/overlay-service/internal/core/domain"
)

// DecodeError is the enumerated failure of decoding a single event record.
type DecodeError struct {
	Reason  domain.SkipReason
	Detail  string
	Missing []string
}

func (e *DecodeError) Error() string {
	return string(e.Reason) + ": " + e.Detail
}

// RecordDecoder turns raw event records into validated EventFields.
type RecordDecoder struct {
	v *validator.Validate
}

// NewRecordDecoder returns a decoder whose validation errors name fields by
// their JSON key.
func NewRecordDecoder() *RecordDecoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RecordDecoder{v: v}
}

// SplitPayload splits a JSON array into its raw elements.
func (d *RecordDecoder) SplitPayload(payload []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if records == nil {
		// "null" decodes without error but is not an array.
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrMalformedPayload)
	}
	return records, nil
}

// Decode extracts and validates the nested fields of one record.
func (d *RecordDecoder) Decode(raw json.RawMessage) (*domain.EventFields, *DecodeError) {
	var rec domain.EventRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &DecodeError{Reason: domain.SkipMalformedRecord, Detail: err.Error()}
	}
	if rec.Fields == nil {
		return nil, &DecodeError{Reason: domain.SkipMalformedRecord, Detail: "record has no fields object"}
	}

	if err := d.v.Struct(rec.Fields); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, &DecodeError{Reason: domain.SkipMalformedRecord, Detail: err.Error()}
		}
		missing := make([]string, 0, len(ve))
		for _, fe := range ve {
			missing = append(missing, fe.Field())
		}
		return nil, &DecodeError{
			Reason:  domain.SkipMissingField,
			Detail:  "missing " + strings.Join(missing, ", "),
			Missing: missing,
		}
	}
	return rec.Fields, nil
}

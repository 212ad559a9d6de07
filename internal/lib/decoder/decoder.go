// Package decoder decodes URL query parameters into structs with
// gorilla/schema, reporting conversion failures per field.
package decoder

import (
	"errors"
	"net/url"

	"github.com/gorilla/schema"
)

type URLDecoder struct {
	decoder *schema.Decoder
}

func New() *URLDecoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("schema")
	d.ZeroEmpty(true)
	return &URLDecoder{decoder: d}
}

// Decode fills dst from src. When some values cannot be converted the
// returned map holds one message per offending query key and err is nil;
// err is reserved for a dst that cannot be decoded into at all.
func (d *URLDecoder) Decode(dst any, src url.Values) (fieldErrs map[string]string, err error) {
	err = d.decoder.Decode(dst, src)
	if err == nil {
		return nil, nil
	}
	var multiErr schema.MultiError
	if !errors.As(err, &multiErr) {
		return nil, err
	}
	fieldErrs = make(map[string]string, len(multiErr))
	for key, fieldErr := range multiErr {
		var convErr schema.ConversionError
		if errors.As(fieldErr, &convErr) {
			fieldErrs[key] = "Value has an invalid format"
			continue
		}
		return nil, fieldErr
	}
	return fieldErrs, nil
}
